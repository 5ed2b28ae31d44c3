package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
)

var turnCSVHeader = []string{
	"round", "player_id", "skipped", "roll", "pool", "correct",
	"tile", "delta", "position_before", "position_after",
}

// handleExportTurns writes the turns of a stored game as CSV.
func (s *Server) handleExportTurns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorHandler.HandleUnavailable(w, r, "game history")
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := s.db.GetGame(id); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	turns, err := s.db.GetTurns(id)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="game_`+id+`_turns.csv"`)
	if err := writeTurnsCSV(w, turns); err != nil {
		// Headers are gone; all that is left is the log.
		s.logger.Printf("turn_export_failed game_id=%s error=%v", id, err)
	}
}

func writeTurnsCSV(w http.ResponseWriter, turns []store.Turn) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(turnCSVHeader); err != nil {
		return err
	}
	for _, t := range turns {
		row := []string{
			strconv.Itoa(t.Round),
			strconv.Itoa(t.PlayerID),
			strconv.FormatBool(t.Skipped),
			strconv.Itoa(t.Roll),
			string(t.Pool),
			strconv.FormatBool(t.Correct),
			string(t.Tile),
			strconv.Itoa(t.Delta),
			strconv.Itoa(t.PositionBefore),
			strconv.Itoa(t.PositionAfter),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
