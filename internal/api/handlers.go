package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/render"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/simulate"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/store"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/tiles"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	specs := make([]game.ModeSpec, len(game.Modes))
	for i, m := range game.Modes {
		specs[i] = m.Spec()
	}
	s.writeJSON(w, http.StatusOK, ModesResponse{
		Modes:   specs,
		Tiles:   tiles.ListEffects(),
		Version: Version,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	var req BoardRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !req.Mode.Valid() {
		s.errorHandler.HandleValidationError(w, r, "mode", "mode must be between 1 and 4")
		return
	}

	seeded := req.ServerSeed != "" || req.ClientSeed != ""
	var rng engine.RNG
	if seeded {
		rng = engine.NewStreamRNG(req.ServerSeed, req.ClientSeed, req.Nonce)
	} else {
		var err error
		if rng, err = engine.NewEntropyRNG(); err != nil {
			s.errorHandler.HandleError(w, r, err)
			return
		}
	}

	b, err := board.Generate(rng, req.Mode.WinDistance(), req.Mode.Branching())
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	forks := b.ForkIndices()
	if forks == nil {
		forks = []int{}
	}
	s.writeJSON(w, http.StatusOK, BoardResponse{
		Mode:         req.Mode,
		Size:         b.Size(),
		Branching:    req.Mode.Branching(),
		Forks:        forks,
		Board:        b,
		Text:         render.FormatBoard(b, nil, rng),
		Reproducible: seeded,
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulate.Request
	if !s.decode(w, r, &req) {
		return
	}
	summary, err := s.runner.Run(r.Context(), req, nil)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SimulationResponse{Request: req, Summary: summary, Version: Version})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorHandler.HandleUnavailable(w, r, "game history")
		return
	}

	q := store.GamesQuery{}
	var ok bool
	if q.Page, ok = s.intParam(w, r, "page"); !ok {
		return
	}
	if q.PerPage, ok = s.intParam(w, r, "perPage"); !ok {
		return
	}
	mode, ok := s.intParam(w, r, "mode")
	if !ok {
		return
	}
	if mode != 0 {
		m, err := game.ParseMode(mode)
		if err != nil {
			s.errorHandler.HandleValidationError(w, r, "mode", err.Error())
			return
		}
		q.Mode = m
	}

	list, err := s.db.ListGames(q)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorHandler.HandleUnavailable(w, r, "game history")
		return
	}
	id := chi.URLParam(r, "id")
	g, err := s.db.GetGame(id)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	turns, err := s.db.GetTurns(id)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	if turns == nil {
		turns = []store.Turn{}
	}
	s.writeJSON(w, http.StatusOK, GameDetail{Game: g, Turns: turns})
}

// intParam reads an optional non-negative integer query parameter.
func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		s.errorHandler.HandleValidationError(w, r, name, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
