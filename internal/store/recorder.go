package store

import (
	"log"
	"sync"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/game"
)

// TurnRecorder buffers turn records and writes them to the store in
// batches. It implements game.TurnRecorder.
type TurnRecorder struct {
	db        DB
	gameID    string
	logger    *log.Logger
	mu        sync.Mutex
	buffer    []game.TurnRecord
	flushSize int
	err       error
}

// NewTurnRecorder creates a recorder for the given game.
// flushSize controls how many turns are buffered before a batch insert.
func NewTurnRecorder(db DB, gameID string, flushSize int, logger *log.Logger) *TurnRecorder {
	if flushSize <= 0 {
		flushSize = 50
	}
	return &TurnRecorder{
		db:        db,
		gameID:    gameID,
		logger:    logger,
		buffer:    make([]game.TurnRecord, 0, flushSize),
		flushSize: flushSize,
	}
}

// RecordTurn adds a turn to the buffer and flushes if the buffer is full.
func (r *TurnRecorder) RecordTurn(rec game.TurnRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, rec)
	if len(r.buffer) >= r.flushSize {
		if err := r.flushLocked(); err != nil && r.err == nil {
			r.err = err
		}
	}
}

// Flush writes any buffered turns. It also reports the first error from an
// earlier automatic flush.
func (r *TurnRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.flushLocked(); err != nil && r.err == nil {
		r.err = err
	}
	return r.err
}

func (r *TurnRecorder) flushLocked() error {
	if len(r.buffer) == 0 {
		return nil
	}
	turns := make([]game.TurnRecord, len(r.buffer))
	copy(turns, r.buffer)
	r.buffer = r.buffer[:0]

	if err := r.db.InsertTurns(r.gameID, turns); err != nil {
		if r.logger != nil {
			r.logger.Printf("flush_turns_failed game=%s turns=%d err=%v", r.gameID, len(turns), err)
		}
		return err
	}
	return nil
}
