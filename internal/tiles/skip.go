package tiles

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
)

// SkipEffect moves by the roll but costs the player their next turn.
type SkipEffect struct{}

// Spec returns metadata about the skip tile.
func (e *SkipEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Skip, Name: "Skip Turn", Symbol: board.Skip.Symbol(), Summary: "move by the roll, miss the next turn"}
}

// Resolve flags the player to skip and returns the roll.
func (e *SkipEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	t.emit(event.Effect, "⏭ Skip Turn! You'll miss your next turn.")
	t.Player.SkipNext = true
	return t.Roll, nil
}
