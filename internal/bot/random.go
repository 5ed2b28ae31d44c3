// Package bot provides automated players for simulations: a random bot with
// a fixed answer accuracy and a scripted bot running user JavaScript.
package bot

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

// Random answers correctly with probability Accuracy and leaves fork and
// target choices to the game's random fallback.
type Random struct {
	Accuracy float64
	RNG      engine.RNG
}

// NewRandom returns a bot drawing from rng.
func NewRandom(accuracy float64, rng engine.RNG) *Random {
	return &Random{Accuracy: accuracy, RNG: rng}
}

// Answer returns the expected answer or an empty string.
func (b *Random) Answer(ctx context.Context, p *player.Player, q trivia.Question) (string, error) {
	if b.Accuracy >= 1 || b.RNG.Float64() < b.Accuracy {
		return q.Answer, nil
	}
	return "", nil
}

// ChooseFork returns no choice.
func (b *Random) ChooseFork(ctx context.Context, p *player.Player, paths board.Paths) (string, error) {
	return "", nil
}

// ChooseTarget returns no choice.
func (b *Random) ChooseTarget(ctx context.Context, p *player.Player, candidates []*player.Player) (string, error) {
	return "", nil
}
