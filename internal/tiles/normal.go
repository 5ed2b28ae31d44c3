package tiles

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
)

// NormalEffect moves the player by the roll.
type NormalEffect struct{}

// Spec returns metadata about the normal tile.
func (e *NormalEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Normal, Name: "Normal", Symbol: board.Normal.Symbol(), Summary: "move by the roll"}
}

// Resolve returns the roll unchanged.
func (e *NormalEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	return t.Roll, nil
}

// QuizBoostEffect doubles the roll as a reward for the correct answer.
type QuizBoostEffect struct{}

// Spec returns metadata about the quiz boost tile.
func (e *QuizBoostEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.QuizBoost, Name: "Quiz Boost", Symbol: board.QuizBoost.Symbol(), Summary: "roll x2"}
}

// Resolve returns twice the roll.
func (e *QuizBoostEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	t.emit(event.Effect, "🧠 Quiz Boost: Double your move for correct answers!")
	return t.Roll * 2, nil
}

// DoubleEffect doubles the roll.
type DoubleEffect struct{}

// Spec returns metadata about the double tile.
func (e *DoubleEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Double, Name: "Double", Symbol: board.Double.Symbol(), Summary: "roll x2"}
}

// Resolve returns twice the roll.
func (e *DoubleEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	t.emit(event.Effect, "✪ Double Trouble! Roll counts double.")
	return t.Roll * 2, nil
}
