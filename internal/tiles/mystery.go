package tiles

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
)

// MysteryOutcome is one of the four equally likely mystery results.
type MysteryOutcome int

const (
	MysterySurge MysteryOutcome = iota
	MysteryDrag
	MysteryDouble
	MysteryNothing
)

var mysteryOutcomes = []MysteryOutcome{MysterySurge, MysteryDrag, MysteryDouble, MysteryNothing}

// Apply returns the movement this outcome grants for roll.
func (o MysteryOutcome) Apply(roll int) int {
	switch o {
	case MysterySurge:
		return roll + 3
	case MysteryDrag:
		return max(0, roll-3)
	case MysteryDouble:
		return roll * 2
	default:
		return roll
	}
}

func (o MysteryOutcome) message() string {
	switch o {
	case MysterySurge:
		return "❓ Mystery: Surge forward +3."
	case MysteryDrag:
		return "❓ Mystery: Drag back -3 (min 0)."
	case MysteryDouble:
		return "❓ Mystery: Double your roll!"
	default:
		return "❓ Mystery: No change."
	}
}

// MysteryEffect picks one of +3, -3, x2 or no change uniformly.
type MysteryEffect struct{}

// Spec returns metadata about the mystery tile.
func (e *MysteryEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Mystery, Name: "Mystery", Symbol: board.Mystery.Symbol(), Summary: "roll+3, max(0,roll-3), roll x2 or roll"}
}

// Resolve draws an outcome and applies it to the roll.
func (e *MysteryEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	outcome := engine.Pick(t.RNG, mysteryOutcomes)
	t.emit(event.Effect, "%s", outcome.message())
	return outcome.Apply(t.Roll), nil
}
