package tiles

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
)

const (
	shoveMin = 3
	shoveMax = 6
)

// PushDownEffect knocks a chosen player back 3-6 spaces.
type PushDownEffect struct{}

// Spec returns metadata about the push down tile.
func (e *PushDownEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.PushDown, Name: "Push Down", Symbol: board.PushDown.Symbol(), Summary: "move by the roll, a target moves back 3..6"}
}

// Resolve moves the target back, floored at 0, and returns the roll.
func (e *PushDownEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	target, err := t.chooseTarget(ctx)
	if err != nil {
		return 0, err
	}
	penalty := engine.IntRange(t.RNG, shoveMin, shoveMax)
	target.Move(-penalty)
	t.emit(event.Effect, "↓ Push Down! Player %d moves back %d.", target.ID, penalty)
	return t.Roll, nil
}

// LiftUpEffect carries a chosen player forward 3-6 spaces.
type LiftUpEffect struct{}

// Spec returns metadata about the lift up tile.
func (e *LiftUpEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.LiftUp, Name: "Lift Up", Symbol: board.LiftUp.Symbol(), Summary: "move by the roll, a target moves forward 3..6"}
}

// Resolve moves the target forward and returns the roll.
func (e *LiftUpEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	target, err := t.chooseTarget(ctx)
	if err != nil {
		return 0, err
	}
	boost := engine.IntRange(t.RNG, shoveMin, shoveMax)
	target.Move(boost)
	t.emit(event.Effect, "↑ Lift Up! Player %d jumps forward %d.", target.ID, boost)
	return t.Roll, nil
}

// StealEffect adds a chosen player's last roll to the acting roll.
type StealEffect struct{}

// Spec returns metadata about the steal tile.
func (e *StealEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Steal, Name: "Steal", Symbol: board.Steal.Symbol(), Summary: "roll + target's last roll"}
}

// Resolve returns roll plus the target's last roll. The target is unchanged.
func (e *StealEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	target, err := t.chooseTarget(ctx)
	if err != nil {
		return 0, err
	}
	stolen := target.LastRoll
	t.emit(event.Effect, "⚔ Steal! You steal +%d from Player %d.", stolen, target.ID)
	return t.Roll + stolen, nil
}
