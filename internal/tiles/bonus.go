package tiles

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
)

const (
	bonusMin = 1
	bonusMax = 3
)

// BonusEffect adds 1-3 spaces to the roll.
type BonusEffect struct{}

// Spec returns metadata about the bonus tile.
func (e *BonusEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Bonus, Name: "Bonus", Symbol: board.Bonus.Symbol(), Summary: "roll + 1..3"}
}

// Resolve returns roll plus a uniform bonus in [1, 3].
func (e *BonusEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	bonus := engine.IntRange(t.RNG, bonusMin, bonusMax)
	t.emit(event.Effect, "✨ Bonus! +%d spaces.", bonus)
	return t.Roll + bonus, nil
}

// TrapEffect takes 1-3 spaces off the roll, never below zero.
type TrapEffect struct{}

// Spec returns metadata about the trap tile.
func (e *TrapEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Trap, Name: "Trap", Symbol: board.Trap.Symbol(), Summary: "max(0, roll - 1..3)"}
}

// Resolve returns max(0, roll - penalty) with penalty uniform in [1, 3].
func (e *TrapEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	penalty := engine.IntRange(t.RNG, bonusMin, bonusMax)
	t.emit(event.Effect, "💀 Trap! -%d spaces (min 0).", penalty)
	return max(0, t.Roll-penalty), nil
}
