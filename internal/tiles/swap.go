package tiles

import (
	"context"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
)

// SwapEffect exchanges positions with a random other player.
type SwapEffect struct{}

// Spec returns metadata about the swap tile.
func (e *SwapEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Swap, Name: "Swap", Symbol: board.Swap.Symbol(), Summary: "swap places with a random player"}
}

// Resolve swaps positions directly and returns 0. A lone player stays put.
func (e *SwapEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	others := player.Others(t.Player, t.Players)
	if len(others) == 0 {
		return 0, nil
	}
	other := engine.Pick(t.RNG, others)
	t.Player.Position, other.Position = other.Position, t.Player.Position
	t.emit(event.Effect, "⇄ Swap! You swapped positions with Player %d.", other.ID)
	return 0, nil
}

// TeleportEffect warps the player to a random tile.
type TeleportEffect struct{}

// Spec returns metadata about the teleport tile.
func (e *TeleportEffect) Spec() EffectSpec {
	return EffectSpec{Kind: board.Teleport, Name: "Teleport", Symbol: board.Teleport.Symbol(), Summary: "warp to a random tile"}
}

// Resolve sets the position to a uniform index on the board and returns 0.
func (e *TeleportEffect) Resolve(ctx context.Context, t *Turn) (int, error) {
	pos := engine.IntRange(t.RNG, 0, t.Board.Size()-1)
	t.emit(event.Effect, "✦ Teleport! You warp to tile %d.", pos)
	t.Player.SetPosition(pos)
	return 0, nil
}
