// Package tiles resolves the effect of the tile a player stands on after a
// correct answer. Each simple tile kind has one Effect registered under its
// kind; fork tiles are handled by ResolveFork.
package tiles

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/event"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
)

var (
	// ErrPositionOutOfRange indicates the acting player is not on the board.
	ErrPositionOutOfRange = errors.New("player position outside board")
	// ErrUnknownTile indicates a tile kind with no registered effect.
	ErrUnknownTile = errors.New("no effect registered for tile")
)

// Chooser supplies the raw input for the two player decisions an effect can
// ask for. Any input is accepted; unrecognised values fall back to a random
// choice.
type Chooser interface {
	ChooseFork(ctx context.Context, p *player.Player, paths board.Paths) (string, error)
	ChooseTarget(ctx context.Context, p *player.Player, candidates []*player.Player) (string, error)
}

// Turn is everything an effect may read or mutate while resolving.
// Effects change field values of Players but never the slice itself.
type Turn struct {
	Board   *board.Board
	Player  *player.Player
	Roll    int
	Players []*player.Player
	RNG     engine.RNG
	Chooser Chooser
	Events  event.Emitter
	Round   int
}

func (t *Turn) emit(kind event.Kind, format string, args ...any) {
	if t.Events == nil {
		return
	}
	t.Events.Emit(event.Event{
		Kind:     kind,
		PlayerID: t.Player.ID,
		Round:    t.Round,
		Message:  fmt.Sprintf(format, args...),
	})
}

// EffectSpec describes a tile effect.
type EffectSpec struct {
	Kind    board.Kind `json:"kind"`
	Name    string     `json:"name"`
	Symbol  string     `json:"symbol"`
	Summary string     `json:"summary"`
}

// Effect computes the movement a tile grants. The returned delta is still to
// be applied by the caller; 0 means the effect already placed the player.
type Effect interface {
	Spec() EffectSpec
	Resolve(ctx context.Context, t *Turn) (int, error)
}

var registry = make(map[board.Kind]Effect)

func register(e Effect) {
	registry[e.Spec().Kind] = e
}

// GetEffect returns the effect registered for kind.
func GetEffect(kind board.Kind) (Effect, bool) {
	e, ok := registry[kind]
	return e, ok
}

// ListEffects returns the descriptor of every registered effect in legend order.
func ListEffects() []EffectSpec {
	order := make(map[board.Kind]int, len(board.Kinds))
	for i, k := range board.Kinds {
		order[k] = i
	}
	specs := make([]EffectSpec, 0, len(registry))
	for _, e := range registry {
		specs = append(specs, e.Spec())
	}
	sort.Slice(specs, func(i, j int) bool {
		return order[specs[i].Kind] < order[specs[j].Kind]
	})
	return specs
}

// Resolve dispatches on the tile at the acting player's position.
func Resolve(ctx context.Context, t *Turn) (int, error) {
	tile, ok := t.Board.At(t.Player.Position)
	if !ok {
		return 0, fmt.Errorf("%w: position %d, board size %d",
			ErrPositionOutOfRange, t.Player.Position, t.Board.Size())
	}
	if tile.IsFork() {
		if err := ResolveFork(ctx, t, *tile.Paths); err != nil {
			return 0, err
		}
		return 0, nil
	}
	e, ok := GetEffect(tile.Kind)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTile, tile.Kind)
	}
	return e.Resolve(ctx, t)
}

func init() {
	register(&NormalEffect{})
	register(&BonusEffect{})
	register(&TrapEffect{})
	register(&MysteryEffect{})
	register(&QuizBoostEffect{})
	register(&SwapEffect{})
	register(&PushDownEffect{})
	register(&LiftUpEffect{})
	register(&TeleportEffect{})
	register(&SkipEffect{})
	register(&DoubleEffect{})
	register(&StealEffect{})
}
