package board

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidWeights indicates a tile distribution that is not a probability
// distribution over simple kinds.
var ErrInvalidWeights = errors.New("invalid tile weights")

// Weight is the sampling probability of one simple tile kind.
type Weight struct {
	Kind   Kind            `json:"kind"`
	Weight decimal.Decimal `json:"weight"`
}

// DefaultWeights is the tile distribution used for every generated board.
var DefaultWeights = []Weight{
	{Kind: Normal, Weight: decimal.RequireFromString("0.35")},
	{Kind: Bonus, Weight: decimal.RequireFromString("0.12")},
	{Kind: Trap, Weight: decimal.RequireFromString("0.12")},
	{Kind: Mystery, Weight: decimal.RequireFromString("0.10")},
	{Kind: QuizBoost, Weight: decimal.RequireFromString("0.07")},
	{Kind: Swap, Weight: decimal.RequireFromString("0.06")},
	{Kind: PushDown, Weight: decimal.RequireFromString("0.04")},
	{Kind: LiftUp, Weight: decimal.RequireFromString("0.04")},
	{Kind: Teleport, Weight: decimal.RequireFromString("0.03")},
	{Kind: Skip, Weight: decimal.RequireFromString("0.03")},
	{Kind: Double, Weight: decimal.RequireFromString("0.02")},
	{Kind: Steal, Weight: decimal.RequireFromString("0.02")},
}

// ValidateWeights checks that ws covers distinct simple kinds with
// non-negative weights summing to exactly 1.
func ValidateWeights(ws []Weight) error {
	if len(ws) == 0 {
		return fmt.Errorf("%w: empty distribution", ErrInvalidWeights)
	}
	seen := make(map[Kind]bool, len(ws))
	sum := decimal.Zero
	for _, w := range ws {
		if !w.Kind.Simple() {
			return fmt.Errorf("%w: %q is not a simple tile kind", ErrInvalidWeights, w.Kind)
		}
		if seen[w.Kind] {
			return fmt.Errorf("%w: duplicate kind %q", ErrInvalidWeights, w.Kind)
		}
		seen[w.Kind] = true
		if w.Weight.IsNegative() {
			return fmt.Errorf("%w: negative weight for %q", ErrInvalidWeights, w.Kind)
		}
		sum = sum.Add(w.Weight)
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: weights sum to %s, want 1", ErrInvalidWeights, sum.String())
	}
	return nil
}

func splitWeights(ws []Weight) ([]Kind, []float64) {
	kinds := make([]Kind, len(ws))
	floats := make([]float64, len(ws))
	for i, w := range ws {
		kinds[i] = w.Kind
		floats[i] = w.Weight.InexactFloat64()
	}
	return kinds, floats
}
