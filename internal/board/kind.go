package board

// Kind identifies what a tile does when a player lands on it.
type Kind string

const (
	Normal    Kind = "normal"
	Bonus     Kind = "bonus"
	Trap      Kind = "trap"
	Mystery   Kind = "mystery"
	QuizBoost Kind = "quiz_boost"
	Swap      Kind = "swap"
	PushDown  Kind = "push_down"
	LiftUp    Kind = "lift_up"
	Teleport  Kind = "teleport"
	Skip      Kind = "skip"
	Double    Kind = "double"
	Steal     Kind = "steal"

	// Fork marks a branching tile. It is never sampled as a simple kind.
	Fork Kind = "fork"
)

// Kinds lists every simple tile kind in legend order.
var Kinds = []Kind{
	Normal, Bonus, Trap, Mystery, QuizBoost, Swap,
	PushDown, LiftUp, Teleport, Skip, Double, Steal,
}

var symbols = map[Kind]string{
	Normal:    ".",
	Bonus:     "+",
	Trap:      "-",
	Mystery:   "?",
	QuizBoost: "*",
	Swap:      "⇄",
	PushDown:  "↓",
	LiftUp:    "↑",
	Teleport:  "✦",
	Skip:      "⏭",
	Double:    "✪",
	Steal:     "⚔",
	Fork:      "⚡",
}

// Symbol returns the single-glyph board symbol for k.
func (k Kind) Symbol() string {
	if s, ok := symbols[k]; ok {
		return s
	}
	return "?"
}

// Simple reports whether k is one of the twelve simple tile kinds.
func (k Kind) Simple() bool {
	return k != Fork && symbols[k] != ""
}
