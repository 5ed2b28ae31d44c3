// Package game runs one trivia board game: it owns the board and players,
// walks the turn state machine and decides the winner.
package game

import (
	"errors"
	"fmt"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"
)

const (
	MinPlayers = 1
	MaxPlayers = 4
	DiceSides  = 6
)

var (
	ErrInvalidMode    = errors.New("invalid difficulty mode")
	ErrInvalidPlayers = errors.New("invalid player count")
)

// Mode is the difficulty chosen at game start.
type Mode int

const (
	Easy Mode = iota + 1
	Medium
	Hard
	Campaign
)

// Modes lists every mode in menu order.
var Modes = []Mode{Easy, Medium, Hard, Campaign}

var modeInfo = map[Mode]struct {
	name        string
	winDistance int
}{
	Easy:     {"Easy", 36},
	Medium:   {"Medium", 46},
	Hard:     {"Hard", 56},
	Campaign: {"Campaign", 123},
}

// ParseMode validates a menu number.
func ParseMode(n int) (Mode, error) {
	m := Mode(n)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMode, n)
	}
	return m, nil
}

// Valid reports whether m is one of the four modes.
func (m Mode) Valid() bool {
	_, ok := modeInfo[m]
	return ok
}

func (m Mode) String() string {
	if info, ok := modeInfo[m]; ok {
		return info.name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// WinDistance is both the board length and the position that wins.
func (m Mode) WinDistance() int {
	return modeInfo[m].winDistance
}

// Branching reports whether boards for m carry forks.
func (m Mode) Branching() bool {
	return m == Campaign
}

// Pools lists the question pools m draws from.
func (m Mode) Pools() []trivia.Pool {
	switch m {
	case Easy:
		return []trivia.Pool{trivia.Easy}
	case Medium:
		return []trivia.Pool{trivia.Medium}
	case Hard:
		return []trivia.Pool{trivia.Hard}
	case Campaign:
		return []trivia.Pool{trivia.Easy, trivia.Medium, trivia.Hard}
	}
	return nil
}

// ModeSpec describes a mode for listings.
type ModeSpec struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	WinDistance int           `json:"winDistance"`
	Branching   bool          `json:"branching"`
	Pools       []trivia.Pool `json:"pools"`
}

// Spec returns metadata about m.
func (m Mode) Spec() ModeSpec {
	return ModeSpec{
		ID:          int(m),
		Name:        m.String(),
		WinDistance: m.WinDistance(),
		Branching:   m.Branching(),
		Pools:       m.Pools(),
	}
}

// ValidatePlayers checks n against MinPlayers and MaxPlayers.
func ValidatePlayers(n int) error {
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidPlayers, n, MinPlayers, MaxPlayers)
	}
	return nil
}
