// Package render draws the board for the console.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/board"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
	"github.com/Hikaru-0gasawara/trivia-adventure/internal/player"
)

const (
	minRowLen = 10
	maxRowLen = 15
)

var indents = []int{0, 2, 4}

// Legend explains every board symbol.
const Legend = "Legend:\n" +
	"[.] Normal   [+] Bonus   [-] Trap\n" +
	"[?] Mystery  [*] Quiz Boost   [⇄] Swap\n" +
	"[↓] Push Down   [↑] Lift Up   [✦] Teleport\n" +
	"[⏭] Skip Turn   [✪] Double   [⚔] Steal\n" +
	"[P#] Player markers (e.g., P1, P2)\n"

// FormatBoard lays the board out in rows of random length 10-15 with a
// random indent. Occupied tiles show the players on them, forks are shown as
// a "Fork Ahead" line.
func FormatBoard(b *board.Board, players []*player.Player, rng engine.RNG) string {
	var sb strings.Builder
	sb.WriteString("\nBoard:\n\n")

	rowLen := engine.IntRange(rng, minRowLen, maxRowLen)
	for i, tile := range b.Tiles {
		if tile.IsFork() {
			sb.WriteString("\n⚡ Fork Ahead! Choose your path:\n")
			continue
		}
		fmt.Fprintf(&sb, "[%s] ", cell(tile, i, players))

		if (i+1)%rowLen == 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", engine.Pick(rng, indents)))
			rowLen = engine.IntRange(rng, minRowLen, maxRowLen)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func cell(tile board.Tile, index int, players []*player.Player) string {
	var here []string
	for _, p := range players {
		if p.Position == index {
			here = append(here, fmt.Sprintf("P%d", p.ID))
		}
	}
	if len(here) > 0 {
		return strings.Join(here, "|")
	}
	return tile.Kind.Symbol()
}

// Console writes the legend once, then the board before every round.
type Console struct {
	w             io.Writer
	rng           engine.RNG
	legendPrinted bool
}

// NewConsole returns a renderer writing to w.
func NewConsole(w io.Writer, rng engine.RNG) *Console {
	return &Console{w: w, rng: rng}
}

// Render implements game.Renderer.
func (c *Console) Render(b *board.Board, players []*player.Player) {
	if !c.legendPrinted {
		fmt.Fprint(c.w, Legend+"\n")
		c.legendPrinted = true
	}
	fmt.Fprintln(c.w, FormatBoard(b, players, c.rng))
}
