// Package board models the linear game board and generates it procedurally,
// including the fork tiles used by branching boards.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Hikaru-0gasawara/trivia-adventure/internal/engine"
)

// ErrInvalidSize indicates a non-positive board size.
var ErrInvalidSize = errors.New("board size must be positive")

const (
	// MinForks and MaxForks bound the requested fork count of a branching board.
	MinForks = 3
	MaxForks = 4

	// MinPathLen and MaxPathLen bound the length of each fork path.
	MinPathLen = 3
	MaxPathLen = 6

	forkHeadMargin = 5
	forkTailMargin = 6
)

// SafeKinds are sampled for path A of a fork, RiskyKinds for path B.
var (
	SafeKinds  = []Kind{Bonus, LiftUp, Normal, QuizBoost}
	RiskyKinds = []Kind{Trap, Steal, Mystery, Swap, Double}
)

// Path names one side of a fork.
type Path string

const (
	PathA Path = "A"
	PathB Path = "B"
)

// Paths holds the two previewed branches of a fork tile.
type Paths struct {
	A []Kind `json:"a"`
	B []Kind `json:"b"`
}

// Len returns the number of tiles on the given path.
func (p Paths) Len(path Path) int {
	if path == PathA {
		return len(p.A)
	}
	return len(p.B)
}

// Tile is either a simple tile or a fork. Paths is non-nil exactly when
// Kind is Fork.
type Tile struct {
	Kind  Kind   `json:"kind"`
	Paths *Paths `json:"paths,omitempty"`
}

// IsFork reports whether the tile is a fork.
func (t Tile) IsFork() bool {
	return t.Kind == Fork && t.Paths != nil
}

// Board is the ordered, fixed-length sequence of tiles for one game.
type Board struct {
	Tiles []Tile `json:"tiles"`
}

// New builds a board of simple tiles from kinds, mostly for tests and fixtures.
func New(kinds ...Kind) *Board {
	tiles := make([]Tile, len(kinds))
	for i, k := range kinds {
		tiles[i] = Tile{Kind: k}
	}
	return &Board{Tiles: tiles}
}

// Uniform builds a board of size tiles that are all of kind k.
func Uniform(size int, k Kind) *Board {
	kinds := make([]Kind, size)
	for i := range kinds {
		kinds[i] = k
	}
	return New(kinds...)
}

// Size returns the number of tiles.
func (b *Board) Size() int {
	return len(b.Tiles)
}

// At returns the tile at index i and whether i is on the board.
func (b *Board) At(i int) (Tile, bool) {
	if i < 0 || i >= len(b.Tiles) {
		return Tile{}, false
	}
	return b.Tiles[i], true
}

// ForkIndices lists the indices holding fork tiles in ascending order.
func (b *Board) ForkIndices() []int {
	var out []int
	for i, t := range b.Tiles {
		if t.IsFork() {
			out = append(out, i)
		}
	}
	return out
}

// Preview renders a fork path as bracketed symbols, e.g. "[+] [.] [*]".
func Preview(path []Kind) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = "[" + k.Symbol() + "]"
	}
	return strings.Join(parts, " ")
}

// Generator samples boards from a tile distribution.
type Generator struct {
	rng     engine.RNG
	kinds   []Kind
	weights []float64
}

// NewGenerator validates ws and returns a generator drawing from rng.
func NewGenerator(rng engine.RNG, ws []Weight) (*Generator, error) {
	if err := ValidateWeights(ws); err != nil {
		return nil, err
	}
	kinds, weights := splitWeights(ws)
	return &Generator{rng: rng, kinds: kinds, weights: weights}, nil
}

// Generate builds a board with the default distribution.
func Generate(rng engine.RNG, size int, branching bool) (*Board, error) {
	g, err := NewGenerator(rng, DefaultWeights)
	if err != nil {
		return nil, err
	}
	return g.Generate(size, branching)
}

// Generate fills size positions with independently sampled simple tiles and,
// when branching, replaces evenly spaced interior tiles with forks.
func (g *Generator) Generate(size int, branching bool) (*Board, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	b := &Board{Tiles: make([]Tile, size)}
	for i := range b.Tiles {
		b.Tiles[i] = Tile{Kind: g.sampleKind()}
	}

	if branching {
		count := engine.IntRange(g.rng, MinForks, MaxForks)
		for _, idx := range ForkCandidates(size, count) {
			paths := g.generatePaths()
			b.Tiles[idx] = Tile{Kind: Fork, Paths: &paths}
		}
	}
	return b, nil
}

// ForkCandidates returns the indices n*floor(size/(count+1)) for n in
// [1, count] that lie in [5, size-6). Indices outside the window are dropped
// without retry, so fewer than count forks may be placed.
func ForkCandidates(size, count int) []int {
	if count <= 0 || size <= 0 {
		return nil
	}
	interval := size / (count + 1)
	var out []int
	for n := 1; n <= count; n++ {
		idx := n * interval
		if idx >= forkHeadMargin && idx < size-forkTailMargin {
			out = append(out, idx)
		}
	}
	return out
}

func (g *Generator) sampleKind() Kind {
	return engine.Choose(g.rng, g.kinds, g.weights)
}

func (g *Generator) generatePaths() Paths {
	return Paths{
		A: g.samplePath(SafeKinds),
		B: g.samplePath(RiskyKinds),
	}
}

func (g *Generator) samplePath(from []Kind) []Kind {
	n := engine.IntRange(g.rng, MinPathLen, MaxPathLen)
	path := make([]Kind, n)
	for i := range path {
		path[i] = engine.Pick(g.rng, from)
	}
	return path
}
