// Package player holds per-participant game state.
package player

// Player is one participant. Position never goes below zero.
type Player struct {
	ID          int  `json:"id"`
	Position    int  `json:"position"`
	WinDistance int  `json:"winDistance"`
	SkipNext    bool `json:"skipNext"`
	LastRoll    int  `json:"lastRoll"`
}

// New returns a player at the start of the board.
func New(id, winDistance int) *Player {
	return &Player{ID: id, WinDistance: winDistance}
}

// NewRoster creates players with ids 1..n sharing the same win distance.
func NewRoster(n, winDistance int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		players[i] = New(i+1, winDistance)
	}
	return players
}

// Move shifts the player by delta, flooring the result at 0.
func (p *Player) Move(delta int) {
	p.SetPosition(p.Position + delta)
}

// SetPosition places the player at pos, flooring at 0.
func (p *Player) SetPosition(pos int) {
	if pos < 0 {
		pos = 0
	}
	p.Position = pos
}

// HasWon reports whether the player reached the win distance.
func (p *Player) HasWon() bool {
	return p.Position >= p.WinDistance
}

// Others returns every player in players except p, preserving order.
func Others(p *Player, players []*Player) []*Player {
	out := make([]*Player, 0, len(players))
	for _, other := range players {
		if other.ID != p.ID {
			out = append(out, other)
		}
	}
	return out
}

// Find returns the player with the given id.
func Find(players []*Player, id int) (*Player, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
