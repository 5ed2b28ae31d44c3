package player

import "testing"

func TestMoveFloorsAtZero(t *testing.T) {
	tests := []struct {
		start, delta, want int
	}{
		{0, 6, 6},
		{4, -3, 1},
		{2, -5, 0},
		{0, -1, 0},
		{30, 10, 40},
	}
	for _, tt := range tests {
		p := New(1, 36)
		p.Position = tt.start
		p.Move(tt.delta)
		if p.Position != tt.want {
			t.Errorf("Move(%d) from %d = %d, want %d", tt.delta, tt.start, p.Position, tt.want)
		}
	}
}

func TestHasWon(t *testing.T) {
	p := New(1, 36)
	p.SetPosition(35)
	if p.HasWon() {
		t.Fatal("player at 35 of 36 should not have won")
	}
	p.SetPosition(36)
	if !p.HasWon() {
		t.Fatal("player at 36 of 36 should have won")
	}
}

func TestRosterOthersFind(t *testing.T) {
	players := NewRoster(3, 46)
	for i, p := range players {
		if p.ID != i+1 || p.WinDistance != 46 || p.Position != 0 {
			t.Fatalf("player %d = %+v", i, p)
		}
	}

	others := Others(players[1], players)
	if len(others) != 2 || others[0].ID != 1 || others[1].ID != 3 {
		t.Fatalf("Others(P2) = %+v", others)
	}

	if p, ok := Find(players, 3); !ok || p != players[2] {
		t.Fatalf("Find(3) = %v, %v", p, ok)
	}
	if _, ok := Find(players, 9); ok {
		t.Fatal("Find(9) should fail")
	}
}
