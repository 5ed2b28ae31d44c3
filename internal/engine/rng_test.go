package engine

import (
	"math/rand"
	"testing"
)

func TestByteGeneratorFloats(t *testing.T) {
	tests := []struct {
		name       string
		serverSeed string
		clientSeed string
		nonce      uint64
		cursor     uint64
		count      int
		wantLen    int
	}{
		{
			name:       "basic float generation",
			serverSeed: "test_server_seed",
			clientSeed: "test_client_seed",
			nonce:      1,
			cursor:     0,
			count:      1,
			wantLen:    1,
		},
		{
			name:       "multiple floats",
			serverSeed: "test_server_seed",
			clientSeed: "test_client_seed",
			nonce:      1,
			cursor:     0,
			count:      8,
			wantLen:    8,
		},
		{
			name:       "cursor boundary test",
			serverSeed: "test_server_seed",
			clientSeed: "test_client_seed",
			nonce:      1,
			cursor:     31,
			count:      2,
			wantLen:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := NewByteGenerator(tt.serverSeed, tt.clientSeed, tt.nonce, tt.cursor)
			var floats []float64
			for i := 0; i < tt.count; i++ {
				floats = append(floats, bg.NextFloat())
			}
			if len(floats) != tt.wantLen {
				t.Errorf("generated %d floats, want %d", len(floats), tt.wantLen)
			}
			for i, f := range floats {
				if f < 0 || f >= 1 {
					t.Errorf("Float %d is out of range [0, 1): %f", i, f)
				}
			}
		})
	}
}

func TestStreamRNGReplays(t *testing.T) {
	a := NewStreamRNG("server", "client", 7)
	b := NewStreamRNG("server", "client", 7)
	for i := 0; i < 100; i++ {
		x, y := a.Intn(1000), b.Intn(1000)
		if x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}

	c := NewStreamRNG("server", "client", 8)
	same := true
	for i := 0; i < 20; i++ {
		if a.Intn(1<<30) != c.Intn(1<<30) {
			same = false
		}
	}
	if same {
		t.Error("different nonces produced identical sequences")
	}
}

func TestStreamRNGIntnBounds(t *testing.T) {
	rng := NewStreamRNG("bounds", "check", 1)
	for i := 0; i < 5000; i++ {
		if v := rng.Intn(6); v < 0 || v >= 6 {
			t.Fatalf("Intn(6) = %d", v)
		}
	}
	if v := rng.Intn(0); v != 0 {
		t.Errorf("Intn(0) = %d, want 0", v)
	}
}

func TestIntRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := IntRange(rng, 3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("IntRange(3, 6) = %d", v)
		}
		seen[v] = true
	}
	for v := 3; v <= 6; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn", v)
		}
	}
	if v := IntRange(rng, 4, 4); v != 4 {
		t.Errorf("IntRange(4, 4) = %d", v)
	}
}

func TestChooseRespectsWeights(t *testing.T) {
	rng := NewStreamRNG("weights", "test", 3)
	items := []string{"never", "mostly", "rarely"}
	weights := []float64{0, 0.9, 0.1}

	counts := map[string]int{}
	const draws = 10000
	for i := 0; i < draws; i++ {
		counts[Choose(rng, items, weights)]++
	}
	if counts["never"] != 0 {
		t.Errorf("zero-weight item drawn %d times", counts["never"])
	}
	if ratio := float64(counts["mostly"]) / draws; ratio < 0.85 || ratio > 0.95 {
		t.Errorf("heavy item ratio = %f, want ~0.9", ratio)
	}
}

func TestNewEntropyRNG(t *testing.T) {
	rng, err := NewEntropyRNG()
	if err != nil {
		t.Fatalf("NewEntropyRNG: %v", err)
	}
	if v := rng.Intn(6); v < 0 || v >= 6 {
		t.Errorf("Intn(6) = %d", v)
	}
}
