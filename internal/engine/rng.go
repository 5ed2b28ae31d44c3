package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

// ByteGenerator streams HMAC-SHA256 bytes keyed by a server seed over
// "client:nonce:round" messages. It backs StreamRNG.
type ByteGenerator struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator creates a byte generator positioned at cursor.
func NewByteGenerator(serverSeed, clientSeed string, nonce uint64, cursor uint64) *ByteGenerator {
	bg := &ByteGenerator{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		nonce:        nonce,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte from the generator
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat generates the next float in [0, 1) using exactly 4 bytes
func (bg *ByteGenerator) NextFloat() float64 {
	b0 := bg.Next()
	b1 := bg.Next()
	b2 := bg.Next()
	b3 := bg.Next()

	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", bg.clientSeed, bg.nonce, bg.currentRound)
	h.Write([]byte(message))
	copy(bg.buffer[:], h.Sum(nil))
}

func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// StreamRNG adapts a ByteGenerator to the RNG interface. The same seeds and
// nonce always replay the same sequence, which makes it the source for
// board previews and reproducible simulation batches.
type StreamRNG struct {
	bg *ByteGenerator
}

// NewStreamRNG creates a deterministic RNG for the given seed pair and nonce.
func NewStreamRNG(serverSeed, clientSeed string, nonce uint64) *StreamRNG {
	return &StreamRNG{bg: NewByteGenerator(serverSeed, clientSeed, nonce, 0)}
}

// Float64 returns the next float in [0, 1).
func (s *StreamRNG) Float64() float64 {
	return s.bg.NextFloat()
}

// Intn returns a uniform integer in [0, n). It returns 0 when n <= 0.
func (s *StreamRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Floor(s.Float64() * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
