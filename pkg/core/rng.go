package core

import "math/rand/v2"

// RNG wraps math/rand/v2 with a fixed seed so generated cartridges are
// reproducible.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Uint8n returns a random uint8 in [0, n).
func (r *RNG) Uint8n(n uint8) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(r.r.IntN(int(n)))
}

// IntN returns a random int in [0, n).
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// FillBytes fills buf with arbitrary byte values.
func (r *RNG) FillBytes(buf []byte) {
	for i := range buf {
		buf[i] = uint8(r.r.IntN(256))
	}
}

// FillNibbles fills buf with bytes whose two nibbles are drawn from the
// first n palette colours.
func (r *RNG) FillNibbles(buf []byte, n uint8) {
	for i := range buf {
		buf[i] = r.Uint8n(n) | r.Uint8n(n)<<4
	}
}
