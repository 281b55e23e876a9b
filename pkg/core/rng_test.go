package core

import (
	"slices"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a := make([]byte, 64)
	b := make([]byte, 64)
	NewRNG(7).FillBytes(a)
	NewRNG(7).FillBytes(b)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed produced different bytes")
	}
}

func TestFillNibblesRange(t *testing.T) {
	buf := make([]byte, 256)
	NewRNG(3).FillNibbles(buf, 4)
	for i, v := range buf {
		if v&0x0f >= 4 || v>>4 >= 4 {
			t.Fatalf("byte %d = %#x has a nibble outside [0,4)", i, v)
		}
	}
}
