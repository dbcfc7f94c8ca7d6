// Package bits provides the Hamming-weight and GF(2) parity primitives that
// every other package in this module builds on: the linear approximation
// table, the branch-and-bound search, and the M2 scanner all reduce to
// table lookups over these two functions.
package bits

// Table16 is a precomputed popcount table covering every 16-bit word.
// Building it once and sharing it by reference (rather than recomputing
// popcounts inline) keeps the hot loops in search and m2 to a single
// array index.
type Table16 [1 << 16]uint8

// NewHammingTable16 returns the popcount of every value in [0, 1<<16).
func NewHammingTable16() *Table16 {
	t := &Table16{}
	for w := 0; w < 1<<16; w++ {
		t[w] = popcount16(uint16(w))
	}
	return t
}

func popcount16(w uint16) uint8 {
	var n uint8
	for w != 0 {
		w &= w - 1
		n++
	}
	return n
}

// Parity returns the GF(2) inner product of x and y: popcount(x&y) mod 2.
func (t *Table16) Parity(x, y uint16) uint8 {
	return t[x&y] & 1
}
