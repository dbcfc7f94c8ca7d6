package heys

import (
	"golang.org/x/crypto/sha3"
)

// Nibbles is the number of 4-bit fragments in a 16-bit Heys block.
const Nibbles = 4

// CipherTables is the explicit, immutable value every cipher instance,
// search worker and M2 worker holds a read-only reference to: the
// nibble-wise expanded S-box, its inverse, and the bit-permutation table,
// all derived once from the 4-bit S-box. This lifts the teacher's
// package-level SBoxTable/PLayerPermutation globals into a value
// constructed explicitly from (S) and passed by reference, per the
// "implicit global state" re-architecture note.
type CipherTables struct {
	SBox      SBox
	SBoxInv   SBox
	SBox16    []uint16 // length 1<<16, nibble-wise forward substitution
	SBox16Inv []uint16 // length 1<<16, nibble-wise inverse substitution
	Perm      []uint16 // length 1<<16, involutive bit permutation
	Digest    [32]byte // SHA3-256 of the 4-bit S-box bytes
}

// BuildTables derives the expanded 16-bit S-box and the permutation table
// from a validated 4-bit S-box. It is a pure function of s: same input,
// same output, always — which is what makes the on-disk cache in
// internal/store safe to key off of Digest alone.
func BuildTables(s SBox) (*CipherTables, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	t := &CipherTables{
		SBox:    s,
		SBoxInv: s.Inverse(),
		Perm:    Permute16(),
	}
	t.SBox16 = expandSBox(s)
	t.SBox16Inv = expandSBox(t.SBoxInv)
	t.Digest = sha3.Sum256(s[:])
	return t, nil
}

// expandSBox builds the length-65536 table where each entry applies s
// independently to each of the four nibbles of the index:
// SBOX16[w] = sum_b s[(w >> 4b) & 0xF] << 4b.
func expandSBox(s SBox) []uint16 {
	table := make([]uint16, 1<<16)
	for w := 0; w < 1<<16; w++ {
		var out uint16
		for b := 0; b < Nibbles; b++ {
			shift := uint(4 * b)
			nibble := (uint16(w) >> shift) & 0xF
			out |= uint16(s[nibble]) << shift
		}
		table[w] = out
	}
	return table
}

// Nibble extracts the b-th 4-bit fragment (b in 0..3, b==0 is the low
// nibble) of a 16-bit word.
func Nibble(w uint16, b int) uint16 {
	return (w >> uint(4*b)) & 0xF
}
