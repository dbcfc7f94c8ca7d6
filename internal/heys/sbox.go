package heys

import "github.com/Redeaux-Corporation/heysattack/internal/attackerr"

// SBoxSize is the number of elements in the 4-bit S-box.
const SBoxSize = 16

// SBox is a bijection on {0,...,15}, stored as a length-16 lookup table.
type SBox [SBoxSize]byte

// DefaultSBox is the fixed example S-box from the Heys cipher reference.
var DefaultSBox = SBox{
	0xf, 0x6, 0x5, 0x8,
	0xe, 0xb, 0xa, 0x4,
	0xc, 0x0, 0x3, 0x7,
	0x2, 0x9, 0x1, 0xd,
}

// Validate returns a ParameterError if s is not a bijection on {0,...,15}.
func (s SBox) Validate() error {
	seen := [SBoxSize]bool{}
	for _, v := range s {
		if int(v) >= SBoxSize {
			return attackerr.Parameter("s_box", "value out of range [0,15]")
		}
		if seen[v] {
			return attackerr.Parameter("s_box", "not a bijection: duplicate output value").WithCause(attackerr.ErrNotBijective)
		}
		seen[v] = true
	}
	return nil
}

// Inverse returns the inverse S-box: Inverse()[s[x]] == x for all x.
func (s SBox) Inverse() SBox {
	var inv SBox
	for x, y := range s {
		inv[y] = byte(x)
	}
	return inv
}
