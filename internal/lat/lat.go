// Package lat builds the 16x16 Linear Approximation Table of the Heys
// 4-bit S-box: the matrix of squared correlations that both the
// branch-and-bound search and, indirectly, the M2 bias statistic are
// built from.
package lat

import "github.com/Redeaux-Corporation/heysattack/internal/heys"

// Size is the width/height of the S-box LAT (one row/column per 4-bit mask).
const Size = heys.SBoxSize

// Table is L[alpha][beta] = LP(alpha, beta), the squared correlation of
// the single-S-box linear approximation alpha.x == beta.S[x].
type Table [Size][Size]float64

// Build computes L[a,b] = ((1/16) * sum_x sign(a,x,b))^2 exhaustively over
// the 16x16 grid of 4-bit masks. Construction is deterministic: the same
// s-box always yields the same table.
func Build(s heys.SBox) *Table {
	var t Table
	for alpha := 0; alpha < Size; alpha++ {
		for beta := 0; beta < Size; beta++ {
			matches := 0
			for x := 0; x < Size; x++ {
				lhs := parity4(uint8(alpha), uint8(x))
				rhs := parity4(uint8(beta), s[x])
				if lhs == rhs {
					matches++
				}
			}
			bias := float64(2*matches-Size) / float64(Size)
			t[alpha][beta] = bias * bias
		}
	}
	return &t
}

// parity4 is the GF(2) inner product of two 4-bit values.
func parity4(x, y uint8) uint8 {
	v := x & y
	var n uint8
	for v != 0 {
		v &= v - 1
		n++
	}
	return n & 1
}

// At returns L[alpha][beta] for 4-bit masks alpha, beta.
func (t *Table) At(alpha, beta uint16) float64 {
	return t[alpha&0xF][beta&0xF]
}
