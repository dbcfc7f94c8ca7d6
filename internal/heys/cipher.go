package heys

import "github.com/Redeaux-Corporation/heysattack/internal/attackerr"

// Heys is a 16-bit-block, 4-bit-S-box substitution-permutation network.
// It holds its own key schedule but shares CipherTables by reference with
// every other consumer (branch-and-bound, M2) — the tables are pure
// functions of the S-box and are never copied per instance.
type Heys struct {
	tables *CipherTables
	keys   []uint16 // length Rounds()+1; keys[Rounds()] is the whitening key
}

// New constructs a Heys cipher instance from pre-built tables and a key
// schedule of length R+1. It does not rebuild the tables — callers share
// one *CipherTables across every Heys instance and every worker.
func New(tables *CipherTables, keys []uint16) (*Heys, error) {
	if len(keys) < 2 {
		return nil, attackerr.Parameter("keys", "key schedule must have at least 2 entries (R+1, R>=1)").
			WithCause(attackerr.ErrLengthMismatch)
	}
	k := make([]uint16, len(keys))
	copy(k, keys)
	return &Heys{tables: tables, keys: k}, nil
}

// Rounds returns R, the number of S-box+permutation rounds.
func (h *Heys) Rounds() int { return len(h.keys) - 1 }

// Tables returns the shared, read-only cipher tables.
func (h *Heys) Tables() *CipherTables { return h.tables }

// Keys returns a copy of the key schedule.
func (h *Heys) Keys() []uint16 {
	k := make([]uint16, len(h.keys))
	copy(k, h.keys)
	return k
}

// EncryptBlock runs x through all R rounds, then XORs the whitening key.
func (h *Heys) EncryptBlock(x uint16) uint16 {
	for r := 0; r < h.Rounds(); r++ {
		x ^= h.keys[r]
		x = h.tables.SBox16[x]
		x = h.tables.Perm[x]
	}
	x ^= h.keys[h.Rounds()]
	return x
}

// DecryptBlock is the exact mirror of EncryptBlock. Perm is its own
// inverse, so it is reused unchanged on the way back.
func (h *Heys) DecryptBlock(x uint16) uint16 {
	x ^= h.keys[h.Rounds()]
	for r := h.Rounds() - 1; r >= 0; r-- {
		x = h.tables.Perm[x]
		x = h.tables.SBox16Inv[x]
		x ^= h.keys[r]
	}
	return x
}

// Encrypt applies EncryptBlock element-wise over a slice of blocks.
func (h *Heys) Encrypt(blocks []uint16) []uint16 {
	out := make([]uint16, len(blocks))
	for i, x := range blocks {
		out[i] = h.EncryptBlock(x)
	}
	return out
}

// Decrypt applies DecryptBlock element-wise over a slice of blocks.
func (h *Heys) Decrypt(blocks []uint16) []uint16 {
	out := make([]uint16, len(blocks))
	for i, x := range blocks {
		out[i] = h.DecryptBlock(x)
	}
	return out
}

// LastRoundKey returns K[R], the whitening key the attack aims to recover.
func (h *Heys) LastRoundKey() uint16 { return h.keys[h.Rounds()] }
