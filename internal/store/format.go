// Package store persists derived attack artifacts to disk: the expanded
// cipher tables (cached by S-box digest, re-homed from the teacher's
// HSMIntegration key-storage shape) and approximation tables (the
// {alpha -> {beta -> p}} search result, as a flat little-endian record
// stream with an optional gzip wrapper).
package store

import "github.com/Redeaux-Corporation/heysattack/internal/attackerr"

// magic identifies a file written by this package; version guards the
// record layout. Both are checked before any payload is trusted.
const (
	magic          = "HEYS"
	formatVersion  = byte(1)
	digestSize     = 32
	headerSize     = len(magic) + 1 + digestSize
)

func checkHeader(gotMagic [4]byte, gotVersion byte, gotDigest [digestSize]byte, wantDigest [digestSize]byte, path string) error {
	if string(gotMagic[:]) != magic {
		return attackerr.Persistence(path, "bad magic header", attackerr.ErrMagicMismatch)
	}
	if gotVersion != formatVersion {
		return attackerr.Persistence(path, "unsupported format version", attackerr.ErrVersionMismatch)
	}
	if gotDigest != wantDigest {
		return attackerr.Persistence(path, "S-box digest mismatch", attackerr.ErrDigestMismatch)
	}
	return nil
}
