package store

import (
	"log"
	"os"

	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
)

var logger = log.New(os.Stderr, "[store] ", log.LstdFlags)

// TableStore caches the derived cipher tables (expanded S-box, its
// inverse, and the permutation) on disk, keyed by the content digest of
// the underlying 4-bit S-box. This re-homes the teacher's HSMIntegration
// (hsm-integration.go): where the teacher guarded hardware key material
// behind an online/tamper-checked interface, TableStore guards a purely
// derived, recomputable cache behind the same "verify before trusting"
// posture — a digest mismatch here is not a security incident, just a
// stale cache: Load reports it as a PersistenceError and leaves the
// choice of rebuilding with BuildTables to its caller.
type TableStore struct {
	Dir string
}

// NewTableStore roots the cache at dir. The directory is created lazily
// on first Save.
func NewTableStore(dir string) *TableStore {
	return &TableStore{Dir: dir}
}

func (s *TableStore) path(digest [32]byte) string {
	return s.Dir + "/tables-" + hexDigest(digest) + ".bin"
}

// Save writes tables' derived S-box to disk under its own digest. Only
// the 4-bit S-box is persisted; SBOX16/SBOX16_INV/PERM are rebuilt from
// it on Load, since BuildTables is pure and rebuilding is cheap relative
// to the I/O already paid.
func (s *TableStore) Save(tables *heys.CipherTables) error {
	path := s.path(tables.Digest)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return attackerr.Persistence(path, "create cache directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return attackerr.Persistence(path, "create cache file", err)
	}
	defer f.Close()

	if _, err := f.WriteString(magic); err != nil {
		return attackerr.Persistence(path, "write magic", err)
	}
	if _, err := f.Write([]byte{formatVersion}); err != nil {
		return attackerr.Persistence(path, "write version", err)
	}
	if _, err := f.Write(tables.Digest[:]); err != nil {
		return attackerr.Persistence(path, "write digest", err)
	}
	if _, err := f.Write(tables.SBox[:]); err != nil {
		return attackerr.Persistence(path, "write s-box", err)
	}
	logger.Printf("cached tables: %s", path)
	return nil
}

// Load reads a cached S-box for digest and rebuilds the full CipherTables
// from it. The second return is false when no cache entry exists (not an
// error); a structurally present but mismatched entry is reported as a
// PersistenceError so the caller can decide to recompute.
func (s *TableStore) Load(digest [32]byte) (*heys.CipherTables, bool, error) {
	path := s.path(digest)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		logger.Printf("cache miss: %s", path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, attackerr.Persistence(path, "open cache file", err)
	}
	defer f.Close()

	var gotMagic [4]byte
	if _, err := f.Read(gotMagic[:]); err != nil {
		return nil, false, attackerr.Persistence(path, "read magic", err)
	}
	var version [1]byte
	if _, err := f.Read(version[:]); err != nil {
		return nil, false, attackerr.Persistence(path, "read version", err)
	}
	var gotDigest [32]byte
	if _, err := f.Read(gotDigest[:]); err != nil {
		return nil, false, attackerr.Persistence(path, "read digest", err)
	}
	if err := checkHeader(gotMagic, version[0], gotDigest, digest, path); err != nil {
		return nil, false, err
	}

	var sbox heys.SBox
	if _, err := f.Read(sbox[:]); err != nil {
		return nil, false, attackerr.Persistence(path, "read s-box", err)
	}

	tables, err := heys.BuildTables(sbox)
	if err != nil {
		return nil, false, attackerr.Persistence(path, "rebuild tables from cached s-box", err)
	}
	logger.Printf("cache hit: %s", path)
	return tables, true, nil
}

func hexDigest(digest [32]byte) string {
	const hexchars = "0123456789abcdef"
	buf := make([]byte, 16) // first 8 bytes of the digest is plenty for a filename
	for i := 0; i < 8; i++ {
		buf[i*2] = hexchars[digest[i]>>4]
		buf[i*2+1] = hexchars[digest[i]&0xF]
	}
	return string(buf)
}
