package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Redeaux-Corporation/heysattack/internal/approx"
	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
)

func TestTableStoreMissesOnFirstLoad(t *testing.T) {
	store := NewTableStore(t.TempDir())
	tables, _ := heys.BuildTables(heys.DefaultSBox)

	_, ok, err := store.Load(tables.Digest)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss before any Save")
	}
}

func TestTableStoreRoundTrip(t *testing.T) {
	store := NewTableStore(t.TempDir())
	tables, err := heys.BuildTables(heys.DefaultSBox)
	if err != nil {
		t.Fatalf("BuildTables failed: %v", err)
	}

	if err := store.Save(tables); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := store.Load(tables.Digest)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit after Save")
	}
	if got.Digest != tables.Digest {
		t.Fatalf("loaded digest = %x, want %x", got.Digest, tables.Digest)
	}
	if got.SBox != tables.SBox {
		t.Fatalf("loaded s-box = %v, want %v", got.SBox, tables.SBox)
	}
	for w := 0; w < 1<<16; w += 4093 { // sparse spot-check across the rebuilt tables
		if got.SBox16[w] != tables.SBox16[w] {
			t.Fatalf("SBox16[%d] = %d, want %d", w, got.SBox16[w], tables.SBox16[w])
		}
		if got.Perm[w] != tables.Perm[w] {
			t.Fatalf("Perm[%d] = %d, want %d", w, got.Perm[w], tables.Perm[w])
		}
	}
}

func TestTableStoreRejectsCorruptedDigest(t *testing.T) {
	dir := t.TempDir()
	store := NewTableStore(dir)
	tables, _ := heys.BuildTables(heys.DefaultSBox)
	if err := store.Save(tables); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := store.path(tables.Digest)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// Flip a byte inside the stored digest (after the 4-byte magic and
	// 1-byte version) without touching the file's name, so Load still
	// finds the file but its header no longer matches what was asked for.
	raw[5] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, _, err = store.Load(tables.Digest)
	if err == nil {
		t.Fatal("expected a digest-mismatch error for a corrupted cache file")
	}
	if !errors.Is(err, attackerr.ErrDigestMismatch) {
		t.Fatalf("expected errors.Is(err, ErrDigestMismatch), got %v", err)
	}
}

func TestApproxStoreRoundTripSmallTable(t *testing.T) {
	tbl := approx.New()
	tbl.Put(0x000F, 0x0001, 0.015625)
	tbl.Put(0x000F, 0x0002, 0.0078125)
	tbl.Put(0x00F0, 0x0010, 0.03125)

	var digest [32]byte
	digest[0] = 0x42

	path := filepath.Join(t.TempDir(), "approx.bin")
	s := NewApproxStore()
	if err := s.Save(path, digest, tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(path, digest)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Count() != tbl.Count() {
		t.Fatalf("Count() = %d, want %d", got.Count(), tbl.Count())
	}
	for alpha, bucket := range tbl {
		for beta, p := range bucket {
			if got[alpha][beta] != p {
				t.Fatalf("got[%d][%d] = %v, want %v", alpha, beta, got[alpha][beta], p)
			}
		}
	}
}

func TestApproxStoreCompressesLargeTables(t *testing.T) {
	tbl := approx.New()
	for beta := uint16(1); beta <= 400; beta++ {
		tbl.Put(0x000F, beta, 1.0/float64(beta))
	}

	var digest [32]byte
	path := filepath.Join(t.TempDir(), "approx.bin")
	s := NewApproxStore()
	if err := s.Save(path, digest, tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(path, digest)
	if err != nil {
		t.Fatalf("Load failed (gzip path): %v", err)
	}
	if got.Count() != tbl.Count() {
		t.Fatalf("Count() = %d, want %d", got.Count(), tbl.Count())
	}
}

func TestApproxStoreRejectsDigestMismatch(t *testing.T) {
	tbl := approx.New()
	tbl.Put(1, 2, 0.5)

	var writeDigest, readDigest [32]byte
	writeDigest[0] = 0x01
	readDigest[0] = 0x02

	path := filepath.Join(t.TempDir(), "approx.bin")
	s := NewApproxStore()
	if err := s.Save(path, writeDigest, tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := s.Load(path, readDigest)
	if err == nil {
		t.Fatal("expected a digest-mismatch error")
	}
	var persistErr *attackerr.PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected a *attackerr.PersistenceError, got %T", err)
	}
	if !errors.Is(err, attackerr.ErrDigestMismatch) {
		t.Fatalf("expected errors.Is(err, ErrDigestMismatch), got %v", err)
	}
}
