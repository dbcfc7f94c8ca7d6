package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/Redeaux-Corporation/heysattack/internal/approx"
	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
)

// gzipThreshold is the record count above which SaveApproximations wraps
// the record stream in gzip; small tables aren't worth the framing
// overhead.
const gzipThreshold = 256

// ApproxStore persists an approximation table ({alpha -> {beta -> p}}) as
// a flat record stream tagged with the S-box digest it was computed
// against, so a stale table is never silently mixed with the wrong
// cipher. Unlike TableStore, a mismatch here is not recoverable by
// recomputation (search is expensive), so Load always surfaces it.
type ApproxStore struct{}

// NewApproxStore returns a ready-to-use approximation-table store; it
// holds no state of its own beyond the file paths callers pass in.
func NewApproxStore() *ApproxStore { return &ApproxStore{} }

// Save writes table's records to path, tagged with digest. Tables with
// more than gzipThreshold records are gzip-compressed transparently.
func (s *ApproxStore) Save(path string, digest [32]byte, table approx.Table) error {
	records := table.Records()

	f, err := os.Create(path)
	if err != nil {
		return attackerr.Persistence(path, "create file", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeHeader(bw, digest, len(records)); err != nil {
		return attackerr.Persistence(path, "write header", err)
	}

	var payload io.Writer = bw
	var gz *gzip.Writer
	if len(records) > gzipThreshold {
		gz = gzip.NewWriter(bw)
		payload = gz
	}

	for _, rec := range records {
		if err := binary.Write(payload, binary.LittleEndian, rec.Alpha); err != nil {
			return attackerr.Persistence(path, "write record alpha", err)
		}
		if err := binary.Write(payload, binary.LittleEndian, rec.Beta); err != nil {
			return attackerr.Persistence(path, "write record beta", err)
		}
		if err := binary.Write(payload, binary.LittleEndian, rec.Probability); err != nil {
			return attackerr.Persistence(path, "write record probability", err)
		}
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return attackerr.Persistence(path, "close gzip stream", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	logger.Printf("wrote %d approximation record(s) to %s (gzip=%v)", len(records), path, gz != nil)
	return nil
}

// Load reads an approximation table written by Save. wantDigest must
// match the header's S-box digest or the read fails with a
// PersistenceError wrapping ErrDigestMismatch; the caller has no cheap
// fallback, unlike TableStore.Load.
func (s *ApproxStore) Load(path string, wantDigest [32]byte) (approx.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, attackerr.Persistence(path, "open file", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	gotDigest, count, err := readHeader(br, wantDigest, path)
	if err != nil {
		return nil, err
	}
	if gotDigest != wantDigest {
		return nil, attackerr.Persistence(path, "s-box digest mismatch", attackerr.ErrDigestMismatch)
	}

	payload, err := maybeGunzip(br)
	if err != nil {
		return nil, attackerr.Persistence(path, "open gzip stream", err)
	}

	records := make([]approx.Record, count)
	for i := range records {
		if err := binary.Read(payload, binary.LittleEndian, &records[i].Alpha); err != nil {
			return nil, attackerr.Persistence(path, "read record alpha", err)
		}
		if err := binary.Read(payload, binary.LittleEndian, &records[i].Beta); err != nil {
			return nil, attackerr.Persistence(path, "read record beta", err)
		}
		if err := binary.Read(payload, binary.LittleEndian, &records[i].Probability); err != nil {
			return nil, attackerr.Persistence(path, "read record probability", err)
		}
	}
	logger.Printf("loaded %d approximation record(s) from %s", len(records), path)
	return approx.FromRecords(records), nil
}

func writeHeader(w io.Writer, digest [32]byte, count int) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return err
	}
	if _, err := w.Write(digest[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint64(count))
}

func readHeader(r io.Reader, wantDigest [32]byte, path string) (digest [32]byte, count uint64, err error) {
	var gotMagic [4]byte
	if _, err = io.ReadFull(r, gotMagic[:]); err != nil {
		return digest, 0, attackerr.Persistence(path, "read magic", err)
	}
	var version [1]byte
	if _, err = io.ReadFull(r, version[:]); err != nil {
		return digest, 0, attackerr.Persistence(path, "read version", err)
	}
	if _, err = io.ReadFull(r, digest[:]); err != nil {
		return digest, 0, attackerr.Persistence(path, "read digest", err)
	}
	if string(gotMagic[:]) != magic {
		return digest, 0, attackerr.Persistence(path, "bad magic header", attackerr.ErrMagicMismatch)
	}
	if version[0] != formatVersion {
		return digest, 0, attackerr.Persistence(path, "unsupported format version", attackerr.ErrVersionMismatch)
	}
	if err = binary.Read(r, binary.LittleEndian, &count); err != nil {
		return digest, 0, attackerr.Persistence(path, "read record count", err)
	}
	return digest, count, nil
}

// maybeGunzip sniffs the gzip magic bytes and transparently wraps r in a
// gzip.Reader when present, so Load doesn't need to know whether Save
// compressed the payload.
func maybeGunzip(r *bufio.Reader) (io.Reader, error) {
	peek, err := r.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(peek) == 2 && peek[0] == 0x1f && peek[1] == 0x8b {
		return gzip.NewReader(r)
	}
	return r, nil
}
