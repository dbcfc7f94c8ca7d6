// Package corpus models the known plaintext/ciphertext pairs the M2 key
// search scores candidate keys against, and its little-endian on-disk
// encoding.
package corpus

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
)

// Corpus is two equal-length ordered sequences of blocks: X[i] encrypted
// under the unknown key yields Y[i].
type Corpus struct {
	X []uint16
	Y []uint16
}

// New validates and constructs a Corpus from parallel plaintext/ciphertext
// slices.
func New(plaintext, ciphertext []uint16) (*Corpus, error) {
	if len(plaintext) != len(ciphertext) {
		return nil, attackerr.Corpus("plaintext/ciphertext length mismatch", attackerr.ErrLengthMismatch)
	}
	if len(plaintext) == 0 {
		return nil, attackerr.Corpus("corpus has no pairs", attackerr.ErrEmptyCorpus)
	}
	return &Corpus{X: plaintext, Y: ciphertext}, nil
}

// Len returns the number of plaintext/ciphertext pairs.
func (c *Corpus) Len() int { return len(c.X) }

// Write serializes the corpus as two little-endian uint16 streams:
// a 4-byte pair count, then that many plaintext words, then that many
// ciphertext words.
func Write(w io.Writer, c *Corpus) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint32(c.Len())); err != nil {
		return attackerr.Persistence("-", "write pair count", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, c.X); err != nil {
		return attackerr.Persistence("-", "write plaintext stream", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, c.Y); err != nil {
		return attackerr.Persistence("-", "write ciphertext stream", err)
	}
	return bw.Flush()
}

// Read deserializes a corpus written by Write.
func Read(r io.Reader) (*Corpus, error) {
	br := bufio.NewReader(r)

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, attackerr.Persistence("-", "read pair count", err)
	}

	x := make([]uint16, count)
	if err := binary.Read(br, binary.LittleEndian, x); err != nil {
		return nil, attackerr.Persistence("-", "read plaintext stream", err)
	}
	y := make([]uint16, count)
	if err := binary.Read(br, binary.LittleEndian, y); err != nil {
		return nil, attackerr.Persistence("-", "read ciphertext stream", err)
	}

	return New(x, y)
}
