// Package m2 implements Matsui's Algorithm 2: for every (alpha, beta)
// linear approximation discovered by internal/search, it scores all
// 2^16 candidate last-round keys against the known plaintext/ciphertext
// corpus and keeps the top-scoring keys as votes. Votes are merged by
// frequency into a final key-ranking.
package m2

import (
	"context"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/Redeaux-Corporation/heysattack/internal/approx"
	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
	"github.com/Redeaux-Corporation/heysattack/internal/bits"
	"github.com/Redeaux-Corporation/heysattack/internal/corpus"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
	"github.com/Redeaux-Corporation/heysattack/internal/parallel"
)

var logger = log.New(os.Stderr, "[m2] ", log.LstdFlags)

// KeyVote is one emitted candidate: key k scored `Score` for a specific
// (alpha, beta) approximation.
type KeyVote struct {
	Alpha uint16
	Beta  uint16
	Key   uint16
	Score int64
}

// Scanner owns the read-only tables every worker shares: cipher tables,
// the hamming/parity table, and the corpus.
type Scanner struct {
	Tables  *heys.CipherTables
	Hamming *bits.Table16
	Corpus  *corpus.Corpus
	TopKeys int
	Workers int
}

// New validates the scanner's parameters.
func New(tables *heys.CipherTables, hamming *bits.Table16, c *corpus.Corpus, topKeys int) (*Scanner, error) {
	if topKeys <= 0 {
		return nil, attackerr.Parameter("top_keys", "must be > 0")
	}
	if c == nil || c.Len() == 0 {
		return nil, attackerr.Corpus("corpus is empty", attackerr.ErrEmptyCorpus)
	}
	return &Scanner{Tables: tables, Hamming: hamming, Corpus: c, TopKeys: topKeys}, nil
}

// work is one (alpha, beta) bucket entry to be scored independently; the
// beta dimension within a single alpha is embarrassingly parallel, and so
// is the alpha dimension itself, so both are flattened into one work list
// and partitioned across workers.
type work struct {
	alpha uint16
	beta  uint16
}

// Scan scores every (alpha, beta) pair in approximations against the
// corpus and returns a key-vote counter: candidate key -> occurrence
// count across every emitted top-K vote.
func (s *Scanner) Scan(ctx context.Context, approximations approx.Table) (map[uint16]int, error) {
	items := flatten(approximations)
	if len(items) == 0 {
		return map[uint16]int{}, nil
	}

	workers := parallel.Workers(s.Workers)
	logger.Printf("scoring %d (alpha,beta) pair(s) against %d corpus sample(s) with %d worker(s)", len(items), s.Corpus.Len(), workers)

	var mu sync.Mutex
	partials := make(map[int]map[uint16]int)

	err := parallel.Run(ctx, len(items), workers, func(gctx context.Context, lo, hi int) error {
		local := map[uint16]int{}
		for _, item := range items[lo:hi] {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			for _, vote := range s.scoreApproximation(item.alpha, item.beta) {
				local[vote.Key]++
			}
		}
		mu.Lock()
		partials[lo] = local
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	shardStarts := make([]int, 0, len(partials))
	for lo := range partials {
		shardStarts = append(shardStarts, lo)
	}
	sort.Ints(shardStarts)

	merged := map[uint16]int{}
	for _, lo := range shardStarts {
		for key, count := range partials[lo] {
			merged[key] += count
		}
	}
	return merged, nil
}

// scoreApproximation computes T_k for every candidate key k and returns
// the top TopKeys candidates, ties broken by ascending key value for
// reproducibility.
func (s *Scanner) scoreApproximation(alpha, beta uint16) []KeyVote {
	const keySpace = 1 << 16
	scores := make([]int64, keySpace)

	for k := 0; k < keySpace; k++ {
		key := uint16(k)
		var t int64
		for i := 0; i < s.Corpus.Len(); i++ {
			inner := s.Hamming.Parity(alpha, s.Tables.Perm[s.Tables.SBox16[s.Corpus.X[i]^key]])
			outer := s.Hamming.Parity(beta, s.Corpus.Y[i])
			if inner == outer {
				t++
			} else {
				t--
			}
		}
		if t < 0 {
			t = -t
		}
		scores[k] = t
	}

	order := make([]uint16, keySpace)
	for i := range order {
		order[i] = uint16(i)
	}
	sort.Slice(order, func(i, j int) bool {
		si, sj := scores[order[i]], scores[order[j]]
		if si != sj {
			return si > sj
		}
		return order[i] < order[j]
	})

	top := s.TopKeys
	if top > keySpace {
		top = keySpace
	}
	votes := make([]KeyVote, top)
	for i := 0; i < top; i++ {
		key := order[i]
		votes[i] = KeyVote{Alpha: alpha, Beta: beta, Key: key, Score: scores[key]}
	}
	return votes
}

func flatten(table approx.Table) []work {
	items := make([]work, 0, table.Count())
	for alpha, bucket := range table {
		for beta := range bucket {
			items = append(items, work{alpha: alpha, beta: beta})
		}
	}
	return items
}
