// Package search implements the branch-and-bound trail search: given a
// seed input mask alpha, it finds every output mask beta for which the
// (R-1)-round linear approximation alpha -> beta has squared correlation
// above a threshold, by propagating a frontier of {mask: probability}
// pairs one round at a time and pruning below threshold after each round.
package search

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
	"github.com/Redeaux-Corporation/heysattack/internal/lat"
	"github.com/Redeaux-Corporation/heysattack/internal/parallel"
)

// MaskSpace is the number of 16-bit masks, zero included; a branch-and-
// bound round considers the MaskSpace-1 non-zero masks as candidate
// output betas.
const MaskSpace = 1 << 16

// Frontier maps an output mask to its accumulated squared correlation.
type Frontier map[uint16]float64

// Searcher owns the immutable tables (cipher tables + LAT) every search
// call shares by reference, plus the parameters of a single search run.
type Searcher struct {
	Tables    *heys.CipherTables
	LAT       *lat.Table
	Rounds    int // number of rounds to traverse == cipher Rounds()-1
	Threshold float64
	Workers   int

	// Sampled switches the per-round candidate-beta generation from exact
	// enumeration (all 65535 non-zero masks) to a random draw of
	// SampleSize masks from rng. Exact is the default; sampling is
	// opt-in, and the caller's rng is never the global generator so two
	// sampled runs with the same seed are bit-identical.
	Sampled    bool
	SampleSize int
	Rng        *rand.Rand
}

// New validates the searcher's parameters and returns a ready-to-use
// instance.
func New(tables *heys.CipherTables, lt *lat.Table, rounds int, threshold float64) (*Searcher, error) {
	if threshold <= 0 {
		return nil, attackerr.Parameter("threshold", "must be > 0").WithCause(attackerr.ErrThresholdInvalid)
	}
	if rounds < 1 {
		return nil, attackerr.Parameter("rounds", "must be >= 1")
	}
	return &Searcher{
		Tables:    tables,
		LAT:       lt,
		Rounds:    rounds,
		Threshold: threshold,
		Workers:   runtime.GOMAXPROCS(0),
	}, nil
}

// Search runs the branch-and-bound trail search seeded at alpha and
// returns the surviving {beta: probability} frontier after Rounds
// propagation steps. Beta == 0 is always excluded, even if its
// accumulated probability would otherwise survive the threshold.
func (s *Searcher) Search(ctx context.Context, alpha uint16) (Frontier, error) {
	if alpha == 0 {
		return nil, attackerr.Parameter("alpha", "must be non-zero")
	}

	frontier := Frontier{alpha: 1.0}

	for round := 0; round < s.Rounds; round++ {
		next, err := s.step(ctx, frontier)
		if err != nil {
			return nil, err
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}

	delete(frontier, 0)
	return frontier, nil
}

// step propagates one round of the frontier and prunes entries at or
// below the threshold. Candidate betas are partitioned across workers
// via internal/parallel.Run; each worker accumulates into its own local
// map (no shared mutable state across goroutines) keyed by its shard's
// start index, which is merged back in ascending-shard order afterward
// so the result is independent of goroutine scheduling.
func (s *Searcher) step(ctx context.Context, frontier Frontier) (Frontier, error) {
	gammas := sortedKeys(frontier)

	candidates := s.candidateBetas()
	if len(candidates) == 0 {
		return Frontier{}, nil
	}
	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	partials := make(map[int]Frontier)

	err := parallel.Run(ctx, len(candidates), workers, func(gctx context.Context, lo, hi int) error {
		local := Frontier{}
		for _, beta := range candidates[lo:hi] {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			p := s.accumulate(gammas, frontier, beta)
			if p > s.Threshold {
				local[beta] = p
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

	merged := Frontier{}
	for _, lo := range shardStarts {
		for beta, p := range partials[lo] {
			merged[beta] += p
		}
	}
	return merged, nil
}

// accumulate computes next[beta] = sum over gamma in frontier of
// frontier[gamma] * q(gamma -> beta), iterating gammas in a fixed
// (sorted) order so the sum is bit-identical across runs regardless of
// map-iteration order or worker scheduling.
func (s *Searcher) accumulate(gammas []uint16, frontier Frontier, beta uint16) float64 {
	permBeta := s.Tables.Perm[beta]

	var sum float64
	for _, gamma := range gammas {
		pGamma := frontier[gamma]

		q := 1.0
		for b := 0; b < heys.Nibbles; b++ {
			q *= s.LAT.At(heys.Nibble(gamma, b), heys.Nibble(permBeta, b))
			if q == 0 {
				break
			}
		}
		sum += pGamma * q
	}
	return sum
}

// candidateBetas returns the full non-zero mask space under exact
// enumeration, or a seeded random sample of it when Sampled is set.
func (s *Searcher) candidateBetas() []uint16 {
	if !s.Sampled {
		candidates := make([]uint16, MaskSpace-1)
		for i := range candidates {
			candidates[i] = uint16(i + 1)
		}
		return candidates
	}

	size := s.SampleSize
	if size <= 0 {
		size = MaskSpace / 8
	}
	rng := s.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	seen := make(map[uint16]struct{}, size)
	candidates := make([]uint16, 0, size)
	for len(candidates) < size && len(candidates) < MaskSpace-1 {
		beta := uint16(1 + rng.Intn(MaskSpace-1))
		if _, dup := seen[beta]; dup {
			continue
		}
		seen[beta] = struct{}{}
		candidates = append(candidates, beta)
	}
	return candidates
}

func sortedKeys(f Frontier) []uint16 {
	keys := make([]uint16, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
