// Package attack composes approximation search (internal/search) and
// M2 key-ranking (internal/m2) into a single end-to-end run: for each
// seed alpha, search the (R-1)-round approximation frontier, accumulate
// it into a running table, and stop once either the approximation
// budget is spent or every alpha has been processed once.
package attack

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Redeaux-Corporation/heysattack/internal/approx"
	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
	"github.com/Redeaux-Corporation/heysattack/internal/bits"
	"github.com/Redeaux-Corporation/heysattack/internal/corpus"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
	"github.com/Redeaux-Corporation/heysattack/internal/lat"
	"github.com/Redeaux-Corporation/heysattack/internal/m2"
	"github.com/Redeaux-Corporation/heysattack/internal/search"
)

var logger = log.New(os.Stderr, "[attack] ", log.LstdFlags)

// hammingTable is built once and shared by every Run call: it depends
// only on the 16-bit word space, never on cipher parameters, so one copy
// serves every call.
var (
	hammingOnce  sync.Once
	hammingTable *bits.Table16
)

func hammingTableOnce() (*bits.Table16, error) {
	hammingOnce.Do(func() {
		hammingTable = bits.NewHammingTable16()
	})
	return hammingTable, nil
}

// Config is every parameter a single attack call needs. Run checks it
// before any search work starts; search.New and m2.New repeat their own
// checks of the parameters they take.
type Config struct {
	Tables            *heys.CipherTables
	LAT               *lat.Table
	Corpus            *corpus.Corpus
	Alphas            []uint16
	Rounds            int // R, the full cipher round count; search traverses R-1 rounds
	Threshold         float64
	MaxApproximations int
	TopKeys           int
	Workers           int
}

// Result is everything a completed attack call produced: the
// approximation table it searched, the alphas it actually processed
// (which may be a strict prefix of Config.Alphas if MaxApproximations
// was hit first), the key-vote counter, and how long the run took.
type Result struct {
	Approximations  approx.Table
	AlphasProcessed []uint16
	Votes           map[uint16]int
	Elapsed         time.Duration
}

// Run drives one full attack: search every configured alpha in order,
// accumulating discovered (alpha, beta, p) approximations, until either
// the approximation budget is spent or every alpha has been searched
// once; then scores the accumulated table with M2 and returns the
// resulting key-vote counter alongside the table itself.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()

	if len(cfg.Alphas) == 0 {
		return nil, attackerr.Parameter("alphas", "must be non-empty").WithCause(attackerr.ErrEmptyAlphas)
	}
	if cfg.Corpus == nil || cfg.Corpus.Len() == 0 {
		return nil, attackerr.Corpus("corpus is empty", attackerr.ErrEmptyCorpus)
	}
	if cfg.TopKeys <= 0 {
		return nil, attackerr.Parameter("top_keys", "must be > 0")
	}

	searcher, err := search.New(cfg.Tables, cfg.LAT, cfg.Rounds-1, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		searcher.Workers = cfg.Workers
	}

	logger.Printf("starting search over %d seed alpha(s), rounds=%d threshold=%g", len(cfg.Alphas), cfg.Rounds-1, cfg.Threshold)

	approximations := approx.New()
	processed := make([]uint16, 0, len(cfg.Alphas))

	for _, alpha := range cfg.Alphas {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		frontier, err := searcher.Search(ctx, alpha)
		if err != nil {
			return nil, err
		}
		approximations.Merge(alpha, frontier)
		processed = append(processed, alpha)
		logger.Printf("alpha=0x%04x: %d surviving beta(s), %d approximations accumulated", alpha, len(frontier), approximations.Count())

		if cfg.MaxApproximations > 0 && approximations.Count() >= cfg.MaxApproximations {
			logger.Printf("approximation budget %d reached after %d/%d alphas", cfg.MaxApproximations, len(processed), len(cfg.Alphas))
			break
		}
	}

	hamming, err := hammingTableOnce()
	if err != nil {
		return nil, err
	}

	scanner, err := m2.New(cfg.Tables, hamming, cfg.Corpus, cfg.TopKeys)
	if err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		scanner.Workers = cfg.Workers
	}

	votes, err := scanner.Scan(ctx, approximations)
	if err != nil {
		return nil, err
	}

	logger.Printf("scan complete: %d approximations scored, %d distinct key votes, elapsed=%s", approximations.Count(), len(votes), time.Since(start))

	return &Result{
		Approximations:  approximations,
		AlphasProcessed: processed,
		Votes:           votes,
		Elapsed:         time.Since(start),
	}, nil
}
