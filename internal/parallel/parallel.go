// Package parallel is the one shared worker-pool abstraction used by both
// the branch-and-bound beta fan-out (internal/search) and the M2
// (alpha, beta) work-item fan-out (internal/m2). It exists so the two call sites
// don't grow two bespoke goroutine-management implementations, mirroring
// the teacher's habit of wrapping a single concern (SBoxPlayers, MSAState)
// in one type rather than scattering ad hoc goroutines through call sites.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/Redeaux-Corporation/heysattack/internal/attackerr"
)

// Workers returns a sensible default worker count: GOMAXPROCS, clamped to
// requested if requested > 0.
func Workers(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.GOMAXPROCS(0)
}

// Run partitions [0, n) into `workers` contiguous shards and calls fn once
// per shard with its [lo, hi) bounds. A panic inside fn is recovered and
// turned into a plain error so one crashed worker cannot take down the
// process; every worker error (including recovered panics) is combined
// with go-multierror so a caller sees every concurrent failure, not only
// the first one errgroup would otherwise report.
func Run(ctx context.Context, n, workers int, fn func(ctx context.Context, lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	group, gctx := errgroup.WithContext(ctx)
	shard := (n + workers - 1) / workers

	var combined error
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}

		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker panic: %v", r)
				}
				if err != nil {
					mu.Lock()
					combined = multierror.Append(combined, err)
					mu.Unlock()
				}
			}()
			return fn(gctx, lo, hi)
		})
	}

	if err := group.Wait(); err != nil {
		if combined != nil {
			return attackerr.Worker(combined)
		}
		return attackerr.Worker(err)
	}
	return nil
}
