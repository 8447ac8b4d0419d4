// Package simulation drives the exchange with randomly generated trades.
//
// It exists to exercise the market end to end: several workers record trades
// concurrently through the service, which is what the exchange's ledger
// locking is specified for.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/gbcepulse/internal/domain/models"
	"github.com/guttosm/gbcepulse/internal/logger"
	"github.com/guttosm/gbcepulse/internal/service"
)

// maxWorkers caps the worker count regardless of CPU count.
const maxWorkers = 8

// ErrNoListings is returned when the market has no registered stocks to
// trade in.
var ErrNoListings = errors.New("no stocks listed")

// Options configures one simulation run.
//
// Fields:
//   - Trades: total number of trades to record (must be > 0).
//   - Parallel: worker count; 0 means min(NumCPU, maxWorkers).
//   - Seed: RNG seed; 0 derives one from the current time.
//   - MaxQuantity: upper bound (inclusive) for a trade's quantity.
type Options struct {
	Trades      int
	Parallel    int
	Seed        int64
	MaxQuantity int64
}

// Summary reports what a simulation run recorded.
type Summary struct {
	Recorded  int
	PerSymbol map[string]int
	Elapsed   time.Duration
}

// Run records opts.Trades random trades across the market's listed symbols,
// spread over a bounded pool of concurrent workers. The first worker error
// cancels the rest and is returned.
func Run(ctx context.Context, svc service.MarketService, opts Options) (*Summary, error) {
	symbols := svc.Symbols()
	if len(symbols) == 0 {
		return nil, ErrNoListings
	}
	if opts.Trades <= 0 {
		return nil, fmt.Errorf("invalid trade count: %d", opts.Trades)
	}
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = 1000
	}

	workers := opts.Parallel
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > opts.Trades {
		workers = opts.Trades
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log := logger.With("simulation")
	log.Info().
		Int("trades", opts.Trades).
		Int("workers", workers).
		Int64("seed", seed).
		Msg("simulation start")

	start := time.Now()

	var mu sync.Mutex
	perSymbol := make(map[string]int)

	g, gctx := errgroup.WithContext(ctx)

	// Split the trade count across workers; the first `rem` workers take one
	// extra so the shares sum to opts.Trades exactly.
	share := opts.Trades / workers
	rem := opts.Trades % workers

	for w := 0; w < workers; w++ {
		n := share
		if w < rem {
			n++
		}
		// Distinct per-worker source; a shared rand.Rand is not safe for
		// concurrent use.
		rng := rand.New(rand.NewSource(seed + int64(w)))

		g.Go(func() error {
			counts := make(map[string]int, len(symbols))
			for i := 0; i < n; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				sym := symbols[rng.Intn(len(symbols))]
				st, ok := svc.Stock(sym)
				if !ok {
					return fmt.Errorf("listed symbol disappeared: %s", sym)
				}

				action := models.ActionBuy
				if rng.Intn(2) == 1 {
					action = models.ActionSell
				}
				quantity := 1 + rng.Int63n(opts.MaxQuantity)
				// Price wanders around par value, stays positive.
				price := st.ParValue * (0.5 + rng.Float64())

				if _, err := svc.RecordTrade(gctx, sym, quantity, action, price); err != nil {
					return fmt.Errorf("record trade for %s: %w", sym, err)
				}
				counts[sym]++
			}

			mu.Lock()
			for sym, c := range counts {
				perSymbol[sym] += c
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range perSymbol {
		total += c
	}
	elapsed := time.Since(start)
	log.Info().
		Int("recorded", total).
		Dur("elapsed", elapsed).
		Msg("simulation done")

	return &Summary{Recorded: total, PerSymbol: perSymbol, Elapsed: elapsed}, nil
}
