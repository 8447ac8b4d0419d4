// Package exchange holds the trade ledger and its windowed price queries.
//
// The ledger is append-only: trades are never mutated or removed once
// recorded. Both queries sample "now" once per call from the injected clock,
// so two calls in quick succession may cover slightly different windows.
package exchange

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/guttosm/gbcepulse/internal/domain/models"
)

// Exchange is an append-only trade ledger with windowed aggregate queries.
//
// A single RWMutex guards the ledger: RecordTrade takes the write lock, the
// query methods take the read lock. Safe for concurrent use.
type Exchange struct {
	mu     sync.RWMutex
	trades []models.Trade
	clock  models.Clock
}

// New creates an empty exchange. A nil clock falls back to SystemClock.
func New(clock models.Clock) *Exchange {
	if clock == nil {
		clock = models.SystemClock
	}
	return &Exchange{clock: clock}
}

// RecordTrade appends a trade to the ledger. No validation is performed and
// there is no failure mode; insertion order is recording order.
func (e *Exchange) RecordTrade(t models.Trade) {
	e.mu.Lock()
	e.trades = append(e.trades, t)
	e.mu.Unlock()
}

// TradeCount reports the current size of the ledger.
func (e *Exchange) TradeCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.trades)
}

// PriceByStock computes the volume-weighted average price of one stock over
// the trailing window ending now. The symbol comparison is case-insensitive.
//
// The second return value is false when no trade for the symbol falls inside
// the window — "no data" is distinct from any valid price, including 0.
func (e *Exchange) PriceByStock(symbol string, window time.Duration) (float64, bool) {
	sym := models.NormalizeSymbol(symbol)
	cutoff := e.clock().Add(-window)

	e.mu.RLock()
	var matched []models.Trade
	for _, t := range e.trades {
		if t.Stock != nil && t.Stock.Symbol == sym && !t.Timestamp.Before(cutoff) {
			matched = append(matched, t)
		}
	}
	e.mu.RUnlock()

	if len(matched) == 0 {
		return 0, false
	}
	price, err := models.VolumeWeightedPrice(matched)
	if err != nil {
		return 0, false
	}
	return price, true
}

// ActiveSymbols lists, in sorted order, the symbols with at least one trade
// inside the trailing window — the group keys behind AllShareIndex.
func (e *Exchange) ActiveSymbols(window time.Duration) []string {
	cutoff := e.clock().Add(-window)

	e.mu.RLock()
	seen := make(map[string]struct{})
	for _, t := range e.trades {
		if t.Stock != nil && !t.Timestamp.Before(cutoff) {
			seen[t.Stock.Symbol] = struct{}{}
		}
	}
	e.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// AllShareIndex computes the geometric mean of per-symbol volume-weighted
// prices over the trailing window ending now.
//
// Trades are grouped into a symbol-keyed map, so non-adjacent ledger entries
// for the same symbol always land in one group regardless of recording
// order. A single contributing symbol yields its own VWAP. Returns false
// when no trade at all falls inside the window.
func (e *Exchange) AllShareIndex(window time.Duration) (float64, bool) {
	cutoff := e.clock().Add(-window)

	e.mu.RLock()
	groups := make(map[string][]models.Trade)
	for _, t := range e.trades {
		if t.Stock == nil || t.Timestamp.Before(cutoff) {
			continue
		}
		groups[t.Stock.Symbol] = append(groups[t.Stock.Symbol], t)
	}
	e.mu.RUnlock()

	if len(groups) == 0 {
		return 0, false
	}
	product := 1.0
	for _, trades := range groups {
		price, err := models.VolumeWeightedPrice(trades)
		if err != nil {
			return 0, false
		}
		product *= price
	}
	return math.Pow(product, 1/float64(len(groups))), true
}
