package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/guttosm/gbcepulse/internal/domain/models"
	"github.com/guttosm/gbcepulse/internal/exchange"
)

var (
	// ErrUnknownSymbol is returned when an operation names a symbol that is
	// not listed on the market.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrDuplicateSymbol is returned when listing a symbol twice.
	ErrDuplicateSymbol = errors.New("symbol already listed")

	// ErrInvalidAction is returned when recording a trade with an action
	// outside the {buy, sell} set.
	ErrInvalidAction = errors.New("invalid trade action")
)

// MarketService defines business logic over one exchange and its listings:
// symbol resolution, stock valuation, trade recording and windowed queries.
type MarketService interface {
	RegisterStock(stock *models.Stock) error
	Stock(symbol string) (*models.Stock, bool)
	Symbols() []string

	DividendYield(ctx context.Context, symbol string, price float64) (float64, error)
	PERatio(ctx context.Context, symbol string, price float64) (float64, error)

	RecordTrade(ctx context.Context, symbol string, quantity int64, action models.Action, price float64) (models.Trade, error)
	PriceBySymbol(ctx context.Context, symbol string, window time.Duration) (*models.StockPrice, error)
	AllShareIndex(ctx context.Context, window time.Duration) (*models.IndexValue, error)
}

type marketService struct {
	ex     *exchange.Exchange
	clock  models.Clock
	stocks map[string]*models.Stock
}

// NewMarketService creates a market over the given exchange. The clock is
// used to stamp recorded trades; nil falls back to SystemClock.
func NewMarketService(ex *exchange.Exchange, clock models.Clock) MarketService {
	if clock == nil {
		clock = models.SystemClock
	}
	return &marketService{
		ex:     ex,
		clock:  clock,
		stocks: make(map[string]*models.Stock),
	}
}

func (s *marketService) RegisterStock(stock *models.Stock) error {
	if _, ok := s.stocks[stock.Symbol]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSymbol, stock.Symbol)
	}
	s.stocks[stock.Symbol] = stock
	return nil
}

func (s *marketService) Stock(symbol string) (*models.Stock, bool) {
	st, ok := s.stocks[models.NormalizeSymbol(symbol)]
	return st, ok
}

func (s *marketService) Symbols() []string {
	out := make([]string, 0, len(s.stocks))
	for sym := range s.stocks {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func (s *marketService) DividendYield(_ context.Context, symbol string, price float64) (float64, error) {
	st, ok := s.Stock(symbol)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, models.NormalizeSymbol(symbol))
	}
	return st.DividendYield(price)
}

func (s *marketService) PERatio(_ context.Context, symbol string, price float64) (float64, error) {
	st, ok := s.Stock(symbol)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, models.NormalizeSymbol(symbol))
	}
	return st.PERatio(price)
}

// RecordTrade resolves the symbol, stamps a trade with the service clock and
// appends it to the exchange ledger.
func (s *marketService) RecordTrade(_ context.Context, symbol string, quantity int64, action models.Action, price float64) (models.Trade, error) {
	st, ok := s.Stock(symbol)
	if !ok {
		return models.Trade{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, models.NormalizeSymbol(symbol))
	}
	if !action.Valid() {
		return models.Trade{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	t := models.NewTrade(s.clock, st, quantity, action, price)
	s.ex.RecordTrade(t)
	return t, nil
}

// PriceBySymbol returns the windowed VWAP for the symbol, or (nil, nil) when
// no trade for the symbol falls inside the window.
func (s *marketService) PriceBySymbol(_ context.Context, symbol string, window time.Duration) (*models.StockPrice, error) {
	sym := models.NormalizeSymbol(symbol)
	if _, ok := s.stocks[sym]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, sym)
	}
	price, ok := s.ex.PriceByStock(sym, window)
	if !ok {
		return nil, nil
	}
	return &models.StockPrice{Symbol: sym, Price: price, Window: window}, nil
}

// AllShareIndex returns the windowed index, or (nil, nil) when no trade at
// all falls inside the window.
func (s *marketService) AllShareIndex(_ context.Context, window time.Duration) (*models.IndexValue, error) {
	value, ok := s.ex.AllShareIndex(window)
	if !ok {
		return nil, nil
	}
	return &models.IndexValue{
		Value:   value,
		Symbols: len(s.ex.ActiveSymbols(window)),
		Window:  window,
	}, nil
}
