package models

import (
	"errors"
	"fmt"
	"strings"
)

// StockKind is the closed set of stock categories listed on the exchange.
type StockKind string

const (
	KindCommon    StockKind = "common"
	KindPreferred StockKind = "preferred"
)

func (k StockKind) String() string { return string(k) }

func (k StockKind) Valid() bool {
	return k == KindCommon || k == KindPreferred
}

var (
	// ErrUnknownStockKind is returned when a valuation formula is dispatched
	// on a stock whose kind is outside the closed {common, preferred} set.
	ErrUnknownStockKind = errors.New("unknown stock kind")

	// ErrZeroPrice is the division-by-zero fault for a valuation at price 0.
	ErrZeroPrice = errors.New("price is zero")

	// ErrZeroDividendYield is the division-by-zero fault for a P/E ratio
	// when the dividend yield evaluates to 0 (e.g. a common stock whose
	// last dividend is 0).
	ErrZeroDividendYield = errors.New("dividend yield is zero")
)

// Stock is one listed instrument. All monetary fields are in pence.
//
// Fields:
//   - Symbol: ticker symbol, always stored uppercase (identity key).
//   - Kind: common or preferred.
//   - LastDividend: last dividend paid, in pence.
//   - ParValue: par value, in pence.
//   - FixedDividend: fixed dividend as a fraction (e.g. 0.02); only
//     meaningful for preferred stock, zero otherwise.
//
// A Stock is immutable after construction.
type Stock struct {
	Symbol        string
	Kind          StockKind
	LastDividend  float64
	ParValue      float64
	FixedDividend float64
}

// NewCommonStock lists a common stock. The symbol is normalized to uppercase.
func NewCommonStock(symbol string, lastDividend, parValue float64) *Stock {
	return &Stock{
		Symbol:       NormalizeSymbol(symbol),
		Kind:         KindCommon,
		LastDividend: lastDividend,
		ParValue:     parValue,
	}
}

// NewPreferredStock lists a preferred stock. The symbol is normalized to
// uppercase; fixedDividend is a fraction, not a percentage.
func NewPreferredStock(symbol string, lastDividend, fixedDividend, parValue float64) *Stock {
	return &Stock{
		Symbol:        NormalizeSymbol(symbol),
		Kind:          KindPreferred,
		LastDividend:  lastDividend,
		ParValue:      parValue,
		FixedDividend: fixedDividend,
	}
}

// DividendYield computes the dividend yield at the given price:
//
//	common:    LastDividend / price
//	preferred: FixedDividend * ParValue / price
//
// A zero price is a division-by-zero fault and returns ErrZeroPrice rather
// than a silent ±Inf. Dispatching on a kind outside the closed set returns
// ErrUnknownStockKind.
func (s *Stock) DividendYield(price float64) (float64, error) {
	if price == 0 {
		return 0, ErrZeroPrice
	}
	switch s.Kind {
	case KindCommon:
		return s.LastDividend / price, nil
	case KindPreferred:
		return s.FixedDividend * s.ParValue / price, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStockKind, s.Kind)
	}
}

// PERatio computes the price/earnings ratio at the given price, defined here
// as the reciprocal of the dividend yield. It propagates any fault from
// DividendYield; a yield of exactly 0 is itself a division-by-zero fault
// and returns ErrZeroDividendYield.
func (s *Stock) PERatio(price float64) (float64, error) {
	y, err := s.DividendYield(price)
	if err != nil {
		return 0, err
	}
	if y == 0 {
		return 0, ErrZeroDividendYield
	}
	return 1 / y, nil
}

// NormalizeSymbol maps a symbol to its canonical uppercase form. Every
// symbol comparison in the module goes through this.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
