package models

import "time"

// StockPrice is the result of a windowed price query for one symbol.
//
// Fields:
//   - Symbol: the ticker the query resolved to (uppercase).
//   - Price: volume-weighted average price over the window, in pence.
//   - Window: the trailing window the query covered.
type StockPrice struct {
	Symbol string
	Price  float64
	Window time.Duration
}

// IndexValue is the result of an All Share Index query: the geometric mean
// of per-symbol volume-weighted prices over the window, plus how many
// symbols contributed.
type IndexValue struct {
	Value   float64
	Symbols int
	Window  time.Duration
}
