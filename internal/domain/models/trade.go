package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action is the direction of a trade.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

func (a Action) String() string { return string(a) }

func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// ParseAction maps a free-form token onto the closed action set.
func ParseAction(s string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return ActionBuy, true
	case "sell":
		return ActionSell, true
	default:
		return "", false
	}
}

// Clock is an injectable time source so trade timestamps are deterministic
// under test. Production code uses SystemClock.
type Clock func() time.Time

// SystemClock returns the current wall-clock instant in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// ErrNoTrades is the division-by-zero fault for a volume-weighted price over
// an empty trade sequence.
var ErrNoTrades = errors.New("no trades")

// Trade is an immutable record of one buy or sell event.
//
// The referenced Stock is not owned: many trades may point at the same
// listing. Timestamp is stamped at construction and means "when recorded";
// it cannot be backdated through NewTrade (tests set the field directly).
type Trade struct {
	ID        uuid.UUID
	Stock     *Stock
	Quantity  int64
	Action    Action
	Price     float64
	Timestamp time.Time
}

// NewTrade records a trade event, stamping it with the clock's current
// instant. A nil clock falls back to SystemClock.
func NewTrade(clock Clock, stock *Stock, quantity int64, action Action, price float64) Trade {
	if clock == nil {
		clock = SystemClock
	}
	return Trade{
		ID:        uuid.New(),
		Stock:     stock,
		Quantity:  quantity,
		Action:    action,
		Price:     price,
		Timestamp: clock(),
	}
}

// VolumeWeightedPrice computes sum(price*quantity) / sum(quantity) over the
// given trades. The result does not depend on the order of the slice.
//
// An empty slice is a division-by-zero fault and returns ErrNoTrades;
// callers filter first and only aggregate non-empty sets.
func VolumeWeightedPrice(trades []Trade) (float64, error) {
	if len(trades) == 0 {
		return 0, ErrNoTrades
	}
	var turnover, volume float64
	for _, t := range trades {
		turnover += t.Price * float64(t.Quantity)
		volume += float64(t.Quantity)
	}
	return turnover / volume, nil
}
