package domain

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LedgerMode selects how executions are kept per instrument.
type LedgerMode int

const (
	// LedgerLast keeps only the most recent execution per instrument.
	LedgerLast LedgerMode = iota
	// LedgerWindow accumulates every execution until the window is rolled.
	LedgerWindow
)

// ParseLedgerMode maps a config value to a LedgerMode.
func ParseLedgerMode(s string) (LedgerMode, error) {
	switch s {
	case "", "last":
		return LedgerLast, nil
	case "window":
		return LedgerWindow, nil
	default:
		return LedgerLast, fmt.Errorf("unknown vwap mode %q", s)
	}
}

func (m LedgerMode) String() string {
	if m == LedgerWindow {
		return "window"
	}
	return "last"
}

// Execution is one fill or trade print attributed to an instrument.
type Execution struct {
	Price   quant.Price4 `json:"price"`
	Shares  uint64       `json:"shares"`
	MatchID uint64       `json:"match_id"`
}

// ExecutionLedger records executions per stock locate.
type ExecutionLedger struct {
	mode    LedgerMode
	entries map[uint16][]Execution
}

// NewExecutionLedger creates an empty ledger.
func NewExecutionLedger(mode LedgerMode) *ExecutionLedger {
	return &ExecutionLedger{
		mode:    mode,
		entries: make(map[uint16][]Execution),
	}
}

// Mode returns the ledger mode.
func (l *ExecutionLedger) Mode() LedgerMode {
	return l.mode
}

// Reset clears the executions of a single locate.
func (l *ExecutionLedger) Reset(locate uint16) {
	delete(l.entries, locate)
}

// Record stores an execution for locate, overwriting or appending by mode.
func (l *ExecutionLedger) Record(locate uint16, exec Execution) {
	if l.mode == LedgerWindow {
		l.entries[locate] = append(l.entries[locate], exec)
		return
	}
	l.entries[locate] = []Execution{exec}
}

// Break revokes executions of locate carrying matchID and reports whether
// anything was removed.
func (l *ExecutionLedger) Break(locate uint16, matchID uint64) bool {
	execs, ok := l.entries[locate]
	if !ok {
		return false
	}
	kept := lo.Filter(execs, func(e Execution, _ int) bool {
		return e.MatchID != matchID
	})
	if len(kept) == len(execs) {
		return false
	}
	if len(kept) == 0 {
		delete(l.entries, locate)
		return true
	}
	l.entries[locate] = kept
	return true
}

// Last returns the most recent execution for locate.
func (l *ExecutionLedger) Last(locate uint16) (Execution, bool) {
	execs := l.entries[locate]
	if len(execs) == 0 {
		return Execution{}, false
	}
	return execs[len(execs)-1], true
}

// Executions returns a copy of the executions held for locate.
func (l *ExecutionLedger) Executions(locate uint16) []Execution {
	return slices.Clone(l.entries[locate])
}

// Locates returns the locates holding at least one execution, ascending.
func (l *ExecutionLedger) Locates() []uint16 {
	locates := lo.Keys(l.entries)
	slices.Sort(locates)
	return locates
}

// VWAP computes sum(price*qty) / (sum(qty) * 10000) for locate.
// It reports false when no shares are recorded.
func (l *ExecutionLedger) VWAP(locate uint16) (decimal.Decimal, bool) {
	notional := decimal.Zero
	volume := decimal.Zero
	for _, e := range l.entries[locate] {
		qty := fromUint64(e.Shares)
		notional = notional.Add(decimal.NewFromInt(int64(e.Price)).Mul(qty))
		volume = volume.Add(qty)
	}
	if volume.IsZero() {
		return decimal.Zero, false
	}
	return notional.Div(volume.Shift(-quant.PriceExp)), true
}

// Roll closes a window. Only LedgerWindow discards executions; the last
// execution of LedgerLast carries over into the next window.
func (l *ExecutionLedger) Roll() {
	if l.mode != LedgerWindow {
		return
	}
	clear(l.entries)
}

// Snapshot returns a copy of all executions (for state dump).
func (l *ExecutionLedger) Snapshot() map[uint16][]Execution {
	result := make(map[uint16][]Execution, len(l.entries))
	for k, v := range l.entries {
		result[k] = slices.Clone(v)
	}
	return result
}

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
