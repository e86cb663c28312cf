package domain

import (
	"strconv"
	"strings"

	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"

	"github.com/shopspring/decimal"
)

// VWAPRow is one instrument's line in a snapshot.
type VWAPRow struct {
	Symbol string          `json:"symbol"`
	VWAP   decimal.Decimal `json:"vwap"`
}

// String renders the row as "<symbol> <vwap>".
func (r VWAPRow) String() string {
	return r.Symbol + " " + FormatVWAP(r.VWAP)
}

// Snapshot is the VWAP view emitted at a window boundary.
// Rows are sorted by symbol.
type Snapshot struct {
	Label uint64      `json:"label"` // hours since midnight
	Clock quant.Nanos `json:"clock"`
	Final bool        `json:"final"` // emitted on end-of-messages
	Rows  []VWAPRow   `json:"rows"`
}

// Lookup returns the VWAP for symbol.
func (s Snapshot) Lookup(symbol string) (decimal.Decimal, bool) {
	for _, r := range s.Rows {
		if r.Symbol == symbol {
			return r.VWAP, true
		}
	}
	return decimal.Zero, false
}

// FormatVWAP renders a VWAP the way a float division prints it:
// shortest round-trip digits, always with a fractional part ("150.0").
func FormatVWAP(d decimal.Decimal) string {
	f, _ := d.Float64()
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
