package engine

import (
	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

// Window tracks the feed clock and decides when an hourly snapshot is due.
type Window struct {
	clock    quant.Nanos
	boundary quant.Nanos
	ended    bool
}

// Advance moves the clock forward. Older timestamps are ignored.
func (w *Window) Advance(ts quant.Nanos) {
	if ts > w.clock {
		w.clock = ts
	}
}

// Due reports whether a full hour has elapsed since the last boundary.
func (w *Window) Due() bool {
	return !w.ended && w.clock-w.boundary >= quant.NanosPerHour
}

// Mark records the current clock as the last boundary.
func (w *Window) Mark() {
	w.boundary = w.clock
}

// End moves the window into its terminal state.
func (w *Window) End() {
	w.boundary = w.clock
	w.ended = true
}

// Label is the hour-of-day a snapshot taken now is filed under.
func (w *Window) Label() uint64 {
	return w.clock.Hour()
}

func (w *Window) Clock() quant.Nanos    { return w.clock }
func (w *Window) Boundary() quant.Nanos { return w.boundary }
func (w *Window) Ended() bool           { return w.ended }
