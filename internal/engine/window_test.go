package engine

import (
	"testing"

	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

func TestWindow(t *testing.T) {
	var w Window

	w.Advance(hour - 1)
	if w.Due() {
		t.Error("Not due before a full hour")
	}

	w.Advance(hour)
	if !w.Due() || w.Label() != 1 {
		t.Errorf("Expected due with label 1, got %v/%d", w.Due(), w.Label())
	}
	w.Mark()
	if w.Due() || w.Boundary() != hour {
		t.Error("Mark should reset the boundary to the clock")
	}

	w.Advance(10)
	if w.Clock() != hour {
		t.Errorf("Clock moved backwards to %d", w.Clock())
	}

	w.Advance(3*hour + 30*quant.NanosPerSecond)
	w.End()
	if !w.Ended() || w.Due() {
		t.Error("Ended window is never due")
	}
	if w.Label() != 3 {
		t.Errorf("Expected label 3, got %d", w.Label())
	}
}
