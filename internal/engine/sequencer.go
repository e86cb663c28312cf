package engine

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
	"github.com/cerdo03/VWAP-NASDAQ/internal/event"
	"github.com/cerdo03/VWAP-NASDAQ/internal/infra"
	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

// ErrEnded is returned by Apply once the end-of-messages event was processed.
var ErrEnded = errors.New("engine: feed ended")

// EventSource yields decoded events in arrival order. io.EOF ends the source.
// A (nil, nil) result is a frame with no semantics for the engine.
type EventSource interface {
	Next() (event.Event, error)
}

type offsetter interface {
	Offset() int64
}

// Options configures a Sequencer. The zero value is usable.
type Options struct {
	Mode          domain.LedgerMode
	Publisher     domain.SnapshotPublisher
	Metrics       *infra.Metrics
	ProgressEvery uint64 // frames between progress logs; 0 disables
	DumpPath      string // post-mortem dump target; empty uses panic_dump.json
}

// Sequencer is the core single-threaded event processor.
// It owns the order book, the execution ledger, the stock directory and the
// feed clock; nothing else mutates them.
type Sequencer struct {
	book      *domain.OrderBook
	ledger    *domain.ExecutionLedger
	directory *domain.Directory
	window    Window

	publisher     domain.SnapshotPublisher
	metrics       *infra.Metrics
	progressEvery uint64
	dumpPath      string
	frames        uint64

	mu sync.RWMutex // Used only for external reads
}

// NewSequencer creates a new sequencer instance.
func NewSequencer(opts Options) *Sequencer {
	if opts.Metrics == nil {
		opts.Metrics = &infra.Metrics{}
	}
	if opts.DumpPath == "" {
		opts.DumpPath = "panic_dump.json"
	}
	return &Sequencer{
		book:          domain.NewOrderBook(),
		ledger:        domain.NewExecutionLedger(opts.Mode),
		directory:     domain.NewDirectory(),
		publisher:     opts.Publisher,
		metrics:       opts.Metrics,
		progressEvery: opts.ProgressEvery,
		dumpPath:      opts.DumpPath,
	}
}

// Run pulls events from src until the stream ends, the end-of-messages event
// is applied, or ctx is canceled. This MUST be run in a single goroutine.
//
// Recoverable errors drop the offending event and processing continues.
func (s *Sequencer) Run(ctx context.Context, src EventSource) error {
	slog.Info("Sequencer started", slog.String("vwap_mode", s.ledger.Mode().String()))

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState(s.dumpPath)
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			slog.Info("Sequencer stopping...", slog.Any("reason", err))
			return err
		}

		ev, err := src.Next()
		if err == io.EOF {
			slog.Info("Feed exhausted", slog.String("clock", s.Clock().String()))
			return nil
		}
		s.frames++
		s.metrics.RecordFrame()
		s.reportProgress(src)

		if err != nil {
			if domain.IsRecoverable(err) {
				s.drop(err)
				continue
			}
			return err
		}
		if ev == nil {
			s.metrics.RecordIgnored()
			continue
		}

		err = s.Apply(ctx, ev)
		event.Release(ev)
		switch {
		case err == nil:
		case errors.Is(err, ErrEnded):
			return nil
		case domain.IsRecoverable(err):
			s.drop(err)
		default:
			return err
		}

		if s.window.Ended() {
			slog.Info("End of messages", slog.String("clock", s.Clock().String()))
			return nil
		}
	}
}

// Apply processes one event and publishes a snapshot when a window closes.
// A publish failure takes precedence over a recoverable event error.
func (s *Sequencer) Apply(ctx context.Context, ev event.Event) error {
	if s.window.Ended() {
		return ErrEnded
	}
	start := time.Now()

	s.mu.Lock()
	err := s.dispatch(ev)

	var pending *domain.Snapshot
	switch {
	case s.window.Ended():
		snap := s.buildSnapshot(true)
		pending = &snap
	case s.window.Due():
		s.window.Mark()
		snap := s.buildSnapshot(false)
		pending = &snap
	}
	if pending != nil {
		s.ledger.Roll()
	}
	resting := s.book.Len()
	s.mu.Unlock()

	s.metrics.RecordEvent(time.Since(start).Nanoseconds())
	s.metrics.SetRestingBids(resting)

	if pending != nil {
		if perr := s.publish(ctx, *pending); perr != nil {
			return perr
		}
	}
	return err
}

func (s *Sequencer) dispatch(ev event.Event) error {
	switch e := ev.(type) {
	case *event.SystemEvent:
		s.handleSystemEvent(e)
	case *event.StockDirectoryEvent:
		s.directory.Upsert(e.Locate, e.Symbol)
		s.ledger.Reset(e.Locate)
	case *event.AddOrderEvent:
		if e.Side != event.SideBuy {
			return nil
		}
		s.window.Advance(e.Ts)
		s.book.Add(e.OrderRef, e.Price, e.Shares, e.Locate)
	case *event.OrderExecutedEvent:
		s.window.Advance(e.Ts)
		return s.handleExecution('E', e.Locate, e.OrderRef, e.Executed, e.MatchID, nil)
	case *event.OrderExecutedWithPriceEvent:
		if e.Printable == event.PrintableNo {
			return nil
		}
		s.window.Advance(e.Ts)
		price := e.Price
		return s.handleExecution('C', e.Locate, e.OrderRef, e.Executed, e.MatchID, &price)
	case *event.OrderCancelEvent:
		if err := s.book.Cancel(e.OrderRef, e.Canceled); err != nil {
			return domain.NewDecodeError('X', "cancel", err)
		}
	case *event.OrderDeleteEvent:
		s.book.Delete(e.OrderRef)
	case *event.OrderReplaceEvent:
		s.book.Replace(e.OldRef, e.NewRef, e.Price, e.Shares, e.Locate)
	case *event.TradeEvent:
		if e.Side != event.SideBuy {
			return nil
		}
		s.window.Advance(e.Ts)
		return s.record('P', e.Locate, domain.Execution{Price: e.Price, Shares: uint64(e.Shares), MatchID: e.MatchID})
	case *event.CrossTradeEvent:
		s.window.Advance(e.Ts)
		return s.record('Q', e.Locate, domain.Execution{Price: e.Price, Shares: e.Shares, MatchID: e.MatchID})
	case *event.BrokenTradeEvent:
		s.ledger.Break(e.Locate, e.MatchID)
	default:
		slog.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}
	return nil
}

var systemPhases = map[byte]string{
	event.SysStartOfMessages:    "Start of messages",
	event.SysStartOfSystemHours: "Start of system hours",
	event.SysStartOfMarketHours: "Start of market hours",
	event.SysEndOfMarketHours:   "End of market hours",
	event.SysEndOfSystemHours:   "End of system hours",
}

func (s *Sequencer) handleSystemEvent(e *event.SystemEvent) {
	if e.Code == event.SysEndOfMessages {
		s.window.Advance(e.Ts)
		s.window.End()
		return
	}
	if phase, ok := systemPhases[e.Code]; ok {
		slog.Info(phase, slog.String("feed_time", e.Ts.String()))
	}
}

// handleExecution fills a resting order and records the execution. price
// overrides the order's own price for executions that carry one.
func (s *Sequencer) handleExecution(tag byte, locate uint16, ref uint64, executed uint32, matchID uint64, price *quant.Price4) error {
	before, err := s.book.Execute(ref, executed)
	if err != nil {
		return domain.NewDecodeError(tag, "execute", err)
	}

	exec := domain.Execution{Price: before.Price, Shares: uint64(before.Shares), MatchID: matchID}
	if price != nil {
		exec.Price = *price
	}
	// Window mode weighs by traded shares; last mode keeps the resting size.
	if s.ledger.Mode() == domain.LedgerWindow {
		exec.Shares = uint64(min(executed, before.Shares))
	}
	return s.record(tag, locate, exec)
}

func (s *Sequencer) record(tag byte, locate uint16, exec domain.Execution) error {
	if _, ok := s.directory.Symbol(locate); !ok {
		return domain.NewDecodeError(tag, "record", domain.ErrUnknownLocate)
	}
	s.ledger.Record(locate, exec)
	return nil
}

// buildSnapshot computes the VWAP of every instrument with a usable ledger
// entry. Caller must hold s.mu.
func (s *Sequencer) buildSnapshot(final bool) domain.Snapshot {
	snap := domain.Snapshot{
		Label: s.window.Label(),
		Clock: s.window.Clock(),
		Final: final,
	}
	for _, locate := range s.ledger.Locates() {
		symbol, ok := s.directory.Symbol(locate)
		if !ok {
			continue
		}
		vwap, ok := s.ledger.VWAP(locate)
		if !ok {
			continue
		}
		snap.Rows = append(snap.Rows, domain.VWAPRow{Symbol: symbol, VWAP: vwap})
	}
	slices.SortFunc(snap.Rows, func(a, b domain.VWAPRow) int {
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return snap
}

func (s *Sequencer) publish(ctx context.Context, snap domain.Snapshot) error {
	slog.Info("VWAP snapshot",
		slog.Uint64("label", snap.Label),
		slog.String("feed_time", snap.Clock.String()),
		slog.Int("instruments", len(snap.Rows)),
		slog.Bool("final", snap.Final))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, snap); err != nil {
			return fmt.Errorf("publish snapshot %d: %w", snap.Label, err)
		}
	}
	s.metrics.RecordSnapshot()
	return nil
}

func (s *Sequencer) drop(err error) {
	s.metrics.RecordError()
	slog.Debug("Event dropped", slog.Any("error", err))
}

func (s *Sequencer) reportProgress(src EventSource) {
	var offset int64
	if o, ok := src.(offsetter); ok {
		offset = o.Offset()
		s.metrics.SetBytesRead(offset)
	}
	if s.progressEvery == 0 || s.frames%s.progressEvery != 0 {
		return
	}
	slog.Info("Progress",
		slog.String("read", humanize.Bytes(uint64(offset))),
		slog.String("frames", humanize.Comma(int64(s.frames))),
		slog.String("feed_time", s.Clock().String()[:8]))
}

// Order returns a copy of a resting order (external read).
func (s *Sequencer) Order(ref uint64) (domain.RestingOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Get(ref)
}

// OrderCount returns the number of resting buy orders (external read).
func (s *Sequencer) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Len()
}

// Execution returns the most recent execution held for locate (external read).
func (s *Sequencer) Execution(locate uint16) (domain.Execution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Last(locate)
}

// BestBid returns the highest resting bid for locate (external read).
func (s *Sequencer) BestBid(locate uint16) (quant.Price4, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.BestBid(locate)
}

// Symbol returns the directory symbol for locate (external read).
func (s *Sequencer) Symbol(locate uint16) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory.Symbol(locate)
}

// Clock returns the feed clock.
func (s *Sequencer) Clock() quant.Nanos {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window.Clock()
}

// Ended reports whether the end-of-messages event was applied.
func (s *Sequencer) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window.Ended()
}

// Snapshot computes the VWAP view at the current clock without closing the window.
func (s *Sequencer) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildSnapshot(false)
}

type bidLevel struct {
	Price  string `json:"price"`
	Shares uint64 `json:"shares"`
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	bids := make(map[uint16]bidLevel)
	for _, locate := range s.book.Locates() {
		if price, shares, ok := s.book.BestBid(locate); ok {
			bids[locate] = bidLevel{Price: price.String(), Shares: shares}
		}
	}

	data := struct {
		Clock    quant.Nanos                   `json:"clock"`
		Boundary quant.Nanos                   `json:"boundary"`
		Ended    bool                          `json:"ended"`
		Frames   uint64                        `json:"frames"`
		Orders   int                           `json:"orders"`
		BestBids map[uint16]bidLevel           `json:"best_bids"`
		Ledger   map[uint16][]domain.Execution `json:"ledger"`
	}{
		Clock:    s.window.Clock(),
		Boundary: s.window.Boundary(),
		Ended:    s.window.Ended(),
		Frames:   s.frames,
		Orders:   s.book.Len(),
		BestBids: bids,
		Ledger:   s.ledger.Snapshot(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	err = os.WriteFile(filename, b, 0644)
	if err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
