package domain

import (
	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"

	rbt "github.com/emirpasic/gods/trees/redblacktree"
)

// RestingOrder is a live buy order keyed by its order reference number.
type RestingOrder struct {
	Ref    uint64       `json:"ref"`
	Price  quant.Price4 `json:"price"`
	Shares uint32       `json:"shares"`
	Locate uint16       `json:"locate"`
}

// OrderBook holds all resting buy orders plus a per-instrument bid ladder.
// It is owned by the engine goroutine and is not safe for concurrent use.
type OrderBook struct {
	orders  map[uint64]*RestingOrder
	ladders map[uint16]*rbt.Tree // price -> aggregate resting shares (uint64)
}

// NewOrderBook creates an empty order book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		orders:  make(map[uint64]*RestingOrder),
		ladders: make(map[uint16]*rbt.Tree),
	}
}

// Len returns the number of resting orders.
func (b *OrderBook) Len() int {
	return len(b.orders)
}

// Get returns a copy of the resting order for ref.
func (b *OrderBook) Get(ref uint64) (RestingOrder, bool) {
	o, ok := b.orders[ref]
	if !ok {
		return RestingOrder{}, false
	}
	return *o, true
}

// Add inserts a resting order. A live order under the same reference is replaced.
func (b *OrderBook) Add(ref uint64, price quant.Price4, shares uint32, locate uint16) {
	b.remove(ref)
	b.orders[ref] = &RestingOrder{Ref: ref, Price: price, Shares: shares, Locate: locate}
	b.adjustLevel(locate, price, int64(shares))
}

// Execute fills executed shares against ref and returns the order as it was
// before the fill. The order is removed once nothing is left resting.
func (b *OrderBook) Execute(ref uint64, executed uint32) (RestingOrder, error) {
	o, ok := b.orders[ref]
	if !ok {
		return RestingOrder{}, ErrUnknownOrder
	}
	before := *o

	if o.Shares > executed {
		o.Shares -= executed
		b.adjustLevel(o.Locate, o.Price, -int64(executed))
	} else {
		b.remove(ref)
	}
	return before, nil
}

// Cancel reduces the resting shares of ref. An order already at zero shares
// is removed; an unknown ref is ignored.
func (b *OrderBook) Cancel(ref uint64, canceled uint32) error {
	o, ok := b.orders[ref]
	if !ok {
		return nil
	}
	if o.Shares == 0 {
		b.remove(ref)
		return nil
	}
	if canceled > o.Shares {
		return ErrOverCancel
	}
	o.Shares -= canceled
	b.adjustLevel(o.Locate, o.Price, -int64(canceled))
	return nil
}

// Delete removes ref and reports whether it was resting.
func (b *OrderBook) Delete(ref uint64) bool {
	return b.remove(ref)
}

// Replace drops oldRef (if resting) and inserts newRef. It reports whether
// oldRef was resting.
func (b *OrderBook) Replace(oldRef, newRef uint64, price quant.Price4, shares uint32, locate uint16) bool {
	existed := b.remove(oldRef)
	b.Add(newRef, price, shares, locate)
	return existed
}

// BestBid returns the highest resting price for locate and the shares at it.
func (b *OrderBook) BestBid(locate uint16) (quant.Price4, uint64, bool) {
	ladder, ok := b.ladders[locate]
	if !ok || ladder.Empty() {
		return 0, 0, false
	}
	node := ladder.Left() // BidComparator sorts highest first
	return node.Key.(quant.Price4), node.Value.(uint64), true
}

// Depth returns the number of distinct price levels resting for locate.
func (b *OrderBook) Depth(locate uint16) int {
	ladder, ok := b.ladders[locate]
	if !ok {
		return 0
	}
	return ladder.Size()
}

// Snapshot returns a copy of all resting orders (for state dump).
func (b *OrderBook) Snapshot() map[uint64]RestingOrder {
	result := make(map[uint64]RestingOrder, len(b.orders))
	for k, v := range b.orders {
		result[k] = *v
	}
	return result
}

// Locates returns every locate with at least one price level.
func (b *OrderBook) Locates() []uint16 {
	result := make([]uint16, 0, len(b.ladders))
	for locate, ladder := range b.ladders {
		if !ladder.Empty() {
			result = append(result, locate)
		}
	}
	return result
}

func (b *OrderBook) remove(ref uint64) bool {
	o, ok := b.orders[ref]
	if !ok {
		return false
	}
	b.adjustLevel(o.Locate, o.Price, -int64(o.Shares))
	delete(b.orders, ref)
	return true
}

// adjustLevel applies delta shares to a price level, dropping empty levels.
func (b *OrderBook) adjustLevel(locate uint16, price quant.Price4, delta int64) {
	ladder, ok := b.ladders[locate]
	if !ok {
		ladder = rbt.NewWith(BidComparator)
		b.ladders[locate] = ladder
	}

	var current uint64
	if v, found := ladder.Get(price); found {
		current = v.(uint64)
	}

	next := int64(current) + delta
	if next <= 0 {
		ladder.Remove(price)
		return
	}
	ladder.Put(price, uint64(next))
}

// BidComparator orders prices highest first.
func BidComparator(a, b interface{}) int {
	aPrice := a.(quant.Price4)
	bPrice := b.(quant.Price4)
	switch {
	case aPrice > bPrice:
		return -1
	case aPrice < bPrice:
		return 1
	default:
		return 0
	}
}
