package event

import (
	"sync"
)

// Add and execute messages dominate an ITCH day, so only those two are pooled.
//
// Usage:
//
//	ev := AcquireAddOrderEvent()
//	ev.OrderRef = 42
//	// ... apply event ...
//	Release(ev)  // Return to pool after processing
var addOrderPool = sync.Pool{
	New: func() interface{} {
		return &AddOrderEvent{}
	},
}

// AcquireAddOrderEvent gets an AddOrderEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireAddOrderEvent() *AddOrderEvent {
	return addOrderPool.Get().(*AddOrderEvent)
}

// ReleaseAddOrderEvent returns an AddOrderEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseAddOrderEvent(ev *AddOrderEvent) {
	if ev == nil {
		return
	}
	*ev = AddOrderEvent{}
	addOrderPool.Put(ev)
}

var orderExecutedPool = sync.Pool{
	New: func() interface{} {
		return &OrderExecutedEvent{}
	},
}

// AcquireOrderExecutedEvent gets an OrderExecutedEvent from the pool.
func AcquireOrderExecutedEvent() *OrderExecutedEvent {
	return orderExecutedPool.Get().(*OrderExecutedEvent)
}

// ReleaseOrderExecutedEvent returns an OrderExecutedEvent to the pool.
func ReleaseOrderExecutedEvent(ev *OrderExecutedEvent) {
	if ev == nil {
		return
	}
	*ev = OrderExecutedEvent{}
	orderExecutedPool.Put(ev)
}

// Release hands pooled events back after the engine has applied them.
// Unpooled event types are left to the GC.
func Release(ev Event) {
	switch e := ev.(type) {
	case *AddOrderEvent:
		ReleaseAddOrderEvent(e)
	case *OrderExecutedEvent:
		ReleaseOrderExecutedEvent(e)
	}
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 1000

	adds := make([]*AddOrderEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		adds = append(adds, AcquireAddOrderEvent())
	}
	for _, ev := range adds {
		ReleaseAddOrderEvent(ev)
	}

	execs := make([]*OrderExecutedEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		execs = append(execs, AcquireOrderExecutedEvent())
	}
	for _, ev := range execs {
		ReleaseOrderExecutedEvent(ev)
	}
}
