package itch

import (
	"encoding/binary"
	"strings"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
	"github.com/cerdo03/VWAP-NASDAQ/internal/event"
	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

// Minimum payload sizes per message type, including the type byte.
const (
	sizeSystemEvent            = 12
	sizeStockDirectory         = 19
	sizeAddOrder               = 36
	sizeOrderExecuted          = 31
	sizeOrderExecutedWithPrice = 36
	sizeOrderCancel            = 23
	sizeOrderDelete            = 19
	sizeOrderReplace           = 35
	sizeTrade                  = 44
	sizeCrossTrade             = 39
	sizeBrokenTrade            = 19
)

// Decode maps one payload to a typed event. It is a pure function of the bytes.
//
// Unknown message types return (nil, nil). Undersized payloads return a
// recoverable *domain.DecodeError.
func Decode(p []byte) (event.Event, error) {
	if len(p) == 0 {
		return nil, nil
	}

	switch p[0] {
	case 'S':
		return decodeSystemEvent(p)
	case 'R':
		return decodeStockDirectory(p)
	case 'A', 'F':
		return decodeAddOrder(p)
	case 'E':
		return decodeOrderExecuted(p)
	case 'C':
		return decodeOrderExecutedWithPrice(p)
	case 'X':
		return decodeOrderCancel(p)
	case 'D':
		return decodeOrderDelete(p)
	case 'U':
		return decodeOrderReplace(p)
	case 'P':
		return decodeTrade(p)
	case 'Q':
		return decodeCrossTrade(p)
	case 'B':
		return decodeBrokenTrade(p)
	default:
		return nil, nil
	}
}

func checkSize(p []byte, size int) error {
	if len(p) < size {
		return domain.NewDecodeError(p[0], "decode", domain.ErrShortPayload)
	}
	return nil
}

func header(p []byte) event.BaseEvent {
	return event.BaseEvent{
		Locate: binary.BigEndian.Uint16(p[1:3]),
		Ts:     quant.Uint48(p[5:11]),
	}
}

func price(b []byte) quant.Price4 {
	return quant.Price4(binary.BigEndian.Uint32(b))
}

// System Event: Type(1) + Locate(2) + Tracking(2) + Timestamp(6) + EventCode(1) = 12
func decodeSystemEvent(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeSystemEvent); err != nil {
		return nil, err
	}
	return &event.SystemEvent{BaseEvent: header(p), Code: p[11]}, nil
}

// Stock Directory: symbol at [11:19]; the remaining directory fields are not used.
func decodeStockDirectory(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeStockDirectory); err != nil {
		return nil, err
	}
	return &event.StockDirectoryEvent{
		BaseEvent: header(p),
		Symbol:    readSymbol(p[11:19]),
	}, nil
}

// Add Order: ref [11:19], side [19], shares [20:24], stock [24:32], price [32:36].
// 'F' carries an MPID attribution after byte 36, which is ignored.
func decodeAddOrder(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeAddOrder); err != nil {
		return nil, err
	}
	ev := event.AcquireAddOrderEvent()
	ev.BaseEvent = header(p)
	ev.OrderRef = binary.BigEndian.Uint64(p[11:19])
	ev.Side = p[19]
	ev.Shares = binary.BigEndian.Uint32(p[20:24])
	ev.Price = price(p[32:36])
	return ev, nil
}

// Order Executed: ref [11:19], executed [19:23], match [23:31].
func decodeOrderExecuted(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeOrderExecuted); err != nil {
		return nil, err
	}
	ev := event.AcquireOrderExecutedEvent()
	ev.BaseEvent = header(p)
	ev.OrderRef = binary.BigEndian.Uint64(p[11:19])
	ev.Executed = binary.BigEndian.Uint32(p[19:23])
	ev.MatchID = binary.BigEndian.Uint64(p[23:31])
	return ev, nil
}

// Order Executed With Price: as 'E' plus printable [31] and price [32:36].
func decodeOrderExecutedWithPrice(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeOrderExecutedWithPrice); err != nil {
		return nil, err
	}
	return &event.OrderExecutedWithPriceEvent{
		BaseEvent: header(p),
		OrderRef:  binary.BigEndian.Uint64(p[11:19]),
		Executed:  binary.BigEndian.Uint32(p[19:23]),
		MatchID:   binary.BigEndian.Uint64(p[23:31]),
		Printable: p[31],
		Price:     price(p[32:36]),
	}, nil
}

func decodeOrderCancel(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeOrderCancel); err != nil {
		return nil, err
	}
	return &event.OrderCancelEvent{
		BaseEvent: header(p),
		OrderRef:  binary.BigEndian.Uint64(p[11:19]),
		Canceled:  binary.BigEndian.Uint32(p[19:23]),
	}, nil
}

func decodeOrderDelete(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeOrderDelete); err != nil {
		return nil, err
	}
	return &event.OrderDeleteEvent{
		BaseEvent: header(p),
		OrderRef:  binary.BigEndian.Uint64(p[11:19]),
	}, nil
}

// Order Replace: old ref [11:19], new ref [19:27], shares [27:31], price [31:35].
func decodeOrderReplace(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeOrderReplace); err != nil {
		return nil, err
	}
	return &event.OrderReplaceEvent{
		BaseEvent: header(p),
		OldRef:    binary.BigEndian.Uint64(p[11:19]),
		NewRef:    binary.BigEndian.Uint64(p[19:27]),
		Shares:    binary.BigEndian.Uint32(p[27:31]),
		Price:     price(p[31:35]),
	}, nil
}

// Trade (non-cross): side [19], shares [20:24], stock [24:32], price [32:36], match [36:44].
func decodeTrade(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeTrade); err != nil {
		return nil, err
	}
	return &event.TradeEvent{
		BaseEvent: header(p),
		Side:      p[19],
		Shares:    binary.BigEndian.Uint32(p[20:24]),
		Price:     price(p[32:36]),
		MatchID:   binary.BigEndian.Uint64(p[36:44]),
	}, nil
}

// Cross Trade: shares [11:19] (u64), stock [19:27], price [27:31], match [31:39].
func decodeCrossTrade(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeCrossTrade); err != nil {
		return nil, err
	}
	return &event.CrossTradeEvent{
		BaseEvent: header(p),
		Shares:    binary.BigEndian.Uint64(p[11:19]),
		Price:     price(p[27:31]),
		MatchID:   binary.BigEndian.Uint64(p[31:39]),
	}, nil
}

func decodeBrokenTrade(p []byte) (event.Event, error) {
	if err := checkSize(p, sizeBrokenTrade); err != nil {
		return nil, err
	}
	return &event.BrokenTradeEvent{
		BaseEvent: header(p),
		MatchID:   binary.BigEndian.Uint64(p[11:19]),
	}, nil
}

// readSymbol trims the right-padded 8-byte stock field, dropping non-ASCII bytes.
func readSymbol(b []byte) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r > 0x7e || r == 0 {
			return -1
		}
		return r
	}, string(b)))
}
