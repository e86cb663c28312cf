package event

import (
	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

// Type defines the type of event.
type Type uint8

const (
	EvSystem Type = iota + 1
	EvStockDirectory
	EvAddOrder
	EvOrderExecuted
	EvOrderExecutedWithPrice
	EvOrderCancel
	EvOrderDelete
	EvOrderReplace
	EvTrade
	EvCrossTrade
	EvBrokenTrade
)

// String returns the string representation of Type
func (t Type) String() string {
	switch t {
	case EvSystem:
		return "SYSTEM"
	case EvStockDirectory:
		return "STOCK_DIRECTORY"
	case EvAddOrder:
		return "ADD_ORDER"
	case EvOrderExecuted:
		return "ORDER_EXECUTED"
	case EvOrderExecutedWithPrice:
		return "ORDER_EXECUTED_WITH_PRICE"
	case EvOrderCancel:
		return "ORDER_CANCEL"
	case EvOrderDelete:
		return "ORDER_DELETE"
	case EvOrderReplace:
		return "ORDER_REPLACE"
	case EvTrade:
		return "TRADE"
	case EvCrossTrade:
		return "CROSS_TRADE"
	case EvBrokenTrade:
		return "BROKEN_TRADE"
	default:
		return "UNKNOWN"
	}
}

// Wire-level flag values.
const (
	SideBuy  byte = 'B'
	SideSell byte = 'S'

	PrintableNo byte = 'N'

	SysStartOfMessages    byte = 'O'
	SysStartOfSystemHours byte = 'S'
	SysStartOfMarketHours byte = 'Q'
	SysEndOfMarketHours   byte = 'M'
	SysEndOfSystemHours   byte = 'E'
	SysEndOfMessages      byte = 'C'
)

// Event is the interface for all decoded feed messages.
type Event interface {
	GetType() Type
	GetTs() quant.Nanos
	GetLocate() uint16
}

// BaseEvent contains the header fields every ITCH message carries.
type BaseEvent struct {
	Locate uint16      `json:"locate"`
	Ts     quant.Nanos `json:"ts"`
}

func (e BaseEvent) GetTs() quant.Nanos { return e.Ts }
func (e BaseEvent) GetLocate() uint16  { return e.Locate }

// SystemEvent signals a session phase change ('C' ends the feed).
type SystemEvent struct {
	BaseEvent
	Code byte `json:"code"`
}

func (e SystemEvent) GetType() Type { return EvSystem }

// StockDirectoryEvent binds a locate to its ticker symbol.
type StockDirectoryEvent struct {
	BaseEvent
	Symbol string `json:"symbol"`
}

func (e StockDirectoryEvent) GetType() Type { return EvStockDirectory }

// AddOrderEvent is decoded from both 'A' and 'F' messages.
type AddOrderEvent struct {
	BaseEvent
	OrderRef uint64       `json:"order_ref"`
	Side     byte         `json:"side"`
	Shares   uint32       `json:"shares"`
	Price    quant.Price4 `json:"price"`
}

func (e AddOrderEvent) GetType() Type { return EvAddOrder }

type OrderExecutedEvent struct {
	BaseEvent
	OrderRef uint64 `json:"order_ref"`
	Executed uint32 `json:"executed"`
	MatchID  uint64 `json:"match_id"`
}

func (e OrderExecutedEvent) GetType() Type { return EvOrderExecuted }

type OrderExecutedWithPriceEvent struct {
	BaseEvent
	OrderRef  uint64       `json:"order_ref"`
	Executed  uint32       `json:"executed"`
	MatchID   uint64       `json:"match_id"`
	Printable byte         `json:"printable"`
	Price     quant.Price4 `json:"price"`
}

func (e OrderExecutedWithPriceEvent) GetType() Type { return EvOrderExecutedWithPrice }

type OrderCancelEvent struct {
	BaseEvent
	OrderRef uint64 `json:"order_ref"`
	Canceled uint32 `json:"canceled"`
}

func (e OrderCancelEvent) GetType() Type { return EvOrderCancel }

type OrderDeleteEvent struct {
	BaseEvent
	OrderRef uint64 `json:"order_ref"`
}

func (e OrderDeleteEvent) GetType() Type { return EvOrderDelete }

type OrderReplaceEvent struct {
	BaseEvent
	OldRef uint64       `json:"old_ref"`
	NewRef uint64       `json:"new_ref"`
	Shares uint32       `json:"shares"`
	Price  quant.Price4 `json:"price"`
}

func (e OrderReplaceEvent) GetType() Type { return EvOrderReplace }

// TradeEvent is a non-cross trade against a non-displayed order.
type TradeEvent struct {
	BaseEvent
	Side    byte         `json:"side"`
	Shares  uint32       `json:"shares"`
	Price   quant.Price4 `json:"price"`
	MatchID uint64       `json:"match_id"`
}

func (e TradeEvent) GetType() Type { return EvTrade }

// CrossTradeEvent carries 64-bit share counts.
type CrossTradeEvent struct {
	BaseEvent
	Shares  uint64       `json:"shares"`
	Price   quant.Price4 `json:"price"`
	MatchID uint64       `json:"match_id"`
}

func (e CrossTradeEvent) GetType() Type { return EvCrossTrade }

type BrokenTradeEvent struct {
	BaseEvent
	MatchID uint64 `json:"match_id"`
}

func (e BrokenTradeEvent) GetType() Type { return EvBrokenTrade }
