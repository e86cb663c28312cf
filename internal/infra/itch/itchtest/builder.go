// Package itchtest encodes ITCH 5.0 messages for tests.
package itchtest

import (
	"bytes"
	"encoding/binary"

	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

// Frame prefixes payload with its big-endian u16 length.
func Frame(payload []byte) []byte {
	out := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(out, uint16(len(payload)))
	copy(out[2:], payload)
	return out
}

// Stream frames and concatenates payloads.
func Stream(payloads ...[]byte) []byte {
	var buf bytes.Buffer
	for _, p := range payloads {
		buf.Write(Frame(p))
	}
	return buf.Bytes()
}

func header(size int, tag byte, locate uint16, ts quant.Nanos) []byte {
	p := make([]byte, size)
	p[0] = tag
	binary.BigEndian.PutUint16(p[1:3], locate)
	quant.PutUint48(p[5:11], ts)
	return p
}

func putStock(b []byte, symbol string) {
	copy(b, "        ")
	copy(b, symbol)
}

// SystemEvent encodes 'S'.
func SystemEvent(ts quant.Nanos, code byte) []byte {
	p := header(12, 'S', 0, ts)
	p[11] = code
	return p
}

// StockDirectory encodes 'R'. Fields after the symbol are left zero.
func StockDirectory(locate uint16, symbol string) []byte {
	p := header(39, 'R', locate, 0)
	putStock(p[11:19], symbol)
	return p
}

// AddOrder encodes 'A'.
func AddOrder(locate uint16, ts quant.Nanos, ref uint64, side byte, shares uint32, symbol string, price quant.Price4) []byte {
	p := header(36, 'A', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], ref)
	p[19] = side
	binary.BigEndian.PutUint32(p[20:24], shares)
	putStock(p[24:32], symbol)
	binary.BigEndian.PutUint32(p[32:36], uint32(price))
	return p
}

// AddOrderMPID encodes 'F' with a four byte attribution.
func AddOrderMPID(locate uint16, ts quant.Nanos, ref uint64, side byte, shares uint32, symbol string, price quant.Price4, mpid string) []byte {
	a := AddOrder(locate, ts, ref, side, shares, symbol, price)
	p := make([]byte, 40)
	copy(p, a)
	p[0] = 'F'
	copy(p[36:40], "    ")
	copy(p[36:40], mpid)
	return p
}

// OrderExecuted encodes 'E'.
func OrderExecuted(locate uint16, ts quant.Nanos, ref uint64, executed uint32, match uint64) []byte {
	p := header(31, 'E', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], ref)
	binary.BigEndian.PutUint32(p[19:23], executed)
	binary.BigEndian.PutUint64(p[23:31], match)
	return p
}

// OrderExecutedWithPrice encodes 'C'.
func OrderExecutedWithPrice(locate uint16, ts quant.Nanos, ref uint64, executed uint32, match uint64, printable byte, price quant.Price4) []byte {
	p := header(36, 'C', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], ref)
	binary.BigEndian.PutUint32(p[19:23], executed)
	binary.BigEndian.PutUint64(p[23:31], match)
	p[31] = printable
	binary.BigEndian.PutUint32(p[32:36], uint32(price))
	return p
}

// OrderCancel encodes 'X'.
func OrderCancel(locate uint16, ts quant.Nanos, ref uint64, canceled uint32) []byte {
	p := header(23, 'X', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], ref)
	binary.BigEndian.PutUint32(p[19:23], canceled)
	return p
}

// OrderDelete encodes 'D'.
func OrderDelete(locate uint16, ts quant.Nanos, ref uint64) []byte {
	p := header(19, 'D', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], ref)
	return p
}

// OrderReplace encodes 'U'.
func OrderReplace(locate uint16, ts quant.Nanos, oldRef, newRef uint64, shares uint32, price quant.Price4) []byte {
	p := header(35, 'U', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], oldRef)
	binary.BigEndian.PutUint64(p[19:27], newRef)
	binary.BigEndian.PutUint32(p[27:31], shares)
	binary.BigEndian.PutUint32(p[31:35], uint32(price))
	return p
}

// Trade encodes 'P'. The order reference field is left zero.
func Trade(locate uint16, ts quant.Nanos, side byte, shares uint32, symbol string, price quant.Price4, match uint64) []byte {
	p := header(44, 'P', locate, ts)
	p[19] = side
	binary.BigEndian.PutUint32(p[20:24], shares)
	putStock(p[24:32], symbol)
	binary.BigEndian.PutUint32(p[32:36], uint32(price))
	binary.BigEndian.PutUint64(p[36:44], match)
	return p
}

// CrossTrade encodes 'Q' with cross type 'O'.
func CrossTrade(locate uint16, ts quant.Nanos, shares uint64, symbol string, price quant.Price4, match uint64) []byte {
	p := header(40, 'Q', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], shares)
	putStock(p[19:27], symbol)
	binary.BigEndian.PutUint32(p[27:31], uint32(price))
	binary.BigEndian.PutUint64(p[31:39], match)
	p[39] = 'O'
	return p
}

// BrokenTrade encodes 'B'.
func BrokenTrade(locate uint16, ts quant.Nanos, match uint64) []byte {
	p := header(19, 'B', locate, ts)
	binary.BigEndian.PutUint64(p[11:19], match)
	return p
}
