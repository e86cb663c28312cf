package quant

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Price4 represents a price multiplied by 10,000 (10^4), as carried on the wire.
// E.g., 150.25 USD = 1,502,500 Price4.
type Price4 uint32

// Nanos represents nanoseconds since midnight in the feed's own clock.
type Nanos uint64

const (
	PriceScale = 10000
	PriceExp   = -4

	NanosPerSecond Nanos = 1_000_000_000
	NanosPerHour   Nanos = 3600 * NanosPerSecond
)

func (p Price4) String() string {
	return fmt.Sprintf("%d.%04d", uint32(p)/PriceScale, uint32(p)%PriceScale)
}

// Decimal converts the fixed-point price to display units without float64.
func (p Price4) Decimal() decimal.Decimal {
	return decimal.New(int64(p), PriceExp)
}

// Hour returns whole hours since midnight.
func (n Nanos) Hour() uint64 {
	return uint64(n / NanosPerHour)
}

func (n Nanos) String() string {
	secs := uint64(n / NanosPerSecond)
	return fmt.Sprintf("%02d:%02d:%02d.%09d", secs/3600, (secs/60)%60, secs%60, uint64(n%NanosPerSecond))
}

// Uint48 reads a 6-byte big-endian unsigned integer (ITCH timestamps).
// The caller guarantees len(b) >= 6.
func Uint48(b []byte) Nanos {
	_ = b[5]
	return Nanos(b[0])<<40 | Nanos(b[1])<<32 | Nanos(b[2])<<24 |
		Nanos(b[3])<<16 | Nanos(b[4])<<8 | Nanos(b[5])
}

// PutUint48 writes n as a 6-byte big-endian integer. Bits above 48 are dropped.
func PutUint48(b []byte, n Nanos) {
	_ = b[5]
	b[0] = byte(n >> 40)
	b[1] = byte(n >> 32)
	b[2] = byte(n >> 24)
	b[3] = byte(n >> 16)
	b[4] = byte(n >> 8)
	b[5] = byte(n)
}
