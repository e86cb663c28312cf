package itch

import (
	"fmt"
	"io"

	"github.com/cerdo03/VWAP-NASDAQ/internal/event"
)

// Feed decodes events from a framed ITCH byte stream.
type Feed struct {
	frames *FrameReader
	count  uint64
}

// NewFeed creates a feed over r.
func NewFeed(r io.Reader) *Feed {
	return &Feed{frames: NewFrameReader(r)}
}

// Next returns the next decoded event.
//
// (nil, nil) means the frame carried a message type with no semantics here.
// Recoverable decode errors are wrapped with the frame number; io.EOF ends the feed.
func (f *Feed) Next() (event.Event, error) {
	frame, err := f.frames.Next()
	if err != nil {
		return nil, err
	}
	f.count++

	ev, err := Decode(frame.Payload)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", f.count, err)
	}
	return ev, nil
}

// Offset returns the bytes consumed so far.
func (f *Feed) Offset() int64 {
	return f.frames.Offset()
}

// Frames returns the number of frames read so far.
func (f *Feed) Frames() uint64 {
	return f.count
}
