package itch

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const readBufferSize = 1 << 16

// Frame is one length-delimited ITCH message. Payload[0] is the message type.
type Frame struct {
	Tag     byte
	Payload []byte
}

// FrameReader pulls [u16 big-endian length][payload] frames from a byte stream.
type FrameReader struct {
	r      *bufio.Reader
	buf    []byte
	offset int64
}

// NewFrameReader wraps r with a buffered frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{
		r:   bufio.NewReaderSize(r, readBufferSize),
		buf: make([]byte, 0, 64),
	}
}

// Next returns the next frame. The payload is only valid until the next call.
//
// It returns io.EOF when the stream ends: no more bytes, a truncated length
// prefix or payload, or a zero length prefix.
func (fr *FrameReader) Next() (Frame, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(fr.r, hdr[:]); err != nil {
		return Frame{}, endOfStream(err)
	}
	size := int(binary.BigEndian.Uint16(hdr[:]))
	if size == 0 {
		return Frame{}, io.EOF
	}

	if cap(fr.buf) < size {
		fr.buf = make([]byte, size)
	}
	payload := fr.buf[:size]
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return Frame{}, endOfStream(err)
	}

	fr.offset += int64(2 + size)
	return Frame{Tag: payload[0], Payload: payload}, nil
}

// Offset returns the number of bytes consumed by complete frames.
func (fr *FrameReader) Offset() int64 {
	return fr.offset
}

func endOfStream(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return fmt.Errorf("read frame: %w", err)
}
