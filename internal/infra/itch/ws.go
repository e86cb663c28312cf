package itch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	closeGrace       = time.Second
)

// WSReader exposes the binary messages of a websocket feed as one byte
// stream, so the same FrameReader serves files and live sessions.
// Text messages (control/acks) are skipped.
type WSReader struct {
	conn    *websocket.Conn
	pending []byte
	once    sync.Once
}

var _ io.ReadCloser = (*WSReader)(nil)

// DialWebsocket connects to url, retrying with exponential backoff up to
// maxTries attempts. Once connected, a dropped session ends the stream: a
// reconnect would resume mid-day with a book that missed messages.
func DialWebsocket(ctx context.Context, url string, maxTries int) (*WSReader, error) {
	if maxTries < 1 {
		maxTries = 1
	}
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	bo := backoff.NewExponentialBackOff()

	for attempt := 1; ; attempt++ {
		conn, _, err := dialer.DialContext(ctx, url, nil)
		if err == nil {
			slog.Info("ITCH websocket connected", slog.String("url", url), slog.Int("attempt", attempt))
			return &WSReader{conn: conn}, nil
		}
		if attempt >= maxTries {
			return nil, fmt.Errorf("dial %s after %d attempts: %w", url, attempt, err)
		}

		delay := bo.NextBackOff()
		slog.Warn("ITCH websocket dial failed",
			slog.String("url", url),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Read implements io.Reader over consecutive binary messages.
func (r *WSReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		msgType, data, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("websocket read: %w", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		r.pending = data
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Close sends a normal closure and releases the connection.
func (r *WSReader) Close() error {
	var err error
	r.once.Do(func() {
		_ = r.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace))
		err = r.conn.Close()
	})
	return err
}
