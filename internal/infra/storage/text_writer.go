package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
)

// TextWriter writes each snapshot to <dir>/<label>.txt, one "<symbol> <vwap>"
// line per instrument. A later snapshot with the same label overwrites the file.
type TextWriter struct {
	dir string
}

var _ domain.SnapshotPublisher = (*TextWriter)(nil)

// NewTextWriter creates dir if needed.
func NewTextWriter(dir string) (*TextWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &TextWriter{dir: dir}, nil
}

// Path returns the file a snapshot with label is written to.
func (w *TextWriter) Path(label uint64) string {
	return filepath.Join(w.dir, strconv.FormatUint(label, 10)+".txt")
}

// Publish writes snap. Rows are expected in symbol order.
func (w *TextWriter) Publish(_ context.Context, snap domain.Snapshot) error {
	var sb strings.Builder
	for _, row := range snap.Rows {
		sb.WriteString(row.String())
		sb.WriteByte('\n')
	}

	path := w.Path(snap.Label)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}
