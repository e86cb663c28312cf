package itch

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DigestFile returns the hex BLAKE3-256 digest of a feed file. Archived
// snapshots carry it so outputs can be traced back to the exact input.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	var sum [32]byte
	hasher.Sum(sum[:0])
	return hex.EncodeToString(sum[:]), nil
}
