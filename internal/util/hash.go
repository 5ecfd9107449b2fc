// Package util provides shared utility functions.
package util

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// BlobID computes a short fingerprint of a relayed text blob. Line endings
// and per-line whitespace are ignored, so the caller's copy and the pasted
// copy on the other side produce the same ID even after a terminal has
// rewritten CRLF to LF. It is used solely for display.
func BlobID(text string) string {
	h := fnv.New32a()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%08x", h.Sum32())
}
