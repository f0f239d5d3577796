package service

import (
	"crypto/rand"
	"encoding/hex"
)

// newID returns a random URL-safe hex identifier, used for session ids and
// checklist share slugs.
func newID(bytes int) string {
	b := make([]byte, bytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
