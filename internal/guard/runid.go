package guard

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRunID returns a short random identifier for one guard invocation.
func NewRunID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
