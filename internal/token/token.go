// Package token generates opaque session tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	// entropyBytes is the amount of randomness per token. 48 bytes is
	// 384 bits, comfortably above the 256-bit floor for an
	// unguessable bearer credential.
	entropyBytes = 48

	// Length is the character width of a generated token.
	Length = entropyBytes * 2
)

// Generate returns a new hex-encoded opaque token. Tokens carry no
// structure and are never derived from timestamps, counters or user
// data; they exist purely as high-entropy lookup keys.
//
// An unavailable entropy source is a fatal condition, not a per-call
// recoverable error, so Generate panics instead of returning one.
func Generate() string {
	b := make([]byte, entropyBytes)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to read from entropy source: %v", err))
	}
	return hex.EncodeToString(b)
}
