// Package id provides sortable ID and random string generation.
package id

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a ULID (Universally Unique Lexicographically Sortable Identifier).
// Returns a 26-character string: 10 chars timestamp (48-bit ms) + 16 chars random (80-bit).
// Stores use it as the identity of records created without a key.
func NewULID() string {
	var out [26]byte

	ms := uint64(time.Now().UnixMilli())
	for i := 9; i >= 0; i-- {
		out[i] = crockfordBase32[ms&0x1F]
		ms >>= 5
	}

	var entropy [10]byte
	fill(entropy[:])

	// Two 40-bit halves, 8 chars each.
	for h := range 2 {
		var v uint64
		for _, b := range entropy[h*5 : h*5+5] {
			v = v<<8 | uint64(b)
		}
		for i := 7; i >= 0; i-- {
			out[10+h*8+i] = crockfordBase32[v&0x1F]
			v >>= 5
		}
	}

	return string(out[:])
}

// fill reads cryptographic randomness into p, degrading to a time-seeded
// PRNG when the system source is unavailable.
func fill(p []byte) {
	if _, err := rand.Read(p); err == nil {
		return
	}

	var seed [32]byte
	binary.BigEndian.PutUint64(seed[:8], uint64(time.Now().UnixNano()))
	src := mrand.NewChaCha8(seed)
	_, _ = src.Read(p)
}
