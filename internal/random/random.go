// internal/random/random.go
//
// Random sources for question selection.
//   - New: a PCG generator seeded from crypto/rand, used for normal play.
//   - Daily: a PCG generator seeded from HMAC(salt, YYYY-MM-DD), so every
//     session started on the same UTC day draws the same questions.
//
// Generators are not safe for concurrent use; each session owns its own.

package random

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"
)

// New returns a generator seeded with 128 bits from crypto/rand.
func New() (*rand.Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	)), nil
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Daily returns a generator that is deterministic for the UTC date of t and salt.
func Daily(t time.Time, salt string) *rand.Rand {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))
}
