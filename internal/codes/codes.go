// Package codes generates the short human-enterable codes used for group
// join codes and bill session codes.
//
// Generation is uniform over 36^6 combinations and makes no attempt at
// collision avoidance: uniqueness comes from the store's unique index, and
// callers regenerate and retry on conflict. The retry loop is unbounded and
// has no backoff; with the expected number of live codes the collision
// probability is astronomically small, but under pathological exhaustion of
// the code space the loop never terminates.
package codes

import "crypto/rand"

// Alphabet is the symbol set codes are drawn from: uppercase letters and digits.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the fixed code length.
const Length = 6

// Generate returns a fresh random code of Length characters from Alphabet.
func Generate() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform's entropy source is
		// broken; nothing sensible to return.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf)
}
