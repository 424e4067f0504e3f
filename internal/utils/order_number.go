package utils

import (
	"crypto/rand"
	"time"
)

// Crockford base32 without I, L, O and U so codes survive being read aloud.
const orderNumberAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const orderNumberSuffixLen = 6

// GenerateOrderNumber returns a short display code such as PP-260114-7KQ2ZD.
// The order uuid remains the reference sent to the payment provider.
func GenerateOrderNumber() string {
	return orderNumberAt(time.Now())
}

func orderNumberAt(t time.Time) string {
	buf := make([]byte, orderNumberSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return "PP-" + t.UTC().Format("060102") + "-" + string(buf)
}
