package checkout

import "crypto/rand"

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderToken returns a 16-character random order identifier, unique
// per payment attempt. A retried payment gets a fresh token so the
// provider never sees the same order id twice.
func NewOrderToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; nothing sensible to do but stop.
		panic("checkout: entropy source unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf)
}
