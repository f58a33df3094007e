package utils

import (
	"crypto/rand"
	"strings"
)

// OrderNumberAlphabet excludes 0/1/O/I to keep order numbers unambiguous
// when read over the phone.
const OrderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomString returns n random characters drawn from charset.
func RandomString(n int, charset string) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(err)
	}
	var result strings.Builder
	for _, v := range b {
		result.WriteByte(charset[int(v)%len(charset)])
	}
	return result.String()
}
