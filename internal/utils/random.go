package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// NewUUID returns a time-ordered UUID string, falling back to a random one
// if the monotonic source is unavailable.
func NewUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// NewSessionToken mints an opaque, unguessable session token.
func NewSessionToken() string {
	return uuid.NewString()
}

// NewNumericCode returns a human-typable numeric code of the given number
// of digits, zero-padded, from a cryptographic source.
func NewNumericCode(digits int) string {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		panic(err)
	}

	code := n.String()
	for len(code) < digits {
		code = "0" + code
	}

	return code
}
