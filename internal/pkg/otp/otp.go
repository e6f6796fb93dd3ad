// Package otp generates the short numeric codes sent over email.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpace = 1000000

// NewCode returns a uniformly random, zero-padded 6-digit code.
func NewCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		// crypto/rand only fails if the platform source is broken
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
