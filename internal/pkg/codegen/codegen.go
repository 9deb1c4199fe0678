// Package codegen produces the plaintext one-time codes handed to callers.
//
// Codes are fixed at six decimal digits with a non-zero leading digit. The
// random source is crypto/rand; code unpredictability is a security property,
// not a convenience.
package codegen

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	codeMin   = 100000
	codeSpace = 900000
)

// Generator draws a fresh one-time code.
type Generator interface {
	// Generate returns a 6-digit decimal code or an error if the random
	// source fails.
	Generate() (string, error)
}

// Numeric generates uniform 6-digit codes in [100000, 999999].
type Numeric struct{}

// NewNumeric returns a Numeric code generator.
func NewNumeric() *Numeric {
	return &Numeric{}
}

// Generate draws a code uniformly from the 900,000-value space.
func (*Numeric) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}
