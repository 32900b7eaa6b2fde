package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// inviteCodeAlphabet avoids ambiguous characters (0/O, 1/I/L).
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewInviteCode returns a short human-enterable invitation code.
func NewInviteCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive")
	}

	var sb strings.Builder
	sb.Grow(length)
	bound := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, bound)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		sb.WriteByte(inviteCodeAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// NewNumericCode returns a zero-padded numeric code of the given length,
// e.g. a 6-digit email verification code.
func NewNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("digits must be in 1..18")
	}

	bound := big.NewInt(1)
	for i := 0; i < digits; i++ {
		bound.Mul(bound, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("read random number: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
