package credential

import (
	"fmt"
	"strings"
)

// Verification code constants.
const (
	// MinCodeLength is the shortest accepted numeric code.
	MinCodeLength = 4

	// MaxCodeLength is the longest accepted numeric code.
	MaxCodeLength = 12
)

// VerificationCode is a numeric code typed by the user. The string form
// keeps leading zeros.
type VerificationCode string

// ParseVerificationCode normalizes user input into a VerificationCode.
// Spaces and dashes used for grouping ("123-456", "123 456") are removed.
func ParseVerificationCode(s string) (VerificationCode, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)

	if len(s) < MinCodeLength || len(s) > MaxCodeLength {
		return "", fmt.Errorf("%w: must be %d to %d digits", ErrInvalidCode, MinCodeLength, MaxCodeLength)
	}
	for i, c := range s {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: non-digit character at position %d", ErrInvalidCode, i+1)
		}
	}
	return VerificationCode(s), nil
}

// String returns the normalized digits.
func (c VerificationCode) String() string {
	return string(c)
}

// Masked returns the code with all but the last two digits hidden.
func (c VerificationCode) Masked() string {
	if len(c) <= 2 {
		return string(c)
	}
	return strings.Repeat("*", len(c)-2) + string(c[len(c)-2:])
}
