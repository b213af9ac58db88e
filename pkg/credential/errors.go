package credential

import (
	"errors"
	"fmt"
)

// Credential errors.
var (
	// ErrLookup is matched by every *LookupError.
	ErrLookup = errors.New("code lookup failed")

	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("credential decode failed")

	// ErrSimulated is returned by Acquire for the simulated method,
	// which has no payload.
	ErrSimulated = errors.New("simulated method has no payload")

	// ErrInvalidCode is returned when a typed code is not a numeric code.
	ErrInvalidCode = errors.New("invalid verification code")
)

// LookupError reports a numeric code that could not be resolved to a payload.
type LookupError struct {
	Code string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: code %q", ErrLookup, e.Code)
	}
	return fmt.Sprintf("%v: code %q: %v", ErrLookup, e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLookup) hold for any LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// DecodeError reports a payload that could not be decrypted or parsed for
// the given identity.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrDecode, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %v", ErrDecode, e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) hold for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeErr(reason string, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}
