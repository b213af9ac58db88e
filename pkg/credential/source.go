package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CodeLookup exchanges a numeric code for a credential payload.
type CodeLookup interface {
	Exchange(ctx context.Context, code VerificationCode) (RawCode, error)
}

// Source obtains raw payloads for each acquisition method.
type Source struct {
	lookup CodeLookup
}

// NewSource creates a Source. A nil lookup makes every numeric
// acquisition fail with a LookupError.
func NewSource(lookup CodeLookup) *Source {
	return &Source{lookup: lookup}
}

// Acquire returns the raw payload for the method. Each call yields at
// most one payload.
func (s *Source) Acquire(ctx context.Context, m Method) (RawCode, error) {
	switch m := m.(type) {
	case Numeric:
		return s.exchange(ctx, m.Code)
	case Scanned:
		payload := strings.TrimSpace(m.Payload)
		if payload == "" {
			return "", decodeErr("empty scan", nil)
		}
		return RawCode(payload), nil
	case Simulated:
		return "", ErrSimulated
	case nil:
		return "", errors.New("credential: nil method")
	default:
		return "", fmt.Errorf("credential: unsupported method %T", m)
	}
}

func (s *Source) exchange(ctx context.Context, input string) (RawCode, error) {
	code, err := ParseVerificationCode(input)
	if err != nil {
		return "", &LookupError{Code: VerificationCode(strings.TrimSpace(input)).Masked(), Err: err}
	}
	if s.lookup == nil {
		return "", &LookupError{Code: code.Masked(), Err: errors.New("no lookup service configured")}
	}

	raw, err := s.lookup.Exchange(ctx, code)
	if err != nil {
		return "", &LookupError{Code: code.Masked(), Err: err}
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", &LookupError{Code: code.Masked(), Err: errors.New("empty payload")}
	}
	return raw, nil
}
