package codeserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/iotc-provision/provision-go/pkg/credential"
)

// Store errors.
var (
	ErrUnknownCode = errors.New("unknown code")
	ErrExpiredCode = errors.New("code expired")
	ErrStoreFull   = errors.New("no free code available")
)

// maxIssueAttempts bounds the retries on code collisions.
const maxIssueAttempts = 16

type entry struct {
	payload credential.RawCode
	expires time.Time
}

// CodeStore maps numeric codes to sealed payloads.
type CodeStore struct {
	mu      sync.Mutex
	digits  int
	entries map[string]entry
	now     func() time.Time
}

// NewCodeStore creates a store issuing codes with the given number of digits.
func NewCodeStore(digits int) (*CodeStore, error) {
	if digits < credential.MinCodeLength || digits > credential.MaxCodeLength {
		return nil, fmt.Errorf("code digits must be %d to %d, got %d",
			credential.MinCodeLength, credential.MaxCodeLength, digits)
	}
	return &CodeStore{
		digits:  digits,
		entries: make(map[string]entry),
		now:     time.Now,
	}, nil
}

// Issue stores payload under a fresh code valid for ttl.
func (s *CodeStore) Issue(payload credential.RawCode, ttl time.Duration) (credential.VerificationCode, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	for range maxIssueAttempts {
		code, err := randomDigits(s.digits)
		if err != nil {
			return "", time.Time{}, err
		}
		if _, taken := s.entries[code]; taken {
			continue
		}
		expires := now.Add(ttl)
		s.entries[code] = entry{payload: payload, expires: expires}
		return credential.VerificationCode(code), expires, nil
	}
	return "", time.Time{}, ErrStoreFull
}

// Redeem returns the payload for code and forgets it.
func (s *CodeStore) Redeem(code credential.VerificationCode) (credential.RawCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[code.String()]
	if !ok {
		return "", ErrUnknownCode
	}
	delete(s.entries, code.String())
	if !s.now().Before(e.expires) {
		return "", ErrExpiredCode
	}
	return e.payload, nil
}

// Sweep drops expired codes and returns how many were removed.
func (s *CodeStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Len returns the number of outstanding codes.
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweepLocked keeps expired entries that are still within one hour so a late
// redeem reports "expired" instead of "unknown".
func (s *CodeStore) sweepLocked(now time.Time) int {
	n := 0
	for code, e := range s.entries {
		if now.Sub(e.expires) > time.Hour {
			delete(s.entries, code)
			n++
		}
	}
	return n
}

func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
