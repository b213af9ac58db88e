package codeserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotc-provision/provision-go/pkg/credential"
)

func newTestStore(t *testing.T, now *time.Time) *CodeStore {
	t.Helper()
	s, err := NewCodeStore(6)
	require.NoError(t, err)
	s.now = func() time.Time { return *now }
	return s
}

func TestNewCodeStoreRejectsDigits(t *testing.T) {
	_, err := NewCodeStore(credential.MinCodeLength - 1)
	assert.Error(t, err)
	_, err = NewCodeStore(credential.MaxCodeLength + 1)
	assert.Error(t, err)
}

func TestCodeStoreIssueRedeem(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, &now)

	code, expires, err := s.Issue("payload", time.Minute)
	require.NoError(t, err)
	assert.Len(t, code.String(), 6)
	assert.Equal(t, now.Add(time.Minute), expires)

	_, err = credential.ParseVerificationCode(code.String())
	require.NoError(t, err, "issued code must parse as a verification code")

	payload, err := s.Redeem(code)
	require.NoError(t, err)
	assert.Equal(t, credential.RawCode("payload"), payload)

	_, err = s.Redeem(code)
	assert.ErrorIs(t, err, ErrUnknownCode, "codes are single use")
	assert.Equal(t, 0, s.Len())
}

func TestCodeStoreExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, &now)

	code, _, err := s.Issue("payload", time.Minute)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Redeem(code)
	assert.ErrorIs(t, err, ErrExpiredCode)

	_, err = s.Redeem(code)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestCodeStoreSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, &now)

	_, _, err := s.Issue("a", time.Minute)
	require.NoError(t, err)
	_, _, err = s.Issue("b", 3*time.Hour)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 0, s.Sweep(), "recently expired codes are kept")

	now = now.Add(time.Hour)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}
