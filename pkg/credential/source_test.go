package credential

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubLookup struct {
	payload RawCode
	err     error
	calls   int
	got     VerificationCode
}

func (s *stubLookup) Exchange(_ context.Context, code VerificationCode) (RawCode, error) {
	s.calls++
	s.got = code
	return s.payload, s.err
}

func TestAcquireNumeric(t *testing.T) {
	lookup := &stubLookup{payload: "payload"}
	src := NewSource(lookup)

	raw, err := src.Acquire(context.Background(), Numeric{Code: "123-456"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != "payload" {
		t.Errorf("Acquire() = %q, want %q", raw, "payload")
	}
	if lookup.got != "123456" {
		t.Errorf("lookup got code %q, want normalized %q", lookup.got, "123456")
	}
}

func TestAcquireNumericFailures(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		lookup    *stubLookup
		wantCalls int
	}{
		{"InvalidCode", "12ab", &stubLookup{payload: "p"}, 0},
		{"UnknownCode", "123456", &stubLookup{err: errors.New("not found")}, 1},
		{"EmptyPayload", "123456", &stubLookup{payload: "  "}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.lookup).Acquire(context.Background(), Numeric{Code: tt.code})
			if !errors.Is(err, ErrLookup) {
				t.Errorf("Acquire() error = %v, want ErrLookup", err)
			}
			if tt.lookup.calls != tt.wantCalls {
				t.Errorf("lookup calls = %d, want %d", tt.lookup.calls, tt.wantCalls)
			}
		})
	}
}

func TestAcquireNumericMasksRejectedInput(t *testing.T) {
	lookup := &stubLookup{payload: "p"}
	_, err := NewSource(lookup).Acquire(context.Background(), Numeric{Code: " secret-pin-42 "})

	var lerr *LookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("Acquire() error = %v, want *LookupError", err)
	}
	if lerr.Code != "***********42" {
		t.Errorf("LookupError.Code = %q, want masked input", lerr.Code)
	}
	if strings.Contains(err.Error(), "secret") || strings.Contains(err.Error(), "'s'") {
		t.Errorf("error text leaks input: %v", err)
	}
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Acquire() error = %v, want ErrInvalidCode", err)
	}
	if lookup.calls != 0 {
		t.Errorf("lookup calls = %d, want 0", lookup.calls)
	}
}

func TestAcquireNumericWithoutLookup(t *testing.T) {
	_, err := NewSource(nil).Acquire(context.Background(), Numeric{Code: "123456"})
	if !errors.Is(err, ErrLookup) {
		t.Errorf("Acquire() error = %v, want ErrLookup", err)
	}
}

func TestAcquireScanned(t *testing.T) {
	lookup := &stubLookup{}
	src := NewSource(lookup)

	raw, err := src.Acquire(context.Background(), Scanned{Payload: "  IOTC:1:abc \n"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if raw != "IOTC:1:abc" {
		t.Errorf("Acquire() = %q, want trimmed payload", raw)
	}
	if lookup.calls != 0 {
		t.Errorf("scan path called lookup %d times", lookup.calls)
	}

	if _, err := src.Acquire(context.Background(), Scanned{}); !errors.Is(err, ErrDecode) {
		t.Errorf("Acquire(empty scan) error = %v, want ErrDecode", err)
	}
}

func TestAcquireSimulated(t *testing.T) {
	_, err := NewSource(&stubLookup{}).Acquire(context.Background(), Simulated{})
	if !errors.Is(err, ErrSimulated) {
		t.Errorf("Acquire(Simulated) error = %v, want ErrSimulated", err)
	}
}

func TestAcquireNilMethod(t *testing.T) {
	if _, err := NewSource(nil).Acquire(context.Background(), nil); err == nil {
		t.Error("Acquire(nil) succeeded, want error")
	}
}
