package iotc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSASToken(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("secret-device-key"))
	expiry := time.Unix(1700000000, 0)

	token, err := SASToken("0ne001/registrations/dev-1", key, expiry)
	if err != nil {
		t.Fatalf("SASToken failed: %v", err)
	}

	if !strings.HasPrefix(token, "SharedAccessSignature ") {
		t.Fatalf("token = %q, want SharedAccessSignature prefix", token)
	}

	values, err := url.ParseQuery(strings.TrimPrefix(token, "SharedAccessSignature "))
	if err != nil {
		t.Fatalf("token fields unparsable: %v", err)
	}
	if got := values.Get("sr"); got != "0ne001/registrations/dev-1" {
		t.Errorf("sr = %q, want resource URI", got)
	}
	if got := values.Get("se"); got != "1700000000" {
		t.Errorf("se = %q, want 1700000000", got)
	}
	if got := values.Get("skn"); got != "registration" {
		t.Errorf("skn = %q, want registration", got)
	}

	mac := hmac.New(sha256.New, []byte("secret-device-key"))
	mac.Write([]byte(url.QueryEscape("0ne001/registrations/dev-1") + "\n1700000000"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if got := values.Get("sig"); got != want {
		t.Errorf("sig = %q, want %q", got, want)
	}
}

func TestSASTokenInvalidKey(t *testing.T) {
	if _, err := SASToken("r", "%%%not-base64", time.Now()); err == nil {
		t.Error("SASToken() succeeded with invalid key")
	}
}

func TestDeriveDeviceKey(t *testing.T) {
	group := base64.StdEncoding.EncodeToString([]byte("group-key"))

	k1, err := DeriveDeviceKey(group, "dev-1")
	if err != nil {
		t.Fatalf("DeriveDeviceKey failed: %v", err)
	}
	k2, _ := DeriveDeviceKey(group, "dev-2")
	again, _ := DeriveDeviceKey(group, "dev-1")

	if k1 == k2 {
		t.Error("different devices derived the same key")
	}
	if k1 != again {
		t.Error("derivation is not deterministic")
	}
	if _, err := base64.StdEncoding.DecodeString(k1); err != nil {
		t.Errorf("derived key is not base64: %v", err)
	}
}

func TestPollSchedule(t *testing.T) {
	p := newPollSchedule(100*time.Millisecond, 400*time.Millisecond)
	p.jitter = 0

	want := []time.Duration{100, 200, 400, 400}
	for i, w := range want {
		if got := p.next(0); got != w*time.Millisecond {
			t.Errorf("next() #%d = %v, want %v", i, got, w*time.Millisecond)
		}
	}

	if got := p.next(250 * time.Millisecond); got != 250*time.Millisecond {
		t.Errorf("next(hint) = %v, want hint", got)
	}
	if got := p.next(time.Hour); got != 400*time.Millisecond {
		t.Errorf("next(large hint) = %v, want capped 400ms", got)
	}
}

func TestLogLevelString(t *testing.T) {
	if LogLevelAll.String() != "ALL" {
		t.Errorf("LogLevelAll.String() = %q", LogLevelAll.String())
	}
	if LogLevel(42).String() != "UNKNOWN" {
		t.Errorf("LogLevel(42).String() = %q", LogLevel(42).String())
	}
}
