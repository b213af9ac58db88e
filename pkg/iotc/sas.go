package iotc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultTokenTTL is the validity of registration SAS tokens.
const DefaultTokenTTL = time.Hour

// registrationKeyName is the policy name the service expects for
// individual device registrations.
const registrationKeyName = "registration"

// SASToken builds a SharedAccessSignature for resourceURI signed with the
// base64-encoded key, valid until expiry.
func SASToken(resourceURI, key string, expiry time.Time) (string, error) {
	rawKey, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("invalid device key: %w", err)
	}

	sr := url.QueryEscape(resourceURI)
	se := strconv.FormatInt(expiry.Unix(), 10)

	mac := hmac.New(sha256.New, rawKey)
	mac.Write([]byte(sr + "\n" + se))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("SharedAccessSignature sr=%s&sig=%s&se=%s&skn=%s",
		sr, url.QueryEscape(sig), se, registrationKeyName), nil
}

// DeriveDeviceKey computes a device key from an enrollment group key, as
// HMAC-SHA256(groupKey, deviceID).
func DeriveDeviceKey(groupKey, deviceID string) (string, error) {
	rawKey, err := base64.StdEncoding.DecodeString(groupKey)
	if err != nil {
		return "", fmt.Errorf("invalid group key: %w", err)
	}
	mac := hmac.New(sha256.New, rawKey)
	mac.Write([]byte(deviceID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
