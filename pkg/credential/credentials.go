package credential

import (
	"fmt"
	"strings"
)

// RawCode is an opaque credential payload as scanned or returned by a code
// lookup. It is discarded once decoded.
type RawCode string

// String returns the payload text.
func (c RawCode) String() string {
	return string(c)
}

// UserIdentity identifies the signed-in user. The ID is the decryption
// context for credential payloads; this package never modifies it.
type UserIdentity struct {
	ID string
}

// Present reports whether a user is signed in.
func (u UserIdentity) Present() bool {
	return strings.TrimSpace(u.ID) != ""
}

// Credentials is the structured credential set needed to register a device.
type Credentials struct {
	// DeviceID is the registration ID of the device.
	DeviceID string `json:"deviceId"`

	// ScopeID is the ID scope of the provisioning service instance.
	ScopeID string `json:"scopeId"`

	// DeviceKey is the base64 symmetric key of the device.
	DeviceKey string `json:"deviceKey"`

	// ModelID is the device model announced at registration (may be empty).
	ModelID string `json:"modelId,omitempty"`
}

// Validate checks that the fields required for registration are set.
func (c Credentials) Validate() error {
	var missing []string
	if c.DeviceID == "" {
		missing = append(missing, "deviceId")
	}
	if c.ScopeID == "" {
		missing = append(missing, "scopeId")
	}
	if c.DeviceKey == "" {
		missing = append(missing, "deviceKey")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// String returns a redacted representation safe for logs.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{device=%s scope=%s model=%s key=<redacted>}",
		c.DeviceID, c.ScopeID, c.ModelID)
}
