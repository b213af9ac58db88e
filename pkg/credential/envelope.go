package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Envelope format constants.
const (
	// EnvelopeVersion is the current payload format version.
	EnvelopeVersion = 1

	// URIPrefix is the optional scheme prefix carried by QR codes.
	URIPrefix = "IOTC:"

	envelopeInfo = "iotc-credentials-v1"
)

var envelopeEncoding = base64.RawURLEncoding

// Decoder turns a raw payload into credentials for the given user.
type Decoder interface {
	Decode(raw RawCode, user UserIdentity) (Credentials, error)
}

// EnvelopeDecoder decodes sealed credential envelopes.
// It is stateless and safe for concurrent use.
type EnvelopeDecoder struct{}

// NewEnvelopeDecoder returns the default Decoder.
func NewEnvelopeDecoder() EnvelopeDecoder {
	return EnvelopeDecoder{}
}

// Decode opens the envelope with a key derived from the user ID and parses
// the credentials inside. Every failure is a *DecodeError.
func (EnvelopeDecoder) Decode(raw RawCode, user UserIdentity) (Credentials, error) {
	if !user.Present() {
		return Credentials{}, decodeErr("no user identity", nil)
	}

	body, err := stripPrefix(strings.TrimSpace(string(raw)))
	if err != nil {
		return Credentials{}, err
	}

	data, err := envelopeEncoding.DecodeString(body)
	if err != nil {
		return Credentials{}, decodeErr("malformed encoding", err)
	}
	if len(data) < 1+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return Credentials{}, decodeErr("payload too short", nil)
	}
	if data[0] != EnvelopeVersion {
		return Credentials{}, decodeErr(fmt.Sprintf("unsupported version %d", data[0]), nil)
	}

	key, err := deriveKey(user)
	if err != nil {
		return Credentials{}, decodeErr("key derivation", err)
	}
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Credentials{}, decodeErr("cipher setup", err)
	}

	nonce := data[1 : 1+chacha20poly1305.NonceSizeX]
	ciphertext := data[1+chacha20poly1305.NonceSizeX:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte{EnvelopeVersion})
	if err != nil {
		// Wrong user or tampered payload; the AEAD cannot tell which.
		return Credentials{}, decodeErr("authentication failed", nil)
	}

	var creds Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return Credentials{}, decodeErr("malformed credentials", err)
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, decodeErr("incomplete credentials", err)
	}
	return creds, nil
}

// Seal encrypts credentials for the given user. The result is accepted by
// EnvelopeDecoder.Decode for the same user only.
func Seal(creds Credentials, user UserIdentity) (RawCode, error) {
	if !user.Present() {
		return "", fmt.Errorf("seal: no user identity")
	}
	if err := creds.Validate(); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	plaintext, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	key, err := deriveKey(user)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	out := make([]byte, 1+chacha20poly1305.NonceSizeX, 1+chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	out[0] = EnvelopeVersion
	if _, err := io.ReadFull(rand.Reader, out[1:]); err != nil {
		return "", fmt.Errorf("seal: failed to generate nonce: %w", err)
	}
	out = aead.Seal(out, out[1:], plaintext, []byte{EnvelopeVersion})

	return RawCode(envelopeEncoding.EncodeToString(out)), nil
}

// QRText returns the payload with the QR scheme prefix.
//
// Example: IOTC:1:AQIDBA...
func QRText(raw RawCode) string {
	return fmt.Sprintf("%s%d:%s", URIPrefix, EnvelopeVersion, raw)
}

// stripPrefix removes an optional "IOTC:<version>:" prefix.
func stripPrefix(s string) (string, error) {
	if !strings.HasPrefix(strings.ToUpper(s), URIPrefix) {
		return s, nil
	}
	parts := strings.SplitN(s[len(URIPrefix):], ":", 2)
	if len(parts) != 2 {
		return "", decodeErr("malformed QR text", nil)
	}
	if parts[0] != fmt.Sprint(EnvelopeVersion) {
		return "", decodeErr(fmt.Sprintf("unsupported QR version %q", parts[0]), nil)
	}
	return parts[1], nil
}

// deriveKey derives the envelope key from the user ID using HKDF-SHA256.
func deriveKey(user UserIdentity) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(user.ID), nil, []byte(envelopeInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Compile-time interface satisfaction check.
var _ Decoder = EnvelopeDecoder{}
