// Package credential acquires and decodes device provisioning credentials.
//
// # Overview
//
// Provisioning a device against the device-management service needs four
// values: device ID, scope ID, device key and model ID. They reach the app
// as an encrypted payload bound to the signed-in user:
//   - scanned from a QR code shown by the management portal
//   - exchanged for a short numeric code typed by the user
//
// A third path, the simulated connection, carries no payload at all.
//
// # Acquisition
//
// The three paths are modelled as the Method variant and resolved by
// Source.Acquire:
//
//	Numeric{Code}     -> CodeLookup.Exchange (remote round trip)
//	Scanned{Payload}  -> payload as-is
//	Simulated{}       -> ErrSimulated (nothing to decode)
//
// # Payload Format
//
//	[IOTC:1:]base64url( version | nonce(24) | XChaCha20-Poly1305(json) )
//
// The AEAD key is derived with HKDF-SHA256 from the user ID, so a payload
// only opens for the user it was issued to. The plaintext is the JSON
// credentials object:
//
//	{"deviceId":"...","scopeId":"...","deviceKey":"...","modelId":"..."}
//
// # Errors
//
// Lookup failures surface as *LookupError (errors.Is ErrLookup), decoding
// failures as *DecodeError (errors.Is ErrDecode).
package credential
