// Package codeserver implements the verification code service used by the
// numeric provisioning path.
//
// An operator posts a device's credentials together with the user they are
// meant for. The server seals them with credential.Seal and hands back a
// short numeric code plus the equivalent QR text. The provisioning client
// later exchanges the code for the sealed payload:
//
//	POST /api/codes          {"user_id", "credentials", "ttl_seconds", "group_key"}
//	GET  /api/codes/{code}   {"payload"}   404 unknown, 410 expired
//
// With a group_key the device key is derived from the enrollment group key
// and the device ID instead of being posted.
//
// Codes are single use. A redeemed or expired code is gone for good.
package codeserver
