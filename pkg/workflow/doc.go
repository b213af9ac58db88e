// Package workflow implements the device verification state machine.
//
// A Workflow walks a signed-in user from choosing an acquisition method to a
// published device configuration:
//
//	CHOOSING_METHOD ──numeric──▶ ENTERING_CODE ──submit──▶ CONNECTING ──ok──▶ IDLE
//	       │        ──scan─────▶ SCANNING ──────submit──▶      │
//	       │                                                   └─fail─▶ ERROR ──dismiss──▶ entry state
//	       └──simulate──▶ IDLE (simulated connection published)
//
// Back from ENTERING_CODE, SCANNING or ERROR always returns to
// CHOOSING_METHOD. Back while CONNECTING is ignored; an attempt in flight
// always runs to completion.
//
// The workflow is inert (IDLE, every operation returns ErrInactive) when no
// user is signed in or the configuration store has already been published.
//
// Failures keep their kind (lookup, decode, connect) for diagnostics and
// the protocol log, but the user only ever sees UserMessage.
package workflow
