package log

import (
	"strings"
	"time"
)

// Event represents a provisioning event captured at any stage.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AttemptID correlates the events of one verification attempt (UUID).
	// Empty for events outside an attempt, such as navigation.
	AttemptID string `cbor:"2,keyasint,omitempty"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// UserID is the signed-in user.
	UserID string `cbor:"5,keyasint,omitempty"`

	// DeviceID is populated once credentials are decoded.
	DeviceID string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"`
	Attempt     *AttemptEvent     `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Layer indicates which provisioning stage captured the event.
type Layer uint8

const (
	// LayerWorkflow is the verification state machine.
	LayerWorkflow Layer = 0
	// LayerSource is credential acquisition (scan or code lookup).
	LayerSource Layer = 1
	// LayerDecode is payload decryption and parsing.
	LayerDecode Layer = 2
	// LayerConnect is device registration.
	LayerConnect Layer = 3
	// LayerStore is publication to the config store.
	LayerStore Layer = 4
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerWorkflow:
		return "WORKFLOW"
	case LayerSource:
		return "SOURCE"
	case LayerDecode:
		return "DECODE"
	case LayerConnect:
		return "CONNECT"
	case LayerStore:
		return "STORE"
	default:
		return "UNKNOWN"
	}
}

// ParseLayer returns the layer for a case-insensitive name.
func ParseLayer(s string) (Layer, bool) {
	for l := LayerWorkflow; l <= LayerStore; l++ {
		if strings.EqualFold(l.String(), s) {
			return l, true
		}
	}
	return 0, false
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a state change.
	CategoryState Category = 0
	// CategoryAttempt indicates an attempt start or outcome.
	CategoryAttempt Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryAttempt:
		return "ATTEMPT"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category for a case-insensitive name.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryState; c <= CategoryError; c++ {
		if strings.EqualFold(c.String(), s) {
			return c, true
		}
	}
	return 0, false
}

// StateChangeEvent captures a workflow transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// Outcome is the result recorded by an AttemptEvent.
type Outcome uint8

const (
	// OutcomeStarted marks the beginning of an attempt.
	OutcomeStarted Outcome = 0
	// OutcomeConnected marks a published device client.
	OutcomeConnected Outcome = 1
	// OutcomeSimulated marks a published simulated connection.
	OutcomeSimulated Outcome = 2
	// OutcomeFailed marks an attempt that ended in the error state.
	OutcomeFailed Outcome = 3
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "STARTED"
	case OutcomeConnected:
		return "CONNECTED"
	case OutcomeSimulated:
		return "SIMULATED"
	case OutcomeFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// AttemptEvent captures the start or the end of a verification attempt.
type AttemptEvent struct {
	// Method is the acquisition method name (NUMERIC, SCANNED, SIMULATED).
	Method string `cbor:"1,keyasint"`

	// Outcome of the attempt.
	Outcome Outcome `cbor:"2,keyasint"`

	// Duration from start to outcome (zero for OutcomeStarted).
	// Stored as nanoseconds.
	Duration time.Duration `cbor:"3,keyasint,omitempty"`

	// ModelID of the connected client (OutcomeConnected only).
	ModelID string `cbor:"4,keyasint,omitempty"`

	// AssignedHub of the connected client (OutcomeConnected only).
	AssignedHub string `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures a failure at any stage.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the internal error message (never shown to the user).
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
