package workflow

import (
	"errors"
	"fmt"

	"github.com/iotc-provision/provision-go/pkg/credential"
	"github.com/iotc-provision/provision-go/pkg/iotc"
	"github.com/iotc-provision/provision-go/pkg/log"
)

// UserMessage is the only error text shown to the user.
const UserMessage = "Failed to parse inserted code. Try again or use a simulated connection"

// Workflow errors.
var (
	// ErrBusy is returned while an attempt is in flight.
	ErrBusy = errors.New("verification in progress")

	// ErrInvalidTransition is returned for operations the current state does not accept.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInactive is returned once the workflow is idle: no user, or a
	// configuration has already been published.
	ErrInactive = errors.New("workflow inactive")
)

// State is a workflow state.
type State uint8

const (
	// StateIdle renders nothing: no user is signed in or the store is published.
	StateIdle State = iota

	// StateChoosingMethod offers numeric entry, scanning or simulation.
	StateChoosingMethod

	// StateEnteringCode waits for a numeric code.
	StateEnteringCode

	// StateScanning waits for a scanned payload.
	StateScanning

	// StateConnecting runs lookup, decode, connect and publish.
	StateConnecting

	// StateError shows UserMessage until dismissed.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateChoosingMethod:
		return "CHOOSING_METHOD"
	case StateEnteringCode:
		return "ENTERING_CODE"
	case StateScanning:
		return "SCANNING"
	case StateConnecting:
		return "CONNECTING"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FailureKind classifies a failed attempt.
type FailureKind uint8

const (
	FailureLookup FailureKind = iota + 1
	FailureDecode
	FailureConnect
	FailurePublish
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureLookup:
		return "LOOKUP"
	case FailureDecode:
		return "DECODE"
	case FailureConnect:
		return "CONNECT"
	case FailurePublish:
		return "PUBLISH"
	default:
		return "UNKNOWN"
	}
}

// layer maps the kind to the protocol log stage.
func (k FailureKind) layer() log.Layer {
	switch k {
	case FailureLookup:
		return log.LayerSource
	case FailureDecode:
		return log.LayerDecode
	case FailureConnect:
		return log.LayerConnect
	case FailurePublish:
		return log.LayerStore
	default:
		return log.LayerWorkflow
	}
}

// Failure is the error returned by a failed attempt.
type Failure struct {
	Kind      FailureKind
	AttemptID string
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// classify returns the kind of err, or fallback when err carries none.
func classify(err error, fallback FailureKind) FailureKind {
	switch {
	case errors.Is(err, credential.ErrLookup):
		return FailureLookup
	case errors.Is(err, credential.ErrDecode):
		return FailureDecode
	case errors.Is(err, iotc.ErrConnection):
		return FailureConnect
	default:
		return fallback
	}
}

// View is what a front-end renders.
type View struct {
	State State

	// Loading is true while an attempt is in flight.
	Loading bool

	// ErrorMessage is UserMessage in StateError and empty otherwise.
	ErrorMessage string

	// Method is the method being entered or attempted ("" when none).
	Method string
}

// Visible reports whether the view renders anything.
func (v View) Visible() bool {
	return v.State != StateIdle
}
