package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iotc-provision/provision-go/pkg/configstore"
	"github.com/iotc-provision/provision-go/pkg/credential"
	"github.com/iotc-provision/provision-go/pkg/iotc"
	"github.com/iotc-provision/provision-go/pkg/log"
	"github.com/iotc-provision/provision-go/pkg/metrics"
)

// Config configures a Workflow.
type Config struct {
	// Identity is the signed-in user. An absent identity makes the workflow idle.
	Identity credential.UserIdentity

	// Lookup exchanges numeric codes. Nil makes every numeric attempt fail
	// with a lookup failure.
	Lookup credential.CodeLookup

	// Decoder opens payloads. Required.
	Decoder credential.Decoder

	// Factory connects device clients. Required.
	Factory iotc.Factory

	// Store receives the published configuration. Required.
	Store *configstore.Store

	// EventLogger receives protocol events. Optional.
	EventLogger log.Logger

	// Metrics records attempt counters. Optional.
	Metrics *metrics.Metrics

	// Logger is the operational logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Workflow is the verification state machine. It is safe for concurrent use;
// at most one attempt is in flight at a time.
type Workflow struct {
	mu sync.RWMutex

	identity credential.UserIdentity
	source   *credential.Source
	decoder  credential.Decoder
	factory  iotc.Factory
	store    *configstore.Store
	events   log.Logger
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	state State
	// entry is the state an attempt started from; Dismiss returns to it.
	entry       State
	busy        bool
	method      string
	attemptID   string
	lastFailure *Failure

	onStateChange func(oldState, newState State)
}

// New creates a workflow in StateChoosingMethod.
func New(cfg Config) (*Workflow, error) {
	if cfg.Decoder == nil {
		return nil, errors.New("workflow: decoder is required")
	}
	if cfg.Factory == nil {
		return nil, errors.New("workflow: factory is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("workflow: store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		identity: cfg.Identity,
		source:   credential.NewSource(cfg.Lookup),
		decoder:  cfg.Decoder,
		factory:  cfg.Factory,
		store:    cfg.Store,
		events:   log.OrNoop(cfg.EventLogger),
		metrics:  cfg.Metrics,
		logger:   logger.With("component", "workflow"),
		now:      time.Now,
		state:    StateChoosingMethod,
	}, nil
}

// OnStateChange sets a callback invoked after every transition, outside
// the workflow lock.
func (w *Workflow) OnStateChange(fn func(oldState, newState State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onStateChange = fn
}

// State returns the current state. It is StateIdle whenever the workflow is inactive.
func (w *Workflow) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.inactiveLocked() {
		return StateIdle
	}
	return w.state
}

// View returns what a front-end should render.
func (w *Workflow) View() View {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.inactiveLocked() {
		return View{State: StateIdle}
	}
	v := View{State: w.state, Method: w.method}
	switch w.state {
	case StateConnecting:
		v.Loading = true
	case StateError:
		v.ErrorMessage = UserMessage
	}
	return v
}

// LastFailure returns the most recent failure, or nil.
func (w *Workflow) LastFailure() *Failure {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastFailure
}

// ChooseNumeric moves from method choice to numeric code entry.
func (w *Workflow) ChooseNumeric() error {
	return w.choose(StateEnteringCode, credential.MethodNumeric)
}

// ChooseScan moves from method choice to scanning.
func (w *Workflow) ChooseScan() error {
	return w.choose(StateScanning, credential.MethodScanned)
}

func (w *Workflow) choose(to State, kind credential.MethodKind) error {
	w.mu.Lock()
	if err := w.checkLocked(StateChoosingMethod); err != nil {
		w.mu.Unlock()
		return err
	}
	from := w.state
	w.state = to
	w.method = kind.String()
	cb := w.onStateChange
	w.mu.Unlock()

	w.transitioned(cb, from, to, "", kind.String()+" chosen")
	return nil
}

// ChooseSimulated publishes a simulated connection. The workflow becomes
// idle without touching the decoder or the factory.
func (w *Workflow) ChooseSimulated() error {
	return w.Verify(context.Background(), credential.Simulated{})
}

// SubmitCode runs an attempt with a typed numeric code.
func (w *Workflow) SubmitCode(ctx context.Context, code string) error {
	return w.Verify(ctx, credential.Numeric{Code: code})
}

// SubmitScan runs an attempt with a scanned payload.
func (w *Workflow) SubmitScan(ctx context.Context, payload string) error {
	return w.Verify(ctx, credential.Scanned{Payload: payload})
}

// Verify runs one attempt for m: acquire, decode, connect, publish. The
// method must match the current state: Numeric from StateEnteringCode,
// Scanned from StateScanning, Simulated from StateChoosingMethod.
//
// Verify blocks until the attempt completes and imposes no timeout of its
// own. A failed attempt leaves the workflow in StateError and returns a
// *Failure.
func (w *Workflow) Verify(ctx context.Context, m credential.Method) error {
	if m == nil {
		return fmt.Errorf("%w: nil method", ErrInvalidTransition)
	}
	required, ok := entryState(m.Kind())
	if !ok {
		return fmt.Errorf("%w: unsupported method %T", ErrInvalidTransition, m)
	}

	w.mu.Lock()
	if err := w.checkLocked(required); err != nil {
		w.mu.Unlock()
		return err
	}
	w.busy = true
	w.entry = w.state
	w.method = m.Kind().String()
	w.attemptID = uuid.NewString()
	w.lastFailure = nil
	attemptID := w.attemptID
	from := w.state
	cb := w.onStateChange
	if m.Kind() != credential.MethodSimulated {
		w.state = StateConnecting
	}
	w.mu.Unlock()

	started := w.now()
	w.metrics.AttemptStarted(m.Kind().String())
	w.logAttempt(attemptID, "", log.AttemptEvent{Method: m.Kind().String(), Outcome: log.OutcomeStarted})

	if m.Kind() == credential.MethodSimulated {
		return w.publish(attemptID, m.Kind(), nil, started)
	}

	w.transitioned(cb, from, StateConnecting, attemptID, "submitted")

	raw, err := w.source.Acquire(ctx, m)
	if err != nil {
		return w.fail(attemptID, "", classify(err, FailureLookup), err, "acquire payload", started)
	}

	creds, err := w.decoder.Decode(raw, w.identity)
	if err != nil {
		return w.fail(attemptID, "", classify(err, FailureDecode), err, "decode payload", started)
	}

	client, err := w.factory.Connect(ctx, creds)
	if err == nil && client == nil {
		err = &iotc.ConnectionError{DeviceID: creds.DeviceID, Err: errors.New("factory returned no client")}
	}
	if err != nil {
		return w.fail(attemptID, creds.DeviceID, classify(err, FailureConnect), err, "connect device", started)
	}

	return w.publish(attemptID, m.Kind(), client, started)
}

// publish writes the attempt result to the store and ends the workflow.
// A nil client publishes a simulated connection.
func (w *Workflow) publish(attemptID string, kind credential.MethodKind, client iotc.Client, started time.Time) error {
	deviceID := ""
	if client != nil {
		deviceID = client.DeviceID()
	}

	err := w.store.Publish(client,
		configstore.WithMethod(kind.String()),
		configstore.WithUser(w.identity.ID),
		configstore.WithAttempt(attemptID),
	)
	if errors.Is(err, configstore.ErrAlreadyPublished) {
		// Someone else won the slot; never leave a second live client around.
		if client != nil {
			if derr := client.Disconnect(context.Background()); derr != nil {
				w.logger.Warn("disconnect unpublished client", "device_id", deviceID, "error", derr)
			}
		}
		return w.fail(attemptID, deviceID, FailurePublish, err, "publish configuration", started)
	}
	if err != nil {
		// The slot is written; only the recorder failed.
		w.logger.Warn("record publication", "attempt_id", attemptID, "error", err)
	}

	slot := configstore.SlotConnected
	attempt := log.AttemptEvent{Method: kind.String(), Outcome: log.OutcomeConnected}
	if client == nil {
		slot = configstore.SlotSimulated
		attempt.Outcome = log.OutcomeSimulated
	} else {
		attempt.ModelID = client.ModelID()
		attempt.AssignedHub = client.AssignedHub()
	}
	elapsed := w.now().Sub(started)
	attempt.Duration = elapsed

	w.metrics.Published(slot.String())
	w.metrics.ObserveAttempt(kind.String(), attempt.Outcome.String(), elapsed)
	w.logAttempt(attemptID, deviceID, attempt)
	w.logger.Info("configuration published",
		"attempt_id", attemptID, "method", kind.String(), "slot", slot.String(), "device_id", deviceID)

	w.mu.Lock()
	from := w.state
	w.state = StateIdle
	w.busy = false
	w.method = ""
	cb := w.onStateChange
	w.mu.Unlock()

	w.transitioned(cb, from, StateIdle, attemptID, "published")
	return nil
}

// fail moves the workflow to StateError and returns the Failure.
func (w *Workflow) fail(attemptID, deviceID string, kind FailureKind, err error, op string, started time.Time) error {
	f := &Failure{Kind: kind, AttemptID: attemptID, Err: err}
	elapsed := w.now().Sub(started)

	w.events.Log(log.Event{
		Timestamp: w.now(),
		AttemptID: attemptID,
		Layer:     kind.layer(),
		Category:  log.CategoryError,
		UserID:    w.identity.ID,
		DeviceID:  deviceID,
		Error: &log.ErrorEventData{
			Layer:   kind.layer(),
			Message: err.Error(),
			Context: op,
		},
	})
	w.metrics.AttemptFailed(kind.String())

	w.mu.Lock()
	method := w.method
	from := w.state
	w.lastFailure = f
	w.busy = false
	if w.inactiveLocked() {
		w.state = StateIdle
	} else {
		w.state = StateError
	}
	to := w.state
	cb := w.onStateChange
	w.mu.Unlock()

	w.metrics.ObserveAttempt(method, log.OutcomeFailed.String(), elapsed)
	w.logAttempt(attemptID, deviceID, log.AttemptEvent{Method: method, Outcome: log.OutcomeFailed, Duration: elapsed})
	w.logger.Warn("verification failed", "attempt_id", attemptID, "kind", kind.String(), "error", err)

	if from != to {
		w.transitioned(cb, from, to, attemptID, kind.String()+" failure")
	}
	return f
}

// Dismiss leaves StateError for the entry state of the failed attempt.
func (w *Workflow) Dismiss() error {
	w.mu.Lock()
	if err := w.checkLocked(StateError); err != nil {
		w.mu.Unlock()
		return err
	}
	from := w.state
	w.state = w.entry
	to := w.state
	cb := w.onStateChange
	w.mu.Unlock()

	w.transitioned(cb, from, to, "", "dismissed")
	return nil
}

// Back handles a back action. From StateEnteringCode, StateScanning or
// StateError it returns to StateChoosingMethod and reports true. It is
// ignored (false) while connecting, at the method choice, and when idle.
func (w *Workflow) Back() bool {
	w.mu.Lock()
	if w.inactiveLocked() || w.busy {
		w.mu.Unlock()
		return false
	}
	switch w.state {
	case StateEnteringCode, StateScanning, StateError:
	default:
		w.mu.Unlock()
		return false
	}
	from := w.state
	w.state = StateChoosingMethod
	w.method = ""
	w.lastFailure = nil
	cb := w.onStateChange
	w.mu.Unlock()

	w.transitioned(cb, from, StateChoosingMethod, "", "back")
	return true
}

// checkLocked validates that an operation requiring state want may run.
func (w *Workflow) checkLocked(want State) error {
	if w.inactiveLocked() {
		return ErrInactive
	}
	if w.busy {
		return ErrBusy
	}
	if w.state != want {
		return fmt.Errorf("%w: state is %s, want %s", ErrInvalidTransition, w.state, want)
	}
	return nil
}

func (w *Workflow) inactiveLocked() bool {
	if !w.identity.Present() {
		return true
	}
	// An attempt in flight owns the slot it is about to publish.
	return w.store.Published() && !w.busy
}

// transitioned logs a state change and invokes the callback.
func (w *Workflow) transitioned(cb func(State, State), from, to State, attemptID, reason string) {
	w.events.Log(log.Event{
		Timestamp: w.now(),
		AttemptID: attemptID,
		Layer:     log.LayerWorkflow,
		Category:  log.CategoryState,
		UserID:    w.identity.ID,
		StateChange: &log.StateChangeEvent{
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
	w.logger.Debug("state change", "from", from.String(), "to", to.String(), "reason", reason)
	if cb != nil {
		cb(from, to)
	}
}

func (w *Workflow) logAttempt(attemptID, deviceID string, a log.AttemptEvent) {
	w.events.Log(log.Event{
		Timestamp: w.now(),
		AttemptID: attemptID,
		Layer:     log.LayerWorkflow,
		Category:  log.CategoryAttempt,
		UserID:    w.identity.ID,
		DeviceID:  deviceID,
		Attempt:   &a,
	})
}

// entryState returns the state an attempt with the given method starts from.
func entryState(k credential.MethodKind) (State, bool) {
	switch k {
	case credential.MethodNumeric:
		return StateEnteringCode, true
	case credential.MethodScanned:
		return StateScanning, true
	case credential.MethodSimulated:
		return StateChoosingMethod, true
	default:
		return 0, false
	}
}
