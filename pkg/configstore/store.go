package configstore

import (
	"errors"
	"sync"
	"time"

	"github.com/iotc-provision/provision-go/pkg/iotc"
)

// ErrAlreadyPublished is returned by Publish after the slot has been written.
var ErrAlreadyPublished = errors.New("configuration already published")

// SlotKind tells whether the slot holds nothing, a simulated connection or a client.
type SlotKind uint8

const (
	SlotUnset SlotKind = iota
	SlotSimulated
	SlotConnected
)

// String returns the slot kind name.
func (k SlotKind) String() string {
	switch k {
	case SlotUnset:
		return "UNSET"
	case SlotSimulated:
		return "SIMULATED"
	case SlotConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Slot is the device configuration. Client is non-nil only for SlotConnected.
type Slot struct {
	Kind   SlotKind
	Client iotc.Client

	// Method, UserID and AttemptID describe how the slot was filled.
	Method      string
	UserID      string
	AttemptID   string
	PublishedAt time.Time
}

// ActionType identifies a store action.
type ActionType uint8

// ActionConnect is the only action: publish a client or a simulated connection.
const ActionConnect ActionType = 1

// String returns the action name.
func (t ActionType) String() string {
	if t == ActionConnect {
		return "CONNECT"
	}
	return "UNKNOWN"
}

// Action is delivered to subscribers. A nil Payload means simulated.
type Action struct {
	Type    ActionType
	Payload iotc.Client
}

// Recorder persists a published slot. Errors are reported to the
// publisher but do not undo the publication.
type Recorder interface {
	Record(slot Slot) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Slot) error

// Record calls f(slot).
func (f RecorderFunc) Record(slot Slot) error { return f(slot) }

// PublishOption annotates a publication.
type PublishOption func(*Slot)

// WithMethod records the acquisition method name.
func WithMethod(method string) PublishOption {
	return func(s *Slot) { s.Method = method }
}

// WithUser records the user that completed verification.
func WithUser(userID string) PublishOption {
	return func(s *Slot) { s.UserID = userID }
}

// WithAttempt records the attempt ID.
func WithAttempt(id string) PublishOption {
	return func(s *Slot) { s.AttemptID = id }
}

// Store is the write-once configuration slot. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	slot      Slot
	listeners []func(Action)
	recorder  Recorder
	now       func() time.Time
}

// New creates an empty store. recorder may be nil.
func New(recorder Recorder) *Store {
	return &Store{recorder: recorder, now: time.Now}
}

// Publish dispatches {CONNECT, client}. A nil client publishes a simulated
// connection. Once the slot is written further calls return
// ErrAlreadyPublished and change nothing.
//
// Subscribers run after the slot is updated, outside the lock. The recorder
// error, if any, is returned after subscribers have been notified.
func (s *Store) Publish(client iotc.Client, opts ...PublishOption) error {
	s.mu.Lock()
	if s.slot.Kind != SlotUnset {
		s.mu.Unlock()
		return ErrAlreadyPublished
	}

	slot := Slot{Kind: SlotSimulated, PublishedAt: s.now()}
	if client != nil {
		slot.Kind = SlotConnected
		slot.Client = client
	}
	for _, opt := range opts {
		opt(&slot)
	}
	s.slot = slot
	listeners := make([]func(Action), len(s.listeners))
	copy(listeners, s.listeners)
	recorder := s.recorder
	s.mu.Unlock()

	action := Action{Type: ActionConnect, Payload: client}
	for _, fn := range listeners {
		fn(action)
	}

	if recorder != nil {
		return recorder.Record(slot)
	}
	return nil
}

// Current returns the slot.
func (s *Store) Current() Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slot
}

// Published reports whether the slot has been written.
func (s *Store) Published() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slot.Kind != SlotUnset
}

// Subscribe registers fn for future actions.
func (s *Store) Subscribe(fn func(Action)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
