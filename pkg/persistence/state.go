package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RecordVersion is the current version of the record file format.
const RecordVersion = 1

// DefaultFileName is the record file name inside a state directory.
const DefaultFileName = "provisioning.json"

// ErrUnsupportedVersion is returned by Load for records written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported record version")

// ProvisioningRecord describes a published configuration.
type ProvisioningRecord struct {
	// Version is the record file format version.
	Version int `json:"version"`

	// SavedAt is when the record was written.
	SavedAt time.Time `json:"saved_at"`

	// UserID is the user that completed verification.
	UserID string `json:"user_id,omitempty"`

	// Method is the acquisition method (NUMERIC, SCANNED, SIMULATED).
	Method string `json:"method"`

	// Simulated is true when no device client was published.
	Simulated bool `json:"simulated"`

	// DeviceID, ModelID, ScopeID and AssignedHub describe the connected
	// client. They are empty for simulated records.
	DeviceID    string `json:"device_id,omitempty"`
	ModelID     string `json:"model_id,omitempty"`
	ScopeID     string `json:"scope_id,omitempty"`
	AssignedHub string `json:"assigned_hub,omitempty"`

	// AttemptID links the record to protocol log events.
	AttemptID string `json:"attempt_id,omitempty"`
}

// RecordStore manages a ProvisioningRecord JSON file.
type RecordStore struct {
	mu   sync.Mutex
	path string
}

// NewRecordStore creates a store backed by path.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Path returns the backing file path.
func (s *RecordStore) Path() string {
	return s.path
}

// Save writes the record, replacing any previous one.
// The file is written to a temporary name and renamed into place.
func (s *RecordStore) Save(rec *ProvisioningRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	rec.Version = RecordVersion
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Load reads the record.
// Returns nil, nil if the file doesn't exist.
func (s *RecordStore) Load() (*ProvisioningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec := &ProvisioningRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if rec.Version > RecordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	return rec, nil
}

// Clear removes the record file. Clearing a missing record is not an error.
func (s *RecordStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
