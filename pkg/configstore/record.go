package configstore

import "github.com/iotc-provision/provision-go/pkg/persistence"

// PersistentRecorder writes published slots to a persistence.RecordStore.
type PersistentRecorder struct {
	records *persistence.RecordStore
}

// NewPersistentRecorder creates a Recorder backed by records.
func NewPersistentRecorder(records *persistence.RecordStore) *PersistentRecorder {
	return &PersistentRecorder{records: records}
}

// Record saves a ProvisioningRecord built from slot.
func (r *PersistentRecorder) Record(slot Slot) error {
	return r.records.Save(RecordFromSlot(slot))
}

// RecordFromSlot converts a slot to its persisted form.
func RecordFromSlot(slot Slot) *persistence.ProvisioningRecord {
	rec := &persistence.ProvisioningRecord{
		SavedAt:   slot.PublishedAt,
		UserID:    slot.UserID,
		Method:    slot.Method,
		Simulated: slot.Kind == SlotSimulated,
		AttemptID: slot.AttemptID,
	}
	if c := slot.Client; c != nil {
		rec.DeviceID = c.DeviceID()
		rec.ModelID = c.ModelID()
		rec.ScopeID = c.ScopeID()
		rec.AssignedHub = c.AssignedHub()
	}
	return rec
}

var _ Recorder = (*PersistentRecorder)(nil)
