package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvents(t *testing.T, events ...Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.plog")
	l, err := NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		l.Log(e)
	}
	require.NoError(t, l.Close())
	return path
}

func TestFilteredReader(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	path := writeEvents(t,
		Event{Timestamp: base, AttemptID: "a", UserID: "u1", Layer: LayerWorkflow, Category: CategoryAttempt},
		Event{Timestamp: base.Add(time.Minute), AttemptID: "a", UserID: "u1", Layer: LayerDecode, Category: CategoryError,
			Error: &ErrorEventData{Layer: LayerDecode, Message: "bad tag"}},
		Event{Timestamp: base.Add(2 * time.Minute), AttemptID: "b", UserID: "u2", DeviceID: "dev-2", Layer: LayerConnect, Category: CategoryAttempt},
	)

	layer := LayerDecode
	errCat := CategoryError
	start := base.Add(30 * time.Second)
	end := base.Add(2 * time.Minute)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"attempt", Filter{AttemptID: "a"}, 2},
		{"layer", Filter{Layer: &layer}, 1},
		{"category", Filter{Category: &errCat}, 1},
		{"device", Filter{DeviceID: "dev-2"}, 1},
		{"user", Filter{UserID: "u2"}, 1},
		{"time window end exclusive", Filter{TimeStart: &start, TimeEnd: &end}, 1},
		{"no match", Filter{AttemptID: "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			require.NoError(t, err)
			defer r.Close()
			events, err := r.ReadAll()
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "missing.plog"))
	assert.Error(t, err)
}
