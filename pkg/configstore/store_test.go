package configstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotc-provision/provision-go/pkg/iotc"
	"github.com/iotc-provision/provision-go/pkg/persistence"
)

type stubClient struct{ id string }

func (c stubClient) DeviceID() string                 { return c.id }
func (c stubClient) ModelID() string                  { return "dtmi:demo;1" }
func (c stubClient) ScopeID() string                  { return "0ne0001" }
func (c stubClient) AssignedHub() string              { return "hub.example.net" }
func (c stubClient) LogLevel() iotc.LogLevel          { return iotc.LogLevelAll }
func (c stubClient) IsConnected() bool                { return true }
func (c stubClient) Disconnect(context.Context) error { return nil }

func TestSlotKindString(t *testing.T) {
	tests := []struct {
		k    SlotKind
		want string
	}{
		{SlotUnset, "UNSET"},
		{SlotSimulated, "SIMULATED"},
		{SlotConnected, "CONNECTED"},
		{SlotKind(7), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("SlotKind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestStoreStartsUnset(t *testing.T) {
	s := New(nil)
	assert.False(t, s.Published())
	assert.Equal(t, SlotUnset, s.Current().Kind)
	assert.Nil(t, s.Current().Client)
}

func TestPublishConnected(t *testing.T) {
	s := New(nil)
	var got []Action
	s.Subscribe(func(a Action) { got = append(got, a) })

	client := stubClient{id: "dev-1"}
	require.NoError(t, s.Publish(client, WithMethod("NUMERIC"), WithUser("u1"), WithAttempt("a1")))

	slot := s.Current()
	assert.Equal(t, SlotConnected, slot.Kind)
	assert.Equal(t, client, slot.Client)
	assert.Equal(t, "NUMERIC", slot.Method)
	assert.Equal(t, "u1", slot.UserID)
	assert.Equal(t, "a1", slot.AttemptID)
	assert.False(t, slot.PublishedAt.IsZero())

	require.Len(t, got, 1)
	assert.Equal(t, ActionConnect, got[0].Type)
	assert.Equal(t, client, got[0].Payload)
}

func TestPublishSimulated(t *testing.T) {
	s := New(nil)
	var got []Action
	s.Subscribe(func(a Action) { got = append(got, a) })

	require.NoError(t, s.Publish(nil))

	assert.Equal(t, SlotSimulated, s.Current().Kind)
	assert.Nil(t, s.Current().Client)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Payload)
	assert.Equal(t, "CONNECT", got[0].Type.String())
}

func TestPublishIsWriteOnce(t *testing.T) {
	s := New(nil)
	calls := 0
	s.Subscribe(func(Action) { calls++ })

	require.NoError(t, s.Publish(nil))
	err := s.Publish(stubClient{id: "late"})

	assert.ErrorIs(t, err, ErrAlreadyPublished)
	assert.Equal(t, SlotSimulated, s.Current().Kind)
	assert.Equal(t, 1, calls)
}

func TestPublishConcurrentSingleWinner(t *testing.T) {
	s := New(nil)
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Publish(nil) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := New(nil)
	var seen SlotKind
	s.Subscribe(func(Action) { seen = s.Current().Kind })

	require.NoError(t, s.Publish(stubClient{id: "d"}))
	assert.Equal(t, SlotConnected, seen)
}

func TestRecorderErrorKeepsPublication(t *testing.T) {
	boom := errors.New("disk full")
	s := New(RecorderFunc(func(Slot) error { return boom }))

	err := s.Publish(nil)
	assert.ErrorIs(t, err, boom)
	assert.True(t, s.Published())
}

func TestPersistentRecorder(t *testing.T) {
	records := persistence.NewRecordStore(filepath.Join(t.TempDir(), persistence.DefaultFileName))
	s := New(NewPersistentRecorder(records))

	require.NoError(t, s.Publish(stubClient{id: "dev-9"}, WithMethod("SCANNED"), WithAttempt("att")))

	rec, err := records.Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "dev-9", rec.DeviceID)
	assert.Equal(t, "hub.example.net", rec.AssignedHub)
	assert.Equal(t, "SCANNED", rec.Method)
	assert.Equal(t, "att", rec.AttemptID)
	assert.False(t, rec.Simulated)
}

func TestRecordFromSlotSimulated(t *testing.T) {
	rec := RecordFromSlot(Slot{Kind: SlotSimulated, Method: "SIMULATED"})
	assert.True(t, rec.Simulated)
	assert.Empty(t, rec.DeviceID)
}
