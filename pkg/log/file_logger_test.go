package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "provision.plog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileLoggerRoundTripThroughReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provision.plog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	logger.Log(Event{Timestamp: base, AttemptID: "a", Layer: LayerWorkflow, Category: CategoryAttempt,
		Attempt: &AttemptEvent{Method: "NUMERIC", Outcome: OutcomeStarted}})
	logger.Log(Event{Timestamp: base.Add(time.Second), AttemptID: "a", Layer: LayerSource, Category: CategoryError,
		Error: &ErrorEventData{Layer: LayerSource, Message: "code not found"}})
	logger.Log(Event{Timestamp: base.Add(2 * time.Second), AttemptID: "b", Layer: LayerWorkflow, Category: CategoryState,
		StateChange: &StateChangeEvent{NewState: "ERROR"}})
	require.NoError(t, logger.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	events, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "code not found", events[1].Error.Message)
	assert.Equal(t, "ERROR", events[2].StateChange.NewState)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provision.plog")

	for i := 0; i < 2; i++ {
		logger, err := NewFileLogger(path)
		require.NoError(t, err)
		logger.Log(Event{Timestamp: time.Now(), Category: CategoryState,
			StateChange: &StateChangeEvent{NewState: "IDLE"}})
		require.NoError(t, logger.Close())
	}

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	events, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "x.plog"))
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())

	// Logging after close is ignored.
	logger.Log(Event{})
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.plog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				logger.Log(Event{Timestamp: time.Now(), Category: CategoryAttempt,
					Attempt: &AttemptEvent{Method: "SIMULATED", Outcome: OutcomeSimulated}})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	n := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 200, n)
}
