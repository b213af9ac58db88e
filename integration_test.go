package provision_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotc-provision/provision-go/internal/codeserver"
	"github.com/iotc-provision/provision-go/pkg/configstore"
	"github.com/iotc-provision/provision-go/pkg/credential"
	"github.com/iotc-provision/provision-go/pkg/iotc"
	plog "github.com/iotc-provision/provision-go/pkg/log"
	"github.com/iotc-provision/provision-go/pkg/lookup"
	"github.com/iotc-provision/provision-go/pkg/persistence"
	"github.com/iotc-provision/provision-go/pkg/workflow"
)

var e2eCreds = credential.Credentials{
	DeviceID:  "thermostat-042",
	ScopeID:   "0ne00ABCDEF",
	DeviceKey: base64.StdEncoding.EncodeToString([]byte("e2e-device-key")),
	ModelID:   "dtmi:example:thermostat;1",
}

type e2eEnv struct {
	codes     *httptest.Server
	dpsCalls  *atomic.Int32
	store     *configstore.Store
	records   *persistence.RecordStore
	eventPath string
	events    *plog.FileLogger
	wf        *workflow.Workflow
}

// fakeDPS answers the first register call with "assigning" and the
// following status poll with "assigned".
func fakeDPS(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasPrefix(r.Header.Get("Authorization"), "SharedAccessSignature ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			_ = json.NewEncoder(w).Encode(map[string]any{"operationId": "op-1", "status": "assigning"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"operationId": "op-1",
			"status":      "assigned",
			"registrationState": map[string]any{
				"registrationId": e2eCreds.DeviceID,
				"deviceId":       e2eCreds.DeviceID,
				"assignedHub":    "hub-e2e.azure-devices.net",
				"status":         "assigned",
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newE2E(t *testing.T, user string) *e2eEnv {
	t.Helper()

	cs, err := codeserver.New(codeserver.Config{RedeemRate: -1})
	require.NoError(t, err)
	codes := httptest.NewServer(cs.Router())
	t.Cleanup(codes.Close)

	calls := new(atomic.Int32)
	dps := fakeDPS(t, calls)

	lc, err := lookup.NewClient(lookup.Config{BaseURL: codes.URL, Rate: -1})
	require.NoError(t, err)

	dir := t.TempDir()
	records := persistence.NewRecordStore(filepath.Join(dir, persistence.DefaultFileName))
	store := configstore.New(configstore.NewPersistentRecorder(records))

	eventPath := filepath.Join(dir, "events.plog")
	events, err := plog.NewFileLogger(eventPath)
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	wf, err := workflow.New(workflow.Config{
		Identity: credential.UserIdentity{ID: user},
		Lookup:   lc,
		Decoder:  credential.NewEnvelopeDecoder(),
		Factory: iotc.NewDPSFactory(iotc.DPSConfig{
			Endpoint:    dps.URL,
			PollInitial: 5 * time.Millisecond,
			PollMax:     20 * time.Millisecond,
		}),
		Store:       store,
		EventLogger: events,
	})
	require.NoError(t, err)

	return &e2eEnv{
		codes:     codes,
		dpsCalls:  calls,
		store:     store,
		records:   records,
		eventPath: eventPath,
		events:    events,
		wf:        wf,
	}
}

// issueCode posts credentials to the code server for user.
func (e *e2eEnv) issueCode(t *testing.T, user string) codeserver.IssueResponse {
	t.Helper()
	body, err := json.Marshal(codeserver.IssueRequest{UserID: user, Credentials: e2eCreds})
	require.NoError(t, err)

	resp, err := http.Post(e.codes.URL+"/api/codes", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out codeserver.IssueResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *e2eEnv) readEvents(t *testing.T) []plog.Event {
	t.Helper()
	require.NoError(t, e.events.Close())
	r, err := plog.NewReader(e.eventPath)
	require.NoError(t, err)
	defer r.Close()
	events, err := r.ReadAll()
	require.NoError(t, err)
	return events
}

func TestE2E_NumericCode(t *testing.T) {
	env := newE2E(t, "alice")
	issued := env.issueCode(t, "alice")

	require.NoError(t, env.wf.ChooseNumeric())
	require.NoError(t, env.wf.SubmitCode(context.Background(), issued.Code))

	assert.Equal(t, workflow.StateIdle, env.wf.State())
	assert.False(t, env.wf.View().Visible())

	slot := env.store.Current()
	require.Equal(t, configstore.SlotConnected, slot.Kind)
	assert.Equal(t, e2eCreds.DeviceID, slot.Client.DeviceID())
	assert.Equal(t, e2eCreds.ModelID, slot.Client.ModelID())
	assert.Equal(t, "hub-e2e.azure-devices.net", slot.Client.AssignedHub())
	assert.Equal(t, iotc.LogLevelAll, slot.Client.LogLevel())
	assert.EqualValues(t, 2, env.dpsCalls.Load(), "register plus one status poll")

	rec, err := env.records.Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, e2eCreds.DeviceID, rec.DeviceID)
	assert.Equal(t, "alice", rec.UserID)
	assert.False(t, rec.Simulated)

	stats := plog.Summarize(env.readEvents(t))
	assert.Equal(t, 1, stats.Attempts)
	assert.Equal(t, 1, stats.Outcomes[plog.OutcomeConnected])
	assert.Empty(t, stats.ErrorsByLayer)
}

func TestE2E_ScannedPayload(t *testing.T) {
	env := newE2E(t, "alice")
	issued := env.issueCode(t, "alice")

	require.NoError(t, env.wf.ChooseScan())
	require.NoError(t, env.wf.SubmitScan(context.Background(), issued.QR))

	assert.Equal(t, configstore.SlotConnected, env.store.Current().Kind)
}

func TestE2E_CodeForOtherUser(t *testing.T) {
	env := newE2E(t, "bob")
	issued := env.issueCode(t, "alice")

	require.NoError(t, env.wf.ChooseNumeric())
	err := env.wf.SubmitCode(context.Background(), issued.Code)
	require.Error(t, err)

	view := env.wf.View()
	assert.Equal(t, workflow.StateError, view.State)
	assert.Equal(t, workflow.UserMessage, view.ErrorMessage)
	require.NotNil(t, env.wf.LastFailure())
	assert.Equal(t, workflow.FailureDecode, env.wf.LastFailure().Kind)
	assert.False(t, env.store.Published())
	assert.Zero(t, env.dpsCalls.Load(), "decode failure must not reach the provisioning service")

	// The code was consumed; a retry reports a lookup failure.
	require.NoError(t, env.wf.Dismiss())
	require.Error(t, env.wf.SubmitCode(context.Background(), issued.Code))
	assert.Equal(t, workflow.FailureLookup, env.wf.LastFailure().Kind)

	// Falling back to a simulated connection still works.
	require.True(t, env.wf.Back())
	require.NoError(t, env.wf.ChooseSimulated())
	assert.Equal(t, configstore.SlotSimulated, env.store.Current().Kind)

	stats := plog.Summarize(env.readEvents(t))
	assert.Equal(t, 1, stats.ErrorsByLayer[plog.LayerDecode])
	assert.Equal(t, 1, stats.ErrorsByLayer[plog.LayerSource])
	assert.Equal(t, 1, stats.Outcomes[plog.OutcomeSimulated])
}
