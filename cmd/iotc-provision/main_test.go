package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotc-provision/provision-go/pkg/configstore"
	"github.com/iotc-provision/provision-go/pkg/metrics"
	"github.com/iotc-provision/provision-go/pkg/persistence"
	"github.com/iotc-provision/provision-go/pkg/workflow/mocks"
)

func TestPrintRecord(t *testing.T) {
	records := persistence.NewRecordStore(filepath.Join(t.TempDir(), persistence.DefaultFileName))

	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, records))
	assert.Contains(t, buf.String(), "No provisioning record")

	require.NoError(t, records.Save(&persistence.ProvisioningRecord{
		SavedAt:     time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
		UserID:      "alice",
		Method:      "NUMERIC",
		DeviceID:    "dev-1",
		ModelID:     "dtmi:example:thermostat;1",
		ScopeID:     "0ne000ABCDE",
		AssignedHub: "hub-1.azure-devices.net",
	}))

	buf.Reset()
	require.NoError(t, printRecord(&buf, records))
	out := buf.String()
	assert.Contains(t, out, "Method:    NUMERIC")
	assert.Contains(t, out, "Device:    dev-1")
	assert.Contains(t, out, "Hub:       hub-1.azure-devices.net")
	assert.NotContains(t, out, "Attempt:")
}

func TestPrintRecordSimulated(t *testing.T) {
	records := persistence.NewRecordStore(filepath.Join(t.TempDir(), persistence.DefaultFileName))
	require.NoError(t, records.Save(&persistence.ProvisioningRecord{Method: "SIMULATED", Simulated: true}))

	var buf bytes.Buffer
	require.NoError(t, printRecord(&buf, records))
	assert.Contains(t, buf.String(), "Simulated: yes")
	assert.NotContains(t, buf.String(), "Device:")
}

func TestPrintSlot(t *testing.T) {
	var buf bytes.Buffer
	printSlot(&buf, configstore.Slot{})
	assert.Equal(t, "No device configured\n", buf.String())

	buf.Reset()
	printSlot(&buf, configstore.Slot{Kind: configstore.SlotSimulated})
	assert.Equal(t, "Using a simulated connection\n", buf.String())

	client := mocks.NewMockClient(t)
	client.EXPECT().DeviceID().Return("dev-1")
	client.EXPECT().ModelID().Return("model-1")
	client.EXPECT().AssignedHub().Return("hub-1")

	buf.Reset()
	printSlot(&buf, configstore.Slot{Kind: configstore.SlotConnected, Client: client})
	assert.Equal(t, "Connected device dev-1 (model model-1) via hub-1\n", buf.String())
}

func TestSwitchWriter(t *testing.T) {
	var first, second bytes.Buffer
	sw := &switchWriter{w: &first}

	_, err := io.WriteString(sw, "a")
	require.NoError(t, err)
	sw.set(&second)
	_, err = io.WriteString(sw, "b")
	require.NoError(t, err)

	assert.Equal(t, "a", first.String())
	assert.Equal(t, "b", second.String())
}

func TestMetricsServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.AttemptStarted("NUMERIC")

	ts := httptest.NewServer(metricsServer(":0", reg).Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/livez")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "iotc_provision_attempts_total")
}
