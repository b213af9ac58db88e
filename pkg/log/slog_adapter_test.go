package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func newJSONAdapter(buf *bytes.Buffer) *SlogAdapter {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(h))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogAdapterStateChange(t *testing.T) {
	var buf bytes.Buffer
	a := newJSONAdapter(&buf)

	a.Log(Event{
		Timestamp: time.Now(),
		Layer:     LayerWorkflow,
		Category:  CategoryState,
		UserID:    "u-1",
		StateChange: &StateChangeEvent{
			OldState: "CHOOSING_METHOD",
			NewState: "ENTERING_CODE",
			Reason:   "numeric chosen",
		},
	})

	m := decodeLine(t, &buf)
	if m["msg"] != "provision" {
		t.Errorf("msg = %v, want provision", m["msg"])
	}
	if m["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", m["level"])
	}
	if m["new_state"] != "ENTERING_CODE" || m["old_state"] != "CHOOSING_METHOD" {
		t.Errorf("states = %v -> %v", m["old_state"], m["new_state"])
	}
	if m["user_id"] != "u-1" {
		t.Errorf("user_id = %v", m["user_id"])
	}
	if _, ok := m["attempt_id"]; ok {
		t.Error("attempt_id should be omitted when empty")
	}
}

func TestSlogAdapterAttempt(t *testing.T) {
	var buf bytes.Buffer
	a := newJSONAdapter(&buf)

	a.Log(Event{
		AttemptID: "att-1",
		Layer:     LayerWorkflow,
		Category:  CategoryAttempt,
		Attempt:   &AttemptEvent{Method: "SCANNED", Outcome: OutcomeFailed, Duration: time.Second},
	})

	m := decodeLine(t, &buf)
	if m["outcome"] != "FAILED" || m["method"] != "SCANNED" {
		t.Errorf("attempt attrs = %v/%v", m["method"], m["outcome"])
	}
	if m["attempt_id"] != "att-1" {
		t.Errorf("attempt_id = %v", m["attempt_id"])
	}
}

func TestSlogAdapterErrorAtWarn(t *testing.T) {
	var buf bytes.Buffer
	a := newJSONAdapter(&buf)

	a.Log(Event{
		Layer:    LayerConnect,
		Category: CategoryError,
		Error:    &ErrorEventData{Layer: LayerConnect, Message: "registration failed"},
	})

	m := decodeLine(t, &buf)
	if m["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", m["level"])
	}
	if m["error_layer"] != "CONNECT" || m["error_msg"] != "registration failed" {
		t.Errorf("error attrs = %v/%v", m["error_layer"], m["error_msg"])
	}
	if _, ok := m["error_context"]; ok {
		t.Error("error_context should be omitted when empty")
	}
}
