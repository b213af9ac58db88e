package iotc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iotc-provision/provision-go/pkg/credential"
)

// DPS defaults.
const (
	// DefaultEndpoint is the global device provisioning endpoint.
	DefaultEndpoint = "https://global.azure-devices-provisioning.net"

	// APIVersion is the REST API version used for registration.
	APIVersion = "2021-06-01"
)

// Registration status values reported by the service.
const (
	statusAssigning = "assigning"
	statusAssigned  = "assigned"
	statusFailed    = "failed"
	statusDisabled  = "disabled"
)

// DPSConfig configures a DPSFactory.
type DPSConfig struct {
	// Endpoint is the provisioning service root. Defaults to DefaultEndpoint.
	Endpoint string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// PollInitial and PollMax shape the status poll schedule.
	PollInitial time.Duration
	PollMax     time.Duration

	// TokenTTL is the SAS token validity. Defaults to DefaultTokenTTL.
	TokenTTL time.Duration

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DPSFactory registers devices with the device provisioning service.
type DPSFactory struct {
	endpoint    string
	httpClient  *http.Client
	pollInitial time.Duration
	pollMax     time.Duration
	tokenTTL    time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

type registerRequest struct {
	RegistrationID string          `json:"registrationId"`
	Payload        registerPayload `json:"payload"`
}

type registerPayload struct {
	ModelID string `json:"modelId,omitempty"`
}

type operationStatus struct {
	OperationID       string             `json:"operationId"`
	Status            string             `json:"status"`
	RegistrationState *registrationState `json:"registrationState,omitempty"`
}

type registrationState struct {
	RegistrationID string `json:"registrationId"`
	AssignedHub    string `json:"assignedHub"`
	DeviceID       string `json:"deviceId"`
	Status         string `json:"status"`
	ErrorCode      int    `json:"errorCode,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// NewDPSFactory creates a factory from cfg.
func NewDPSFactory(cfg DPSConfig) *DPSFactory {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DPSFactory{
		endpoint:    endpoint,
		httpClient:  httpClient,
		pollInitial: cfg.PollInitial,
		pollMax:     cfg.PollMax,
		tokenTTL:    ttl,
		logger:      logger,
		now:         time.Now,
	}
}

// Connect registers the device and returns a connected client.
func (f *DPSFactory) Connect(ctx context.Context, creds credential.Credentials) (Client, error) {
	fail := func(err error) (Client, error) {
		return nil, &ConnectionError{DeviceID: creds.DeviceID, Err: err}
	}

	if err := creds.Validate(); err != nil {
		return fail(fmt.Errorf("malformed credentials: %w", err))
	}
	if err := checkIDs(creds); err != nil {
		return fail(fmt.Errorf("malformed credentials: %w", err))
	}

	resource := fmt.Sprintf("%s/registrations/%s", url.PathEscape(creds.ScopeID), url.PathEscape(creds.DeviceID))
	token, err := SASToken(resource, creds.DeviceKey, f.now().Add(f.tokenTTL))
	if err != nil {
		return fail(err)
	}

	body, err := json.Marshal(registerRequest{
		RegistrationID: creds.DeviceID,
		Payload:        registerPayload{ModelID: creds.ModelID},
	})
	if err != nil {
		return fail(err)
	}

	registerURL := f.url(resource + "/register")
	f.logger.Debug("registering device", "device_id", creds.DeviceID, "scope_id", creds.ScopeID, "model_id", creds.ModelID)

	status, hint, err := f.do(ctx, http.MethodPut, registerURL, token, body)
	if err != nil {
		return fail(err)
	}

	schedule := newPollSchedule(f.pollInitial, f.pollMax)
	for status.Status == statusAssigning {
		if status.OperationID == "" {
			return fail(errors.New("assigning without operation ID"))
		}

		wait := schedule.next(hint)
		f.logger.Debug("registration pending", "device_id", creds.DeviceID, "operation_id", status.OperationID, "wait", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fail(ctx.Err())
		case <-timer.C:
		}

		opURL := f.url(resource + "/operations/" + url.PathEscape(status.OperationID))
		status, hint, err = f.do(ctx, http.MethodGet, opURL, token, nil)
		if err != nil {
			return fail(err)
		}
	}

	switch status.Status {
	case statusAssigned:
	case statusFailed, statusDisabled:
		msg := status.Status
		if rs := status.RegistrationState; rs != nil && rs.ErrorMessage != "" {
			msg = fmt.Sprintf("%s: %s (code %d)", status.Status, rs.ErrorMessage, rs.ErrorCode)
		}
		return fail(fmt.Errorf("registration %s", msg))
	default:
		return fail(fmt.Errorf("unexpected registration status %q", status.Status))
	}

	rs := status.RegistrationState
	if rs == nil || rs.AssignedHub == "" {
		return fail(errors.New("assigned without hub"))
	}

	f.logger.Debug("device assigned", "device_id", creds.DeviceID, "hub", rs.AssignedHub)
	return newDeviceClient(creds, rs.AssignedHub), nil
}

// maxRegistrationIDLength is the longest registration ID the service accepts.
const maxRegistrationIDLength = 128

// checkIDs rejects scope and registration IDs that cannot name a
// registration resource. Scope IDs are alphanumeric; registration IDs may
// also contain '-', '.', '_' and ':'.
func checkIDs(creds credential.Credentials) error {
	for _, r := range creds.ScopeID {
		if !isAlnum(r) {
			return fmt.Errorf("scope ID contains %q", r)
		}
	}
	if len(creds.DeviceID) > maxRegistrationIDLength {
		return fmt.Errorf("device ID longer than %d characters", maxRegistrationIDLength)
	}
	for _, r := range creds.DeviceID {
		if !isAlnum(r) && !strings.ContainsRune("-._:", r) {
			return fmt.Errorf("device ID contains %q", r)
		}
	}
	return nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (f *DPSFactory) url(path string) string {
	return fmt.Sprintf("%s/%s?api-version=%s", f.endpoint, path, APIVersion)
}

// do performs one request and decodes the operation status.
func (f *DPSFactory) do(ctx context.Context, method, target, token string, body []byte) (*operationStatus, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, 0, fmt.Errorf("authentication rejected (status %d)", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("request failed with code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var status operationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, 0, fmt.Errorf("failed to parse registration response: %w", err)
	}
	return &status, retryAfter(resp.Header), nil
}

// Compile-time interface satisfaction check.
var _ Factory = (*DPSFactory)(nil)
