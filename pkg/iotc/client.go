package iotc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iotc-provision/provision-go/pkg/credential"
)

// Client errors.
var (
	// ErrConnection is matched by every *ConnectionError.
	ErrConnection = errors.New("device connection failed")

	// ErrNotConnected is returned by operations on a disconnected client.
	ErrNotConnected = errors.New("client not connected")
)

// ConnectionError reports a failed Connect.
type ConnectionError struct {
	DeviceID string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v: device %s: %v", ErrConnection, e.DeviceID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConnection) hold for any ConnectionError.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// LogLevel is the client's logging verbosity.
type LogLevel uint8

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelAll
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "OFF"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelAll:
		return "ALL"
	default:
		return "UNKNOWN"
	}
}

// Client is a connected handle to the device-management service.
type Client interface {
	DeviceID() string
	ModelID() string
	ScopeID() string
	AssignedHub() string
	LogLevel() LogLevel
	IsConnected() bool
	Disconnect(ctx context.Context) error
}

// Factory creates connected clients.
type Factory interface {
	Connect(ctx context.Context, creds credential.Credentials) (Client, error)
}

// DeviceClient is the Client returned by DPSFactory.
type DeviceClient struct {
	mu sync.RWMutex

	creds       credential.Credentials
	assignedHub string
	logLevel    LogLevel
	connected   bool
}

func newDeviceClient(creds credential.Credentials, hub string) *DeviceClient {
	return &DeviceClient{
		creds:       creds,
		assignedHub: hub,
		logLevel:    LogLevelAll,
		connected:   true,
	}
}

// DeviceID returns the registered device ID.
func (c *DeviceClient) DeviceID() string {
	return c.creds.DeviceID
}

// ModelID returns the model ID announced at registration.
func (c *DeviceClient) ModelID() string {
	return c.creds.ModelID
}

// ScopeID returns the provisioning scope.
func (c *DeviceClient) ScopeID() string {
	return c.creds.ScopeID
}

// AssignedHub returns the hub host the device was assigned to.
func (c *DeviceClient) AssignedHub() string {
	return c.assignedHub
}

// LogLevel returns the client's log verbosity.
func (c *DeviceClient) LogLevel() LogLevel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logLevel
}

// IsConnected reports whether Disconnect has not been called yet.
func (c *DeviceClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Disconnect releases the client. Calling it twice returns ErrNotConnected.
func (c *DeviceClient) Disconnect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	c.connected = false
	return nil
}

// Compile-time interface satisfaction check.
var _ Client = (*DeviceClient)(nil)
