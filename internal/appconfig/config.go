// Package appconfig loads iotc-provision settings from a YAML file.
package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iotc-provision/provision-go/pkg/iotc"
)

// Front-end modes.
const (
	ModeShell  = "shell"
	ModeScreen = "screen"
)

// DefaultDPSEndpoint is the global device provisioning endpoint.
const DefaultDPSEndpoint = iotc.DefaultEndpoint

// Config holds the provisioning tool settings.
type Config struct {
	// UserID is the signed-in user; payloads are sealed for this identity.
	UserID string `yaml:"user_id"`

	// LookupURL is the base URL of the code exchange service.
	LookupURL string `yaml:"lookup_url"`

	// LookupRate and LookupBurst throttle code exchanges. A negative rate
	// disables throttling.
	LookupRate  float64 `yaml:"lookup_rate"`
	LookupBurst int     `yaml:"lookup_burst"`

	// DPSEndpoint is the device provisioning service base URL.
	DPSEndpoint string `yaml:"dps_endpoint"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// ProtocolLog is the .plog file path; empty disables event capture.
	ProtocolLog string `yaml:"protocol_log"`

	// StateDir holds the provisioning record.
	StateDir string `yaml:"state_dir"`

	// MetricsAddr serves /metrics when set (e.g. ":9100").
	MetricsAddr string `yaml:"metrics_addr"`

	// Mode selects the front-end: shell or screen.
	Mode string `yaml:"mode"`
}

// LoadError reports a problem with a configuration file.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		LookupRate:  1,
		LookupBurst: 3,
		DPSEndpoint: DefaultDPSEndpoint,
		LogLevel:    "info",
		StateDir:    defaultStateDir(),
		Mode:        ModeShell,
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "iotc-provision")
	}
	return ".iotc-provision"
}

// Parse decodes YAML on top of Defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	return cfg, nil
}

// Load reads path. An empty path returns Defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings a run needs.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.UserID) == "" {
		problems = append(problems, "user_id is required")
	}
	if c.LookupURL != "" {
		if u, err := url.Parse(c.LookupURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("lookup_url %q is not an absolute URL", c.LookupURL))
		}
	}
	if u, err := url.Parse(c.DPSEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("dps_endpoint %q is not an absolute URL", c.DPSEndpoint))
	}
	if c.LookupRate >= 0 && c.LookupBurst < 1 {
		problems = append(problems, "lookup_burst must be at least 1")
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Mode != ModeShell && c.Mode != ModeScreen {
		problems = append(problems, fmt.Sprintf("mode %q must be %s or %s", c.Mode, ModeShell, ModeScreen))
	}
	if len(problems) > 0 {
		return &LoadError{Message: "invalid configuration", Cause: errors.New(strings.Join(problems, "; "))}
	}
	return nil
}

// SlogLevel converts LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// RecordPath is the provisioning record inside StateDir.
func (c Config) RecordPath(fileName string) string {
	return filepath.Join(c.StateDir, fileName)
}
