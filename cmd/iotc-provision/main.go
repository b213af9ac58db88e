// Command iotc-provision verifies a device against the device provisioning
// service and publishes the resulting client for the session.
//
// The user picks a numeric code, a scanned QR payload, or a simulated
// connection. Codes are exchanged with the code service, payloads are
// opened with the user's identity, and the device is registered through
// DPS. Failures show a single generic message; details go to the log.
//
// Usage:
//
//	iotc-provision [flags]
//
// Flags:
//
//	-config string        YAML configuration file
//	-user string          Signed-in user ID (required)
//	-lookup-url string    Code exchange service base URL
//	-lookup-rate float    Code lookups per second; negative disables throttling (default 1)
//	-lookup-burst int     Code lookups allowed back to back (default 3)
//	-dps-endpoint string  Device provisioning service endpoint
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write provisioning events to this .plog file
//	-state-dir string     Directory for the provisioning record
//	-metrics-addr string  Serve Prometheus metrics on this address
//	-mode string          Front-end: shell or screen (default "shell")
//	-status               Print the stored provisioning record and exit
//	-reset                Remove the stored provisioning record and exit
//
// Examples:
//
//	# Interactive shell against a local code server
//	iotc-provision -user alice -lookup-url http://localhost:8088
//
//	# Full-screen front-end with event capture
//	iotc-provision -config provision.yaml -mode screen -protocol-log /tmp/provision.plog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotc-provision/provision-go/cmd/iotc-provision/interactive"
	"github.com/iotc-provision/provision-go/cmd/iotc-provision/screen"
	"github.com/iotc-provision/provision-go/internal/appconfig"
	"github.com/iotc-provision/provision-go/pkg/configstore"
	"github.com/iotc-provision/provision-go/pkg/credential"
	"github.com/iotc-provision/provision-go/pkg/iotc"
	plog "github.com/iotc-provision/provision-go/pkg/log"
	"github.com/iotc-provision/provision-go/pkg/lookup"
	"github.com/iotc-provision/provision-go/pkg/metrics"
	"github.com/iotc-provision/provision-go/pkg/persistence"
	"github.com/iotc-provision/provision-go/pkg/workflow"
)

var (
	configFile  string
	showStatus  bool
	resetRecord bool
	flagConfig  = appconfig.Defaults()
)

func init() {
	flag.StringVar(&configFile, "config", "", "YAML configuration file")
	flag.StringVar(&flagConfig.UserID, "user", "", "Signed-in user ID (required)")
	flag.StringVar(&flagConfig.LookupURL, "lookup-url", "", "Code exchange service base URL")
	flag.Float64Var(&flagConfig.LookupRate, "lookup-rate", flagConfig.LookupRate, "Code lookups per second; negative disables throttling")
	flag.IntVar(&flagConfig.LookupBurst, "lookup-burst", flagConfig.LookupBurst, "Code lookups allowed back to back")
	flag.StringVar(&flagConfig.DPSEndpoint, "dps-endpoint", flagConfig.DPSEndpoint, "Device provisioning service endpoint")
	flag.StringVar(&flagConfig.LogLevel, "log-level", flagConfig.LogLevel, "Log level: debug, info, warn, error")
	flag.StringVar(&flagConfig.ProtocolLog, "protocol-log", "", "Write provisioning events to this .plog file")
	flag.StringVar(&flagConfig.StateDir, "state-dir", flagConfig.StateDir, "Directory for the provisioning record")
	flag.StringVar(&flagConfig.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flag.StringVar(&flagConfig.Mode, "mode", flagConfig.Mode, "Front-end: shell or screen")
	flag.BoolVar(&showStatus, "status", false, "Print the stored provisioning record and exit")
	flag.BoolVar(&resetRecord, "reset", false, "Remove the stored provisioning record and exit")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg, err := appconfig.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlags(&cfg)

	records := persistence.NewRecordStore(cfg.RecordPath(persistence.DefaultFileName))
	switch {
	case resetRecord:
		if err := records.Clear(); err != nil {
			log.Fatalf("Failed to remove record: %v", err)
		}
		fmt.Printf("Removed %s\n", records.Path())
		return
	case showStatus:
		if err := printRecord(os.Stdout, records); err != nil {
			log.Fatalf("Failed to read record: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel, cfg, records); err != nil {
		log.Fatalf("%v", err)
	}
}

// applyFlags copies explicitly set flags over file values.
func applyFlags(cfg *appconfig.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "user":
			cfg.UserID = flagConfig.UserID
		case "lookup-url":
			cfg.LookupURL = flagConfig.LookupURL
		case "lookup-rate":
			cfg.LookupRate = flagConfig.LookupRate
		case "lookup-burst":
			cfg.LookupBurst = flagConfig.LookupBurst
		case "dps-endpoint":
			cfg.DPSEndpoint = flagConfig.DPSEndpoint
		case "log-level":
			cfg.LogLevel = flagConfig.LogLevel
		case "protocol-log":
			cfg.ProtocolLog = flagConfig.ProtocolLog
		case "state-dir":
			cfg.StateDir = flagConfig.StateDir
		case "metrics-addr":
			cfg.MetricsAddr = flagConfig.MetricsAddr
		case "mode":
			cfg.Mode = flagConfig.Mode
		}
	})
}

func run(ctx context.Context, cancel context.CancelFunc, cfg appconfig.Config, records *persistence.RecordStore) error {
	level, _ := cfg.SlogLevel()
	logLevel := new(slog.LevelVar)
	logLevel.Set(level)
	// The screen owns the terminal, so it gets no log output. The shell
	// redirects logs through readline once its prompt exists.
	logOut := &switchWriter{w: os.Stderr}
	if cfg.Mode == appconfig.ModeScreen {
		logOut.set(io.Discard)
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	events := []plog.Logger{plog.NewSlogAdapter(logger)}
	if cfg.ProtocolLog != "" {
		fl, err := plog.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return fmt.Errorf("failed to open protocol log: %w", err)
		}
		defer fl.Close()
		events = append(events, fl)
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLog)
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		var err error
		if m, err = metrics.New(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		srv := metricsServer(cfg.MetricsAddr, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var codes credential.CodeLookup
	if cfg.LookupURL != "" {
		lc, err := lookup.NewClient(lookup.Config{
			BaseURL: cfg.LookupURL,
			Rate:    cfg.LookupRate,
			Burst:   cfg.LookupBurst,
		})
		if err != nil {
			return err
		}
		codes = lc
	} else {
		logger.Warn("no lookup_url configured; numeric codes will fail")
	}

	store := configstore.New(configstore.NewPersistentRecorder(records))
	wf, err := workflow.New(workflow.Config{
		Identity:    credential.UserIdentity{ID: cfg.UserID},
		Lookup:      codes,
		Decoder:     credential.NewEnvelopeDecoder(),
		Factory:     iotc.NewDPSFactory(iotc.DPSConfig{Endpoint: cfg.DPSEndpoint, Logger: logger}),
		Store:       store,
		EventLogger: plog.NewMultiLogger(events...),
		Metrics:     m,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	switch cfg.Mode {
	case appconfig.ModeScreen:
		if _, err := tea.NewProgram(screen.NewModel(ctx, wf), tea.WithContext(ctx)).Run(); err != nil &&
			!errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("screen: %w", err)
		}
	default:
		sh, err := interactive.New(wf, store, records)
		if err != nil {
			return err
		}
		logOut.set(sh.Stdout())
		sh.Run(ctx, cancel)
		logOut.set(os.Stderr)
	}

	printSlot(os.Stdout, store.Current())
	if slot := store.Current(); slot.Client != nil {
		_ = slot.Client.Disconnect(context.Background())
	}
	return nil
}

// switchWriter is an io.Writer whose destination can change after loggers
// have been built on it.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

func metricsServer(addr string, reg *prometheus.Registry) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
}

func printSlot(w io.Writer, slot configstore.Slot) {
	switch slot.Kind {
	case configstore.SlotConnected:
		fmt.Fprintf(w, "Connected device %s (model %s) via %s\n",
			slot.Client.DeviceID(), slot.Client.ModelID(), slot.Client.AssignedHub())
	case configstore.SlotSimulated:
		fmt.Fprintln(w, "Using a simulated connection")
	default:
		fmt.Fprintln(w, "No device configured")
	}
}

func printRecord(w io.Writer, records *persistence.RecordStore) error {
	rec, err := records.Load()
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Fprintf(w, "No provisioning record at %s\n", records.Path())
		return nil
	}
	fmt.Fprintf(w, "Method:    %s\n", rec.Method)
	fmt.Fprintf(w, "Saved:     %s\n", rec.SavedAt.Format(time.RFC3339))
	if rec.UserID != "" {
		fmt.Fprintf(w, "User:      %s\n", rec.UserID)
	}
	if rec.Simulated {
		fmt.Fprintln(w, "Simulated: yes")
		return nil
	}
	fmt.Fprintf(w, "Device:    %s\n", rec.DeviceID)
	fmt.Fprintf(w, "Model:     %s\n", rec.ModelID)
	fmt.Fprintf(w, "Scope:     %s\n", rec.ScopeID)
	fmt.Fprintf(w, "Hub:       %s\n", rec.AssignedHub)
	if rec.AttemptID != "" {
		fmt.Fprintf(w, "Attempt:   %s\n", rec.AttemptID)
	}
	return nil
}
