// Package log captures provisioning events for diagnostics.
//
// The verification workflow collapses every failure into one user-facing
// message. This package keeps what the user does not see: which stage
// failed, with which error, during which attempt. It is separate from
// operational logging (slog) and produces a machine-readable trace.
//
// # Basic Usage
//
//	// Development: events to the console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// Field diagnostics: binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/iotc/provision.plog")
//
//	// Both
//	cfg.EventLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
//   - StateChangeEvent: workflow state transitions
//   - AttemptEvent: start and outcome of a verification attempt
//   - ErrorEventData: failures with the stage (layer) that produced them
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys
// (.plog extension). The iotc-log command views and summarizes them.
package log
