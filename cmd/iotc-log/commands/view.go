// Package commands implements the iotc-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iotc-provision/provision-go/pkg/log"
)

const timeFormat = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeFormat)

	var typeLabel string
	switch {
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Attempt != nil:
		typeLabel = "Attempt " + event.Attempt.Outcome.String()
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [attempt:%s] %s %s\n", ts, shortenID(event.AttemptID), event.Layer, typeLabel)
	if event.UserID != "" {
		fmt.Fprintf(w, "  User: %s\n", event.UserID)
	}
	if event.DeviceID != "" {
		fmt.Fprintf(w, "  Device: %s\n", event.DeviceID)
	}

	switch {
	case event.StateChange != nil:
		sc := event.StateChange
		if sc.OldState != "" {
			fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
		} else {
			fmt.Fprintf(w, "  -> %s\n", sc.NewState)
		}
		if sc.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
		}
	case event.Attempt != nil:
		a := event.Attempt
		fmt.Fprintf(w, "  Method: %s\n", a.Method)
		if a.Duration > 0 {
			fmt.Fprintf(w, "  Duration: %s\n", formatDuration(a.Duration))
		}
		if a.ModelID != "" {
			fmt.Fprintf(w, "  Model: %s\n", a.ModelID)
		}
		if a.AssignedHub != "" {
			fmt.Fprintf(w, "  Hub: %s\n", a.AssignedHub)
		}
	case event.Error != nil:
		fmt.Fprintf(w, "  Layer: %s\n", event.Error.Layer)
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of an attempt ID, or "-".
func shortenID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView prints the matching events of path.
func RunView(path string, opts FilterOptions, output io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}
