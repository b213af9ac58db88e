package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iotc-provision/provision-go/pkg/log"
)

// FilterOptions holds the textual filter flags shared by all commands.
type FilterOptions struct {
	AttemptID string
	DeviceID  string
	UserID    string
	Since     string
	Until     string
	Layer     string
	Category  string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		AttemptID: o.AttemptID,
		DeviceID:  o.DeviceID,
		UserID:    o.UserID,
	}

	if o.Since != "" {
		t, err := time.Parse(time.RFC3339, o.Since)
		if err != nil {
			return filter, fmt.Errorf("invalid since format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.Until != "" {
		t, err := time.Parse(time.RFC3339, o.Until)
		if err != nil {
			return filter, fmt.Errorf("invalid until format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, ok := log.ParseLayer(o.Layer)
		if !ok {
			return filter, fmt.Errorf("invalid layer: %s (must be workflow, source, decode, connect, or store)", o.Layer)
		}
		filter.Layer = &l
	}
	if o.Category != "" {
		c, ok := log.ParseCategory(o.Category)
		if !ok {
			return filter, fmt.Errorf("invalid category: %s (must be state, attempt, or error)", o.Category)
		}
		filter.Category = &c
	}
	return filter, nil
}

// RunFilter writes the events of path that match opts to output.
func RunFilter(path, output string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
