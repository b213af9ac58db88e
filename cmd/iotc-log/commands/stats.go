package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/iotc-provision/provision-go/pkg/log"
)

// RunStats prints aggregate statistics for the matching events of path.
func RunStats(path string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	printStats(w, log.Summarize(events))
	return nil
}

func printStats(w io.Writer, stats log.Stats) {
	fmt.Fprintln(w, "=== Provisioning Log Statistics ===")
	fmt.Fprintln(w)

	if stats.Events > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.First.Format(time.RFC3339),
			stats.Last.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.Last.Sub(stats.First).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.Events)
	fmt.Fprintf(w, "Attempts:     %d\n", stats.Attempts)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Outcomes:")
	for _, o := range []log.Outcome{log.OutcomeConnected, log.OutcomeSimulated, log.OutcomeFailed} {
		if count := stats.Outcomes[o]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", o.String()+":", count)
		}
	}
	if stats.MeanDuration > 0 {
		fmt.Fprintf(w, "  Mean duration: %s\n", formatDuration(stats.MeanDuration))
	}

	if layers := stats.Layers(); len(layers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors by Layer:")
		for _, l := range layers {
			fmt.Fprintf(w, "  %-12s %d\n", l.String()+":", stats.ErrorsByLayer[l])
		}
	}
}
