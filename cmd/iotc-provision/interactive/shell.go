// Package interactive provides the line-oriented front-end for
// iotc-provision.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/iotc-provision/provision-go/pkg/configstore"
	"github.com/iotc-provision/provision-go/pkg/persistence"
	"github.com/iotc-provision/provision-go/pkg/workflow"
)

// Shell drives a workflow from typed commands.
type Shell struct {
	wf      *workflow.Workflow
	store   *configstore.Store
	records *persistence.RecordStore
	rl      *readline.Instance
	out     io.Writer
}

// New creates a shell reading from the terminal. records may be nil.
func New(wf *workflow.Workflow, store *configstore.Store, records *persistence.RecordStore) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(wf.View()),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s := newShell(wf, store, records, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(wf *workflow.Workflow, store *configstore.Store, records *persistence.RecordStore, out io.Writer) *Shell {
	s := &Shell{wf: wf, store: store, records: records, out: out}
	store.Subscribe(s.handleAction)
	return s
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use it for log output.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run reads commands until quit, EOF, or ctx is done.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()
	s.printView()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.rl.SetPrompt(prompt(s.wf.View()))
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				// Ctrl-C acts as the hardware back action.
				s.back()
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Exec(ctx, line) {
			cancel()
			return
		}
	}
}

// Exec runs one command line and reports whether the shell should keep running.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	rest := strings.TrimSpace(input[len(parts[0]):])

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "numeric", "n":
		s.report(s.wf.ChooseNumeric())
	case "scan", "s":
		if rest != "" && s.wf.State() == workflow.StateScanning {
			s.submitScan(ctx, rest)
			break
		}
		s.report(s.wf.ChooseScan())
	case "simulate", "sim":
		s.report(s.wf.ChooseSimulated())
	case "code", "c":
		if rest == "" {
			fmt.Fprintln(s.out, "Usage: code <digits>")
			break
		}
		s.submitCode(ctx, rest)
	case "payload", "p":
		if rest == "" {
			fmt.Fprintln(s.out, "Usage: payload <scanned text>")
			break
		}
		s.submitScan(ctx, rest)
	case "back", "b":
		s.back()
	case "dismiss", "d", "ok":
		s.report(s.wf.Dismiss())
	case "status", "st":
		s.printStatus()
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false
	default:
		// Bare input is submitted to the entry screen that is open.
		switch s.wf.State() {
		case workflow.StateEnteringCode:
			s.submitCode(ctx, input)
		case workflow.StateScanning:
			s.submitScan(ctx, input)
		default:
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help')\n", cmd)
			return true
		}
		return true
	}
	return true
}

func (s *Shell) submitCode(ctx context.Context, code string) {
	if s.wf.State() == workflow.StateEnteringCode {
		fmt.Fprintln(s.out, "Connecting...")
	}
	s.report(s.wf.SubmitCode(ctx, code))
}

func (s *Shell) submitScan(ctx context.Context, payload string) {
	if s.wf.State() == workflow.StateScanning {
		fmt.Fprintln(s.out, "Connecting...")
	}
	s.report(s.wf.SubmitScan(ctx, payload))
}

func (s *Shell) back() {
	if !s.wf.Back() {
		fmt.Fprintln(s.out, "Nothing to go back to.")
		return
	}
	s.printView()
}

// report prints the outcome of a workflow operation followed by the view.
// Attempt failures are already summarized by the view's error message.
func (s *Shell) report(err error) {
	var failure *workflow.Failure
	switch {
	case err == nil, errors.As(err, &failure):
	case errors.Is(err, workflow.ErrBusy):
		fmt.Fprintln(s.out, "Please wait, still connecting.")
	case errors.Is(err, workflow.ErrInactive):
		fmt.Fprintln(s.out, "Device already configured.")
	case errors.Is(err, workflow.ErrInvalidTransition):
		fmt.Fprintln(s.out, "Not available here.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	s.printView()
}

func (s *Shell) handleAction(a configstore.Action) {
	if a.Payload == nil {
		fmt.Fprintln(s.out, "[CONNECT] simulated connection")
		return
	}
	fmt.Fprintf(s.out, "[CONNECT] device %s (model %s) via %s\n",
		a.Payload.DeviceID(), a.Payload.ModelID(), a.Payload.AssignedHub())
}

func (s *Shell) printView() {
	v := s.wf.View()
	switch v.State {
	case workflow.StateIdle:
		// Nothing to render.
	case workflow.StateChoosingMethod:
		fmt.Fprintln(s.out, "Verify your device: 'numeric', 'scan' or 'simulate'.")
	case workflow.StateEnteringCode:
		fmt.Fprintln(s.out, "Enter the numeric verification code.")
	case workflow.StateScanning:
		fmt.Fprintln(s.out, "Paste the scanned QR code text.")
	case workflow.StateConnecting:
		fmt.Fprintln(s.out, "Connecting...")
	case workflow.StateError:
		fmt.Fprintln(s.out, v.ErrorMessage)
		fmt.Fprintln(s.out, "Type 'dismiss' to retry, or 'back' to choose another method.")
	}
}

func (s *Shell) printStatus() {
	v := s.wf.View()
	slot := s.store.Current()
	fmt.Fprintf(s.out, "Workflow: %s\n", v.State)
	fmt.Fprintf(s.out, "Config:   %s\n", slot.Kind)
	if slot.Client != nil {
		fmt.Fprintf(s.out, "  Device:    %s\n", slot.Client.DeviceID())
		fmt.Fprintf(s.out, "  Model:     %s\n", slot.Client.ModelID())
		fmt.Fprintf(s.out, "  Hub:       %s\n", slot.Client.AssignedHub())
		fmt.Fprintf(s.out, "  Log level: %s\n", slot.Client.LogLevel())
	}
	if f := s.wf.LastFailure(); f != nil {
		fmt.Fprintf(s.out, "Last failure: %s (attempt %s)\n", f.Kind, f.AttemptID)
	}
	if s.records == nil {
		return
	}
	rec, err := s.records.Load()
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "Record:   unreadable: %v\n", err)
	case rec == nil:
		fmt.Fprintln(s.out, "Record:   none")
	default:
		fmt.Fprintf(s.out, "Record:   %s at %s", rec.Method, rec.SavedAt.Format("2006-01-02 15:04:05"))
		if rec.DeviceID != "" {
			fmt.Fprintf(s.out, " device=%s", rec.DeviceID)
		}
		fmt.Fprintln(s.out)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  numeric, n          Enter a numeric verification code
  scan, s             Scan a QR code (paste its text)
  simulate, sim       Continue with a simulated connection
  code <digits>       Submit a numeric code
  payload <text>      Submit scanned QR text
  back, b, Ctrl-C     Return to the method choice
  dismiss, d          Dismiss an error and retry
  status, st          Show workflow and configuration state
  help, ?             Show this help
  quit, q             Exit`)
}

func prompt(v workflow.View) string {
	switch v.State {
	case workflow.StateEnteringCode:
		return "code> "
	case workflow.StateScanning:
		return "scan> "
	case workflow.StateIdle:
		return "provisioned> "
	default:
		return "provision> "
	}
}
