// Package screen is the full-screen terminal front-end for iotc-provision.
package screen

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iotc-provision/provision-go/pkg/workflow"
)

type methodOption struct {
	label string
	hint  string
}

var methodOptions = []methodOption{
	{"Numeric code", "Type the code shown by the device portal"},
	{"Scan QR code", "Paste the text of the device QR code"},
	{"Simulated connection", "Continue without a real device"},
}

const (
	optionNumeric = iota
	optionScan
	optionSimulate
)

// attemptDoneMsg carries the result of a submit that ran off the UI loop.
type attemptDoneMsg struct {
	err error
}

// Model is the bubbletea model wrapping a workflow.
type Model struct {
	wf     *workflow.Workflow
	ctx    context.Context
	keys   KeyMap
	input  textinput.Model
	spin   spinner.Model
	cursor int
	width  int
	done   bool
}

// NewModel creates the screen model. ctx bounds verification attempts.
func NewModel(ctx context.Context, wf *workflow.Workflow) Model {
	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		wf:    wf,
		ctx:   ctx,
		keys:  DefaultKeyMap,
		input: ti,
		spin:  sp,
	}
}

// Done reports whether a configuration was published.
func (m Model) Done() bool { return m.done }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case attemptDoneMsg:
		return m.afterAttempt()

	case spinner.TickMsg:
		if m.wf.State() != workflow.StateConnecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Back) {
			if m.wf.Back() {
				m.reset()
			}
			return m, nil
		}
	}

	switch m.wf.State() {
	case workflow.StateChoosingMethod:
		return m.updateChoosing(msg)
	case workflow.StateEnteringCode, workflow.StateScanning:
		return m.updateEntry(msg)
	case workflow.StateError:
		return m.updateError(msg)
	case workflow.StateIdle:
		m.done = true
		return m, tea.Quit
	}
	// Connecting: input is disabled until the attempt resolves.
	return m, nil
}

func (m Model) updateChoosing(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < len(methodOptions)-1 {
			m.cursor++
		}
	case key.Matches(k, m.keys.Numeric):
		return m.choose(optionNumeric)
	case key.Matches(k, m.keys.Scan):
		return m.choose(optionScan)
	case key.Matches(k, m.keys.Simulate):
		return m.choose(optionSimulate)
	case key.Matches(k, m.keys.Select):
		return m.choose(m.cursor)
	}
	return m, nil
}

func (m Model) choose(option int) (tea.Model, tea.Cmd) {
	m.cursor = option
	switch option {
	case optionNumeric:
		if m.wf.ChooseNumeric() == nil {
			m.input.Placeholder = "123456"
			return m, m.input.Focus()
		}
	case optionScan:
		if m.wf.ChooseScan() == nil {
			m.input.Placeholder = "IOTC:1:…"
			return m, m.input.Focus()
		}
	case optionSimulate:
		if m.wf.ChooseSimulated() == nil {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Select) {
		value := m.input.Value()
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		m.input.Blur()
		return m, tea.Batch(m.submit(m.wf.State(), value), m.spin.Tick)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the attempt off the UI loop. The workflow itself rejects
// concurrent submits, so a second Enter while connecting is harmless.
func (m Model) submit(state workflow.State, value string) tea.Cmd {
	wf, ctx := m.wf, m.ctx
	return func() tea.Msg {
		var err error
		if state == workflow.StateEnteringCode {
			err = wf.SubmitCode(ctx, value)
		} else {
			err = wf.SubmitScan(ctx, value)
		}
		return attemptDoneMsg{err: err}
	}
}

func (m Model) afterAttempt() (tea.Model, tea.Cmd) {
	if m.wf.State() == workflow.StateIdle {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Select) {
		if m.wf.Dismiss() == nil {
			return m, m.input.Focus()
		}
	}
	return m, nil
}

// reset clears entry state after a back action.
func (m *Model) reset() {
	m.input.Reset()
	m.input.Blur()
	m.cursor = 0
}

func (m Model) View() string {
	v := m.wf.View()
	switch v.State {
	case workflow.StateIdle:
		return ""
	case workflow.StateChoosingMethod:
		return m.viewChoosing()
	case workflow.StateEnteringCode:
		return m.viewEntry("Enter verification code", "Digits only; spaces and dashes are ignored.")
	case workflow.StateScanning:
		return m.viewEntry("Scan QR code", "Paste the scanned text and press Enter.")
	case workflow.StateConnecting:
		return fmt.Sprintf("%s Connecting device...\n", m.spin.View())
	case workflow.StateError:
		return m.viewError(v.ErrorMessage)
	}
	return ""
}

func (m Model) viewChoosing() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Verify your device"))
	b.WriteString("\n\n")
	for i, opt := range methodOptions {
		cursor := "  "
		label := opt.label
		if m.cursor == i {
			cursor = cursorStyle.Render("> ")
			label = selectedStyle.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s%-22s %s\n", cursor, label, subtitleStyle.Render(opt.hint)))
	}
	b.WriteString(helpStyle.Render("\n↑/↓ to move, Enter to select, n/s/m shortcuts, ctrl+c to quit"))
	return b.String()
}

func (m Model) viewEntry(title, hint string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(hint))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("\nEnter to verify, Esc to go back"))
	return b.String()
}

func (m Model) viewError(message string) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(message))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("\nEnter to try again, Esc to choose another method"))
	return b.String()
}
