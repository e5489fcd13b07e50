package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/evertext-autopilot/internal/domain"
	"github.com/bnema/evertext-autopilot/internal/ports"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type runDoneMsg struct {
	err error
}

type runNoticeMsg struct {
	notification domain.Notification
}

type runSpinnerModel struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	high    lipgloss.Style
	err     error
	done    bool
}

func newRunSpinnerModel(label string, run tea.Cmd) runSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return runSpinnerModel{
		spinner: s,
		label:   label,
		run:     run,
		high:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (m runSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m runSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case runNoticeMsg:
		text := msg.notification.Text
		if msg.notification.Priority == domain.PriorityHigh {
			text = m.high.Render(text)
		}
		return m, tea.Println(text)
	case runDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m runSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// programNotifier prints notifications addressed to channelID above the
// spinner and drops the rest.
type programNotifier struct {
	program   *tea.Program
	channelID string
}

var _ ports.Notifier = (*programNotifier)(nil)

func (n *programNotifier) Notify(notification domain.Notification) {
	if notification.ChannelID != n.channelID {
		return
	}
	n.program.Send(runNoticeMsg{notification: notification})
}

// runWithSpinner shows label while run executes. Notifications run emits to
// channelID are printed as they arrive.
func runWithSpinner(ctx context.Context, output io.Writer, label string, channelID string, run func(context.Context, ports.Notifier) error) error {
	notifier := &programNotifier{channelID: channelID}

	runCmd := func() tea.Msg {
		return runDoneMsg{err: run(ctx, notifier)}
	}

	p := tea.NewProgram(
		newRunSpinnerModel(label, runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)
	notifier.program = p

	finalModel, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	result, ok := finalModel.(runSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
