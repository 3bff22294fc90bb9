package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeWarning
	NoticeDanger
)

// noticeDoneMsg fires once the notice has been on screen for its delay.
type noticeDoneMsg struct{}

// Notice shows a single status message with a spinner and exits on its own
// after a fixed delay. Any key dismisses it early.
type Notice struct {
	Kind    NoticeKind
	Message string
	Detail  string
	delay   time.Duration
	spinner spinner.Model
	done    bool
}

func NewNotice(kind NoticeKind, message string, delay time.Duration) Notice {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Notice{Kind: kind, Message: message, delay: delay, spinner: s}
}

// WithDetail adds a secondary line under the message.
func (n Notice) WithDetail(detail string) Notice {
	n.Detail = detail
	return n
}

func (n Notice) Init() tea.Cmd {
	return tea.Batch(n.spinner.Tick, tea.Tick(n.delay, func(time.Time) tea.Msg {
		return noticeDoneMsg{}
	}))
}

func (n Notice) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeDoneMsg, tea.KeyMsg:
		n.done = true
		return n, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		n.spinner, cmd = n.spinner.Update(msg)
		return n, cmd
	}
	return n, nil
}

func (n Notice) View() string {
	style := successStyle
	switch n.Kind {
	case NoticeWarning:
		style = warningStyle
	case NoticeDanger:
		style = dangerStyle
	}

	line := style.Render(n.Message)
	if !n.done {
		line = n.spinner.View() + " " + line
	}
	if n.Detail == "" {
		return docStyle.Render(line) + "\n"
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line, n.Detail)) + "\n"
}

// Done reports whether the notice has finished.
func (n Notice) Done() bool {
	return n.done
}

// ShowNotice runs n until its delay elapses.
func ShowNotice(n Notice) error {
	_, err := tea.NewProgram(n).Run()
	return err
}

// Browse runs the collection browser full screen.
func Browse(store Store) error {
	_, err := tea.NewProgram(NewModel(store), tea.WithAltScreen()).Run()
	return err
}
