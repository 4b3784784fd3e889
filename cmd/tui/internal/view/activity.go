package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwestbrook/signoff/internal/notify"
)

const activityLimit = 50

// NotificationMsg delivers one live notification to the program.
type NotificationMsg struct {
	Notification notify.Notification
}

// WaitForNotification blocks on the feed and converts the next
// notification into a message. The program re-issues it after every
// delivery so the stream keeps flowing.
func WaitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}

		return NotificationMsg{Notification: n}
	}
}

// ActivityModel shows the most recent notifications, newest first.
type ActivityModel struct {
	CommonModel

	entries []notify.Notification
}

func NewActivityModel() ActivityModel {
	return ActivityModel{}
}

func (m ActivityModel) Title() string     { return "Activity" }
func (m ActivityModel) ShortHelp() string { return "Esc: back" }

func (m ActivityModel) Init() tea.Cmd {
	return nil
}

// Push records a notification. The caller routes these in from the
// program's top level so nothing is missed while another view is
// focused.
func (m *ActivityModel) Push(n notify.Notification) {
	m.entries = append([]notify.Notification{n}, m.entries...)
	if len(m.entries) > activityLimit {
		m.entries = m.entries[:activityLimit]
	}
}

func (m ActivityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" {
			return m, Back
		}
	}

	return m, nil
}

func (m ActivityModel) View() string {
	if len(m.entries) == 0 {
		return lipgloss.NewStyle().Padding(2).Faint(true).Render("No activity yet.")
	}

	out := ""
	for _, n := range m.entries {
		out += fmt.Sprintf("%s  %s %s\n    %s\n",
			n.At.Format("15:04:05"),
			severityBadge(n.Severity),
			n.Title,
			lipgloss.NewStyle().Faint(true).Render(n.Detail),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(out)
}

func severityBadge(s notify.Severity) string {
	style := lipgloss.NewStyle().Bold(true)

	switch s {
	case notify.SeveritySuccess:
		return style.Foreground(lipgloss.Color("42")).Render("✓")
	case notify.SeverityWarning:
		return style.Foreground(lipgloss.Color("214")).Render("!")
	case notify.SeverityError:
		return style.Foreground(lipgloss.Color("196")).Render("✗")
	default:
		return style.Foreground(lipgloss.Color("63")).Render("•")
	}
}
