package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

type DashboardModel struct {
	CommonModel
	userService *user.Service
	viewer      viewer.Viewer

	metrics user.Metrics
	loading bool
	err     error
}

func NewDashboardModel(userSvc *user.Service, v viewer.Viewer) DashboardModel {
	return DashboardModel{
		userService: userSvc,
		viewer:      v,
		loading:     true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadMetricsCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMetricsMsg:
		m.loading = false
		m.err = msg.err
		m.metrics = msg.metrics

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadMetricsCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	card := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	users := card.Render(fmt.Sprintf("Registered users\n\n%d", m.metrics.Users))
	transactions := card.Render(fmt.Sprintf("Total transactions\n\n%d", m.metrics.Transactions))
	completed := card.Render(fmt.Sprintf("Completed\n\n%d", m.metrics.ByStatus[workflow.TxCompleted]))
	approvals := card.Render(fmt.Sprintf("Pending approvals\n\n%d", m.metrics.PendingApprovals))

	byStatus := fmt.Sprintf("Pending %d | Active %d | Rejected %d",
		m.metrics.ByStatus[workflow.TxPending],
		m.metrics.ByStatus[workflow.TxActive],
		m.metrics.ByStatus[workflow.TxRejected],
	)

	who := fmt.Sprintf("Signed in as %s (%s)", ShortAddr(m.viewer.Address), m.viewer.Role())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Faint(true).PaddingBottom(1).Render(who),
			lipgloss.JoinHorizontal(lipgloss.Top, users, " ", transactions, " ", completed, " ", approvals),
			lipgloss.NewStyle().Faint(true).PaddingTop(1).Render(byStatus),
		),
	)
}

type loadMetricsMsg struct {
	metrics user.Metrics
	err     error
}

func (m DashboardModel) loadMetricsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		metrics, err := m.userService.Metrics(ctx)
		return loadMetricsMsg{metrics: metrics, err: err}
	}
}
