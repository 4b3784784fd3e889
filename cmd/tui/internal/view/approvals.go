package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwestbrook/signoff/internal/transfer"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

type approvalsState int

const (
	approvalsStateBrowse approvalsState = iota
	approvalsStateProcess
)

type ApprovalsModel struct {
	CommonModel
	transferService *transfer.Service
	viewer          viewer.Viewer

	state     approvalsState
	table     table.Model
	approvals []*workflow.Approval
	form      *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formApprove bool
	formReason  string
}

func NewApprovalsModel(transferSvc *transfer.Service, v viewer.Viewer) ApprovalsModel {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Tx", Width: 5},
		{Title: "Date", Width: 17},
		{Title: "Requester", Width: 14},
		{Title: "Reason", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ApprovalsModel{
		transferService: transferSvc,
		viewer:          v,
		table:           t,
		loading:         true,
	}
}

func (m ApprovalsModel) Title() string { return "Pending Approvals" }
func (m ApprovalsModel) ShortHelp() string {
	if m.state == approvalsStateProcess {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | p: process | r: refresh"
}

func (m ApprovalsModel) Init() tea.Cmd {
	return m.loadApprovalsCmd()
}

func (m ApprovalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadApprovalsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.approvals = msg.approvals
		m.refreshTable()
		return m, nil

	case approvalOpMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}
		m.state = approvalsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadApprovalsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == approvalsStateProcess {
		return m.updateProcess(msg)
	}

	return m.updateBrowse(msg)
}

func (m ApprovalsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadApprovalsCmd()
		case "p":
			return m.enterProcessMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ApprovalsModel) selected() *workflow.Approval {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.approvals) {
		return nil
	}

	return m.approvals[idx]
}

func (m ApprovalsModel) enterProcessMode() (tea.Model, tea.Cmd) {
	if !workflow.CanViewApprovals(m.viewer.Role()) {
		m.status = "Only managers can process approvals"
		return m, nil
	}

	if m.selected() == nil {
		return m, nil
	}

	m.formApprove = true
	m.formReason = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Key("decision").
				Title("Decision").
				Options(
					huh.NewOption("Approve", true),
					huh.NewOption("Reject", false),
				).
				Value(&m.formApprove),

			huh.NewInput().
				Key("reason").
				Title("Comment").
				Value(&m.formReason).
				Validate(func(s string) error {
					if len(s) > workflow.MaxReasonLen {
						return fmt.Errorf("comment is limited to %d characters", workflow.MaxReasonLen)
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = approvalsStateProcess
	m.table.Blur()
	return m, m.form.Init()
}

func (m ApprovalsModel) updateProcess(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = approvalsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.processCmd()
}

func (m ApprovalsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading approvals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state == approvalsStateProcess && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Process Approval\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ApprovalsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.approvals))
	for _, a := range m.approvals {
		rows = append(rows, table.Row{
			strconv.FormatUint(a.ID, 10),
			strconv.FormatUint(a.TransactionID, 10),
			FormatDate(a.Timestamp),
			ShortAddr(a.Requester),
			a.Reason,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadApprovalsMsg struct {
	approvals []*workflow.Approval
	err       error
}

func (m ApprovalsModel) loadApprovalsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		approvals, err := m.transferService.PendingApprovals(ctx)
		return loadApprovalsMsg{approvals: approvals, err: err}
	}
}

type approvalOpMsg struct {
	done string
	err  error
}

func (m ApprovalsModel) processCmd() tea.Cmd {
	a := m.selected()
	if a == nil {
		return nil
	}

	id := a.ID
	approve := m.formApprove
	reason := m.formReason

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.transferService.ProcessApproval(ctx, m.viewer, id, approve, reason); err != nil {
			return approvalOpMsg{err: err}
		}

		if approve {
			return approvalOpMsg{done: "Approval granted"}
		}

		return approvalOpMsg{done: "Approval rejected"}
	}
}
