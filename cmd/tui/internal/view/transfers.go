package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwestbrook/signoff/internal/transfer"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

type transfersState int

const (
	transfersStateBrowse transfersState = iota
	transfersStateCreate
	transfersStateRequest
)

type TransfersModel struct {
	CommonModel
	transferService *transfer.Service
	viewer          viewer.Viewer

	state transfersState
	table table.Model
	txs   []*workflow.Transaction
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formTo     string
	formAmount string
	formDesc   string
	formReason string
}

func NewTransfersModel(transferSvc *transfer.Service, v viewer.Viewer) TransfersModel {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Date", Width: 17},
		{Title: "Status", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "From", Width: 14},
		{Title: "To", Width: 14},
		{Title: "Description", Width: 30},
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

	return TransfersModel{
		transferService: transferSvc,
		viewer:          v,
		table:           t,
		loading:         true,
	}
}

func (m TransfersModel) Title() string { return "My Transactions" }
func (m TransfersModel) ShortHelp() string {
	if m.state != transfersStateBrowse {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | n: new | a: request approval | c: complete | r: refresh"
}

func (m TransfersModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransfersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTransfersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case transferOpMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}
		m.state = transfersStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case transfersStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m TransfersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "n":
			return m.enterCreateMode()
		case "a":
			return m.enterRequestMode()
		case "c":
			if tx := m.selected(); tx != nil {
				return m, m.completeCmd(tx.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TransfersModel) selected() *workflow.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m TransfersModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.formTo = ""
	m.formAmount = ""
	m.formDesc = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("to").
				Title("Recipient address").
				Placeholder("0x...").
				Value(&m.formTo).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("recipient cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount).
				Validate(func(s string) error {
					if _, err := strconv.ParseUint(s, 10, 64); err != nil {
						return fmt.Errorf("amount must be a whole number")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = transfersStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m TransfersModel) enterRequestMode() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil || tx.Status != workflow.TxPending {
		m.status = "Select a pending transaction first"
		return m, nil
	}

	m.formReason = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reason").
				Title("Reason for approval").
				Value(&m.formReason).
				Validate(func(s string) error {
					if len(s) > workflow.MaxReasonLen {
						return fmt.Errorf("reason is limited to %d characters", workflow.MaxReasonLen)
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = transfersStateRequest
	m.table.Blur()
	return m, m.form.Init()
}

func (m TransfersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = transfersStateBrowse
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

	if m.state == transfersStateCreate {
		return m, m.createCmd()
	}

	return m, m.requestApprovalCmd()
}

func (m TransfersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state != transfersStateBrowse && m.form != nil {
		title := "New Transaction"
		if m.state == transfersStateRequest {
			title = "Request Approval"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TransfersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			strconv.FormatUint(tx.ID, 10),
			FormatDate(tx.Timestamp),
			tx.Status.String(),
			FormatAmount(tx.Amount),
			ShortAddr(tx.From),
			ShortAddr(tx.To),
			tx.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadTransfersMsg struct {
	txs []*workflow.Transaction
	err error
}

func (m TransfersModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		txs, err := m.transferService.Transactions(ctx, m.viewer.Address)
		return loadTransfersMsg{txs: txs, err: err}
	}
}

type transferOpMsg struct {
	done string
	err  error
}

func (m TransfersModel) createCmd() tea.Cmd {
	to := m.formTo
	desc := m.formDesc
	amount, err := strconv.ParseUint(m.formAmount, 10, 64)
	if err != nil {
		return func() tea.Msg { return transferOpMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.transferService.Create(ctx, m.viewer, to, amount, desc); err != nil {
			return transferOpMsg{err: err}
		}

		return transferOpMsg{done: "Transaction created"}
	}
}

func (m TransfersModel) requestApprovalCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	id := tx.ID
	reason := m.formReason

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.transferService.RequestApproval(ctx, m.viewer, id, reason); err != nil {
			return transferOpMsg{err: err}
		}

		return transferOpMsg{done: "Approval requested"}
	}
}

func (m TransfersModel) completeCmd(id uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.transferService.Complete(ctx, m.viewer, id); err != nil {
			return transferOpMsg{err: err}
		}

		return transferOpMsg{done: "Transaction completed"}
	}
}
