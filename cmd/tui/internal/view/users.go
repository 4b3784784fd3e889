package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

type usersState int

const (
	usersStateBrowse usersState = iota
	usersStateRegister
	usersStateRole
)

type UsersModel struct {
	CommonModel
	userService *user.Service
	viewer      viewer.Viewer

	state usersState
	table table.Model
	users []*workflow.User
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formAddress string
	formName    string
	formEmail   string
	formRole    workflow.Role
}

func NewUsersModel(userSvc *user.Service, v viewer.Viewer) UsersModel {
	columns := []table.Column{
		{Title: "Address", Width: 16},
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 24},
		{Title: "Role", Width: 8},
		{Title: "Since", Width: 17},
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

	return UsersModel{
		userService: userSvc,
		viewer:      v,
		table:       t,
		loading:     true,
	}
}

func (m UsersModel) Title() string { return "Users" }
func (m UsersModel) ShortHelp() string {
	if m.state != usersStateBrowse {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | n: register | u: change role | r: refresh"
}

func (m UsersModel) Init() tea.Cmd {
	return m.loadUsersCmd()
}

func (m UsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadUsersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.users = msg.users
		m.refreshTable()
		return m, nil

	case userOpMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}
		m.state = usersStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadUsersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == usersStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m UsersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadUsersCmd()
		case "n":
			return m.enterRegisterMode()
		case "u":
			return m.enterRoleMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m UsersModel) selected() *workflow.User {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.users) {
		return nil
	}

	return m.users[idx]
}

func roleOptions() []huh.Option[workflow.Role] {
	return []huh.Option[workflow.Role]{
		huh.NewOption("Regular", workflow.RoleRegular),
		huh.NewOption("Manager", workflow.RoleManager),
		huh.NewOption("Admin", workflow.RoleAdmin),
	}
}

func (m UsersModel) enterRegisterMode() (tea.Model, tea.Cmd) {
	if !workflow.CanManageUsers(m.viewer.Role()) {
		m.status = "Only admins can register users"
		return m, nil
	}

	m.formAddress = ""
	m.formName = ""
	m.formEmail = ""
	m.formRole = workflow.RoleRegular

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("address").
				Title("Wallet address").
				Placeholder("0x...").
				Value(&m.formAddress).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("address cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.formEmail),

			huh.NewSelect[workflow.Role]().
				Key("role").
				Title("Role").
				Options(roleOptions()...).
				Value(&m.formRole),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = usersStateRegister
	m.table.Blur()
	return m, m.form.Init()
}

func (m UsersModel) enterRoleMode() (tea.Model, tea.Cmd) {
	if !workflow.CanManageUsers(m.viewer.Role()) {
		m.status = "Only admins can change roles"
		return m, nil
	}

	u := m.selected()
	if u == nil {
		return m, nil
	}

	m.formAddress = u.Address
	m.formRole = u.Role

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[workflow.Role]().
				Key("role").
				Title(fmt.Sprintf("New role for %s", u.Name)).
				Options(roleOptions()...).
				Value(&m.formRole),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = usersStateRole
	m.table.Blur()
	return m, m.form.Init()
}

func (m UsersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = usersStateBrowse
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

	if m.state == usersStateRegister {
		return m, m.registerCmd()
	}

	return m, m.updateRoleCmd()
}

func (m UsersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading users...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state != usersStateBrowse && m.form != nil {
		title := "Register User"
		if m.state == usersStateRole {
			title = "Change Role"
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

func (m *UsersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.users))
	for _, u := range m.users {
		rows = append(rows, table.Row{
			ShortAddr(u.Address),
			u.Name,
			u.Email,
			u.Role.String(),
			FormatDate(u.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadUsersMsg struct {
	users []*workflow.User
	err   error
}

func (m UsersModel) loadUsersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		users, err := m.userService.Users(ctx)
		return loadUsersMsg{users: users, err: err}
	}
}

type userOpMsg struct {
	done string
	err  error
}

func (m UsersModel) registerCmd() tea.Cmd {
	address := m.formAddress
	name := m.formName
	email := m.formEmail
	role := m.formRole

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.userService.Register(ctx, m.viewer, address, name, email, role); err != nil {
			return userOpMsg{err: err}
		}

		return userOpMsg{done: "User registered"}
	}
}

func (m UsersModel) updateRoleCmd() tea.Cmd {
	address := m.formAddress
	role := m.formRole

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if _, err := m.userService.UpdateRole(ctx, m.viewer, address, role); err != nil {
			return userOpMsg{err: err}
		}

		return userOpMsg{done: "Role updated"}
	}
}
