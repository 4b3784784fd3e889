package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/mwestbrook/signoff/cmd/tui/internal/view"
	"github.com/mwestbrook/signoff/internal/config"
	"github.com/mwestbrook/signoff/internal/ledger/memledger"
	"github.com/mwestbrook/signoff/internal/notify"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/reconcile"
	"github.com/mwestbrook/signoff/internal/transfer"
	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

const defaultViewerAddress = "0x0000000000000000000000000000000000000a11"

type model struct {
	transferService *transfer.Service
	userService     *user.Service
	viewer          viewer.Viewer
	feed            *notify.Feed

	currentView View

	dashboardView view.DashboardModel
	transfersView view.TransfersModel
	approvalsView view.ApprovalsModel
	usersView     view.UsersModel
	activityView  view.ActivityModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewTransfers View = 2
	ViewApprovals View = 3
	ViewUsers     View = 4
	ViewActivity  View = 5
)

func initialModel() (model, *reconcile.Engine) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	mem := memledger.New()
	mem.Seed(
		workflow.User{Address: defaultViewerAddress, Name: "Admin", Role: workflow.RoleAdmin},
		workflow.User{Address: "0x0000000000000000000000000000000000000b22", Name: "Manager", Role: workflow.RoleManager},
		workflow.User{Address: "0x0000000000000000000000000000000000000c33", Name: "Member", Role: workflow.RoleRegular},
	)

	cache := readmodel.New(
		readmodel.WithRetry(cfg.Cache.RetryInitial, cfg.Cache.RetryMax, uint64(cfg.Cache.RetryCount)),
	)

	transferSvc := transfer.NewService(mem, cache)
	userSvc := user.NewService(mem, cache)

	address := cfg.TUI.ViewerAddress
	if address == "" {
		address = defaultViewerAddress
	}

	v, err := userSvc.Viewer(context.Background(), address)
	if err != nil {
		slog.Error("failed to resolve viewer", "error", err)
		os.Exit(1)
	}

	feed := notify.NewFeed(64)

	engine := reconcile.New(mem, cache, feed, v)
	engine.Start(context.Background())

	return model{
		transferService: transferSvc,
		userService:     userSvc,
		viewer:          v,
		feed:            feed,
		currentView:     ViewMenu,
		dashboardView:   view.NewDashboardModel(userSvc, v),
		transfersView:   view.NewTransfersModel(transferSvc, v),
		approvalsView:   view.NewApprovalsModel(transferSvc, v),
		usersView:       view.NewUsersModel(userSvc, v),
		activityView:    view.NewActivityModel(),
	}, engine
}

func (m model) Init() tea.Cmd {
	return view.WaitForNotification(m.feed.C())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.NotificationMsg:
		m.activityView.Push(msg.Notification)
		return m, view.WaitForNotification(m.feed.C())

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.userService, m.viewer)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewTransfers
				m.transfersView = view.NewTransfersModel(m.transferService, m.viewer)

				return m, m.transfersView.Init()
			case "3":
				m.currentView = ViewApprovals
				m.approvalsView = view.NewApprovalsModel(m.transferService, m.viewer)

				return m, m.approvalsView.Init()
			case "4":
				m.currentView = ViewUsers
				m.usersView = view.NewUsersModel(m.userService, m.viewer)

				return m, m.usersView.Init()
			case "5":
				m.currentView = ViewActivity
				return m, m.activityView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransfers:
		var newModel tea.Model
		newModel, cmd = m.transfersView.Update(msg)
		m.transfersView = newModel.(view.TransfersModel)
	case ViewApprovals:
		var newModel tea.Model
		newModel, cmd = m.approvalsView.Update(msg)
		m.approvalsView = newModel.(view.ApprovalsModel)
	case ViewUsers:
		var newModel tea.Model
		newModel, cmd = m.usersView.Update(msg)
		m.usersView = newModel.(view.UsersModel)
	case ViewActivity:
		var newModel tea.Model
		newModel, cmd = m.activityView.Update(msg)
		m.activityView = newModel.(view.ActivityModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Signoff TUI\n\n" +
				"1. Dashboard\n" +
				"2. My Transactions\n" +
				"3. Pending Approvals\n" +
				"4. Users\n" +
				"5. Activity\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransfers:
		return m.transfersView.View()
	case ViewApprovals:
		return m.approvalsView.View()
	case ViewUsers:
		return m.usersView.View()
	case ViewActivity:
		return m.activityView.View()
	}

	return "Unknown View"
}

func main() {
	m, engine := initialModel()
	defer engine.Stop()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
