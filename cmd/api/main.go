package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mwestbrook/signoff/internal/config"
	signoffHttp "github.com/mwestbrook/signoff/internal/http"
	eventsHandler "github.com/mwestbrook/signoff/internal/http/events"
	transferHandler "github.com/mwestbrook/signoff/internal/http/transfer"
	userHandler "github.com/mwestbrook/signoff/internal/http/user"
	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/ledger/memledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/transfer"
	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		slog.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}

	cache := readmodel.New(
		readmodel.WithRetry(cfg.Cache.RetryInitial, cfg.Cache.RetryMax, uint64(cfg.Cache.RetryCount)),
	)

	var (
		transferService = transfer.NewService(gateway, cache)
		userService     = user.NewService(gateway, cache)
	)

	var (
		transferH = transferHandler.NewHandler(transferService)
		userH     = userHandler.NewHandler(userService)
		eventsH   = eventsHandler.NewHandler(gateway, cache)
	)

	router := signoffHttp.New(cfg.Auth.JWTSecret, userService, transferH, userH, eventsH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "ledger", cfg.Ledger.Backend)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newGateway(cfg *config.Config) (ledger.Gateway, error) {
	switch cfg.Ledger.Backend {
	case "memory":
		mem := memledger.New()
		mem.Seed(
			workflow.User{Address: "0x0000000000000000000000000000000000000a11", Name: "Admin", Role: workflow.RoleAdmin},
			workflow.User{Address: "0x0000000000000000000000000000000000000b22", Name: "Manager", Role: workflow.RoleManager},
			workflow.User{Address: "0x0000000000000000000000000000000000000c33", Name: "Member", Role: workflow.RoleRegular},
		)

		return mem, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}
