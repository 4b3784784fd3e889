package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Signoff"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	}

	Ledger struct {
		// Backend selects the ledger implementation. Only "memory" is
		// wired today; the gateway interface leaves room for a real
		// chain-backed one.
		Backend string `envconfig:"LEDGER_BACKEND" default:"memory"`
	}

	Cache struct {
		RetryInitial time.Duration `envconfig:"CACHE_RETRY_INITIAL" default:"200ms"`
		RetryMax     time.Duration `envconfig:"CACHE_RETRY_MAX" default:"5s"`
		RetryCount   int           `envconfig:"CACHE_RETRY_COUNT" default:"3"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	TUI struct {
		// ViewerAddress identifies the wallet the terminal session
		// acts as.
		ViewerAddress string `envconfig:"VIEWER_ADDRESS"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
