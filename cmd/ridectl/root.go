package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/equilog/ride-telemetry-go/internal/config"
	"github.com/equilog/ride-telemetry-go/internal/repository"
	"github.com/equilog/ride-telemetry-go/internal/storage"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ridectl",
	Short: "Ride-telemetry engine utility",
	Long: `ridectl drives the ride-telemetry engine outside the app: it replays
recorded fix logs through the full pipeline and inspects the local
session store.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		cfg = config.Load()
	})
}

// openRepository wires the configured blob store backend. The returned
// closer is non-nil for backends holding resources.
func openRepository() (*repository.SessionRepository, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		store, err := storage.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSessionRepository(store, cfg.StoreKey), store.Close, nil
	case config.BackendFile:
		store, err := storage.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSessionRepository(store, cfg.StoreKey), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
