package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/govlens/govchat/internal/assistant"
	"github.com/govlens/govchat/internal/config"
	"github.com/govlens/govchat/internal/db"
	"github.com/govlens/govchat/internal/govapi"
	"github.com/govlens/govchat/internal/history"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `govchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newBackendClient creates the governance API client from config.
func newBackendClient(cfg *config.Config) *govapi.Client {
	return govapi.NewClient(cfg.BackendURL,
		govapi.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		govapi.WithCacheTTL(time.Duration(cfg.StatusCacheTTL)*time.Second),
	)
}

// newEngine creates the intent router over the backend client.
func newEngine(backend assistant.Backend, log *zap.Logger) *assistant.Engine {
	if log == nil {
		return assistant.NewEngine(backend)
	}
	return assistant.NewEngine(backend, assistant.WithLogger(log))
}

// newHistoryStore creates the configured conversation store. The returned
// cleanup func closes the underlying database; it is a no-op for the
// memory backend.
func newHistoryStore(cfg *config.Config) (history.Store, func() error, error) {
	switch cfg.History.Backend {
	case config.HistoryMemory:
		return history.NewMemoryStore(cfg.History.MaxConversations), func() error { return nil }, nil
	case config.HistorySQLite, "":
		database, err := db.Open(filepath.Join(cfg.DataDir, "govchat.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening history database: %w", err)
		}
		return history.NewSQLiteStore(database, cfg.History.MaxConversations), database.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}
