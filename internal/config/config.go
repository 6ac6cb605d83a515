package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GOVCHAT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: GOVCHAT_BACKEND_URL -> backend_url,
	// GOVCHAT_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider("GOVCHAT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "GOVCHAT_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized history backend values.
var validBackends = map[HistoryBackend]bool{
	HistoryMemory: true,
	HistorySQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must be an absolute http(s) URL", c.BackendURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}

	if c.StatusCacheTTL < 0 {
		return fmt.Errorf("status_cache_ttl_seconds must be non-negative")
	}

	if c.History.Backend != "" && !validBackends[c.History.Backend] {
		return fmt.Errorf("invalid history backend %q: must be one of memory, sqlite", c.History.Backend)
	}

	if c.History.MaxConversations <= 0 {
		return fmt.Errorf("history max_conversations must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}
