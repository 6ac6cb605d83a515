package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:3000",
		RequestTimeout: 15,
		StatusCacheTTL: 30,
		DataDir:        ".govchat",
		History: HistoryConfig{
			Backend:          HistorySQLite,
			MaxConversations: 50,
		},
		Server: ServerConfig{
			Port:     8780,
			AllowAll: false,
		},
	}
}
