package config

// HistoryBackend identifies where conversation history is persisted.
type HistoryBackend string

const (
	HistoryMemory HistoryBackend = "memory"
	HistorySQLite HistoryBackend = "sqlite"
)

// Config is the top-level govchat configuration, corresponding to .govchat.yml.
type Config struct {
	BackendURL     string        `yaml:"backend_url" koanf:"backend_url"`
	RequestTimeout int           `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	StatusCacheTTL int           `yaml:"status_cache_ttl_seconds" koanf:"status_cache_ttl_seconds"`
	DataDir        string        `yaml:"data_dir" koanf:"data_dir"`
	History        HistoryConfig `yaml:"history" koanf:"history"`
	Server         ServerConfig  `yaml:"server" koanf:"server"`
}

// HistoryConfig controls conversation persistence.
type HistoryConfig struct {
	Backend HistoryBackend `yaml:"backend" koanf:"backend"`
	// MaxConversations bounds the stored history; the oldest conversation
	// is evicted when a save would exceed it.
	MaxConversations int `yaml:"max_conversations" koanf:"max_conversations"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
