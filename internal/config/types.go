package config

// TapConfig contains settings for the passive UDP tap.
type TapConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	RecvBufferSize int    `json:"recv_buffer_size"` // bytes per datagram buffer
	MaxConcurrency int    `json:"max_concurrency"`  // concurrent decode handlers
}

// DatabaseConfig contains settings for the SQLite audit store.
type DatabaseConfig struct {
	Path          string `json:"path"`
	RetentionDays int    `json:"retention_days"` // rejects older than this are pruned
}

// APIConfig contains management API settings.
//
// Note: APIKey is a secret and is never echoed back by API endpoints.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	APIKey  string `json:"api_key,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string            `json:"level"`
	Format      string            `json:"format"`
	IncludePID  bool              `json:"include_pid"`
	ExtraFields map[string]string `json:"extra_fields,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Tap      TapConfig      `json:"tap"`
	Database DatabaseConfig `json:"database"`
	API      APIConfig      `json:"api"`
	Logging  LoggingConfig  `json:"logging"`
}
