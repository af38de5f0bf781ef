package config

import (
	"fmt"
)

// Config is the complete daemon configuration.
type Config struct {
	DataDir string `mapstructure:"data_dir"`

	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the JSON-RPC server.
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig configures the ledger's key-value store.
type DatabaseConfig struct {
	// Path overrides the default location under DataDir.
	Path string `mapstructure:"path"`
	// CacheSize is the block cache budget in bytes.
	CacheSize int64 `mapstructure:"cache_size"`
	// CacheEntries is the number of decoded entries kept in memory.
	CacheEntries int `mapstructure:"cache_entries"`
	// Compressor names the payload compressor ("lz4" or "none").
	Compressor string `mapstructure:"compressor"`
	// Sync forces every write through the fsync path.
	Sync bool `mapstructure:"sync"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
}
