package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load builds the configuration in priority order:
// 1. Default values
// 2. Configuration file (linkswapd.toml), when present
// 3. Environment variables (LINKSWAPD_ prefix)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("LINKSWAPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(cfg.DataDir, "ledger")
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 7575)
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("database.cache_size", int64(128<<20))
	v.SetDefault("database.cache_entries", 4096)
	v.SetDefault("database.compressor", "lz4")
	v.SetDefault("database.sync", true)

	v.SetDefault("log.level", "info")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linkswapd"
	}
	return filepath.Join(home, ".linkswapd")
}

// Validate checks the configuration for values the daemon cannot run with.
func Validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Database.CacheEntries <= 0 {
		return fmt.Errorf("database.cache_entries must be positive")
	}
	switch cfg.Database.Compressor {
	case "lz4", "none":
	default:
		return fmt.Errorf("unknown database.compressor: %q", cfg.Database.Compressor)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level: %q", cfg.Log.Level)
	}
	return nil
}
