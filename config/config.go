// Package config provides YAML-based configuration loading for binder tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage kinds accepted in storage.kind.
const (
	StorageNone     = "none"
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"
)

// Config is the root configuration.
type Config struct {
	// Log holds logging configuration
	Log Log `mapstructure:"log"`

	// Storage selects where serialized blobs are persisted.
	Storage Storage `mapstructure:"storage"`

	// Binder tunes the process-wide type binder.
	Binder Binder `mapstructure:"binder"`
}

// Log defines logger settings.
type Log struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation Rotation `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// Rotation controls log file rotation for file outputs.
type Rotation struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Storage configures the blob store. An empty Kind means no storage: every
// lookup misses and every write is dropped.
type Storage struct {
	Kind      string `mapstructure:"kind"`
	Table     string `mapstructure:"table"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Binder tunes type registration.
type Binder struct {
	// Strict logs conflicting reader registrations.
	Strict bool `mapstructure:"strict"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: Rotation{
				Filename:   "logs/binder.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Storage: Storage{Kind: StorageNone},
	}
}

// Load reads configuration from the provided path (if non-empty), otherwise it
// searches common locations. A .env file in the working directory is loaded
// first, then environment variables with the prefix BINDER override file values,
// with `.`/`-` replaced by `_`. Example: BINDER_STORAGE_KIND=memory
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("storage.kind", cfg.Storage.Kind)
	v.SetDefault("storage.table", cfg.Storage.Table)
	v.SetDefault("storage.region", cfg.Storage.Region)
	v.SetDefault("storage.endpoint", cfg.Storage.Endpoint)
	v.SetDefault("storage.access_key", cfg.Storage.AccessKey)
	v.SetDefault("storage.secret_key", cfg.Storage.SecretKey)
	v.SetDefault("binder.strict", cfg.Binder.Strict)

	if path == "" {
		path = os.Getenv("BINDER_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("binder")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".binder"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}

	c.Storage.Kind = strings.ToLower(strings.TrimSpace(c.Storage.Kind))
	switch c.Storage.Kind {
	case "", StorageNone, StorageMemory:
	case StorageDynamoDB:
		if c.Storage.Table == "" {
			return errors.New("storage.table is required for dynamodb storage")
		}
		if c.Storage.Region == "" {
			return errors.New("storage.region is required for dynamodb storage")
		}
	default:
		return fmt.Errorf("invalid storage.kind: %q", c.Storage.Kind)
	}
	return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
