/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CPGRAMS_SERVER_PORT.
const EnvPrefix = "CPGRAMS_"

// Collection sources.
const (
	SourceFile   = "file"
	SourcePebble = "pebble"
)

// Config represents the cpgrams configuration
type Config struct {
	Data     Data     `yaml:"data" env:",prefix=DATA_"`
	Server   Server   `yaml:"server" env:",prefix=SERVER_"`
	Security Security `yaml:"security" env:",prefix=SECURITY_"`
	Query    Query    `yaml:"query" env:",prefix=QUERY_"`
	Logging  Logging  `yaml:"logging" env:",prefix=LOGGING_"`
}

// Data describes where the grievance collection comes from
type Data struct {
	File          string        `yaml:"file" env:"FILE,overwrite"`
	Source        string        `yaml:"source" env:"SOURCE,overwrite"`
	PebbleDir     string        `yaml:"pebble_dir" env:"PEBBLE_DIR,overwrite"`
	Watch         bool          `yaml:"watch" env:"WATCH,overwrite"`
	WatchDebounce time.Duration `yaml:"watch_debounce" env:"WATCH_DEBOUNCE,overwrite"`
	LoadRetries   uint64        `yaml:"load_retries" env:"LOAD_RETRIES,overwrite"`
}

// Server contains HTTP listener configuration
type Server struct {
	Bind        string   `yaml:"bind" env:"BIND,overwrite"`
	Port        int      `yaml:"port" env:"PORT,overwrite"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS,overwrite"`
}

// Security contains security-related configuration
type Security struct {
	// ClientAPIKey protects /api/grievances. Empty disables the check.
	ClientAPIKey string `yaml:"client_api_key" env:"CLIENT_API_KEY,overwrite"`
}

// Query bounds pagination and the scan
type Query struct {
	DefaultLimit int `yaml:"default_limit" env:"DEFAULT_LIMIT,overwrite"`
	MaxLimit     int `yaml:"max_limit" env:"MAX_LIMIT,overwrite"`
	ChunkSize    int `yaml:"chunk_size" env:"CHUNK_SIZE,overwrite"`
	Workers      int `yaml:"workers" env:"WORKERS,overwrite"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level" env:"LEVEL,overwrite"`
	Format string `yaml:"format" env:"FORMAT,overwrite"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: Data{
			File:          "./data/no_pii_grievance_v2.json",
			Source:        SourceFile,
			PebbleDir:     "./data/pebble",
			WatchDebounce: 2 * time.Second,
			LoadRetries:   4,
		},
		Server: Server{
			Bind:        "127.0.0.1",
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Query: Query{
			DefaultLimit: 100,
			MaxLimit:     1000,
			ChunkSize:    4096,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from the specified path on top of the defaults
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from CPGRAMS_* environment variables
func ApplyEnv(ctx context.Context, config *Config) error {
	return ApplyEnvFrom(ctx, config, envconfig.OsLookuper())
}

// ApplyEnvFrom overrides fields from the given lookuper, with EnvPrefix applied
func ApplyEnvFrom(ctx context.Context, config *Config, lookuper envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, config, envconfig.PrefixLookuper(EnvPrefix, lookuper)); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceFile:
		if c.Data.File == "" {
			return fmt.Errorf("data.file is required when data.source is %q", SourceFile)
		}
	case SourcePebble:
		if c.Data.PebbleDir == "" {
			return fmt.Errorf("data.pebble_dir is required when data.source is %q", SourcePebble)
		}
		if c.Data.Watch {
			return fmt.Errorf("data.watch is only supported for the %q source", SourceFile)
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Query.MaxLimit < 1 {
		return fmt.Errorf("query.max_limit must be positive")
	}
	if c.Query.DefaultLimit < 1 || c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("query.default_limit must be between 1 and %d", c.Query.MaxLimit)
	}
	if c.Query.ChunkSize < 0 || c.Query.Workers < 0 {
		return fmt.Errorf("query.chunk_size and query.workers must not be negative")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a new configuration with a generated client API key
func BootstrapConfig(configPath string, dataFile string) (*Config, error) {
	config := DefaultConfig()
	if dataFile != "" {
		config.Data.File = dataFile
	}

	clientAPIKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate client API key: %w", err)
	}
	config.Security.ClientAPIKey = clientAPIKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./cpgrams.yaml"
	}

	// For Linux/macOS, use ~/.config/cpgrams/config.yaml
	return filepath.Join(homeDir, ".config", "cpgrams", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
