package config

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data/no_pii_grievance_v2.json", config.Data.File)
	assert.Equal(t, SourceFile, config.Data.Source)
	assert.False(t, config.Data.Watch)
	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Empty(t, config.Security.ClientAPIKey)
	assert.Equal(t, 100, config.Query.DefaultLimit)
	assert.Equal(t, 1000, config.Query.MaxLimit)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "cpgrams_config_test")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := DefaultConfig()
		expectedConfig.Data.File = "/custom/grievances.json"
		expectedConfig.Data.Watch = true
		expectedConfig.Server.Port = 9000
		expectedConfig.Server.Bind = "0.0.0.0"
		expectedConfig.Security.ClientAPIKey = "test-client-api-key"
		expectedConfig.Logging.Level = "debug"

		err = SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 9100\n"), 0600))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9100, loadedConfig.Server.Port)
		assert.Equal(t, "127.0.0.1", loadedConfig.Server.Bind)
		assert.Equal(t, 1000, loadedConfig.Query.MaxLimit)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestApplyEnvFrom(t *testing.T) {
	config := DefaultConfig()
	lookuper := envconfig.MapLookuper(map[string]string{
		"CPGRAMS_SERVER_PORT":             "9200",
		"CPGRAMS_SERVER_CORS_ORIGINS":     "https://a.example,https://b.example",
		"CPGRAMS_DATA_WATCH":              "true",
		"CPGRAMS_DATA_WATCH_DEBOUNCE":     "500ms",
		"CPGRAMS_SECURITY_CLIENT_API_KEY": "from-env",
		"CPGRAMS_LOGGING_FORMAT":          "json",
		"SERVER_PORT":                     "1",
	})

	require.NoError(t, ApplyEnvFrom(context.Background(), config, lookuper))

	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.Server.CORSOrigins)
	assert.True(t, config.Data.Watch)
	assert.Equal(t, 500*time.Millisecond, config.Data.WatchDebounce)
	assert.Equal(t, "from-env", config.Security.ClientAPIKey)
	assert.Equal(t, "json", config.Logging.Format)

	// untouched values keep their defaults
	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Equal(t, 100, config.Query.DefaultLimit)
}

func TestApplyEnvFrom_InvalidValue(t *testing.T) {
	config := DefaultConfig()
	lookuper := envconfig.MapLookuper(map[string]string{"CPGRAMS_SERVER_PORT": "not-a-port"})

	err := ApplyEnvFrom(context.Background(), config, lookuper)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply environment overrides")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown source", func(c *Config) { c.Data.Source = "s3" }, "unknown data.source"},
		{"missing file", func(c *Config) { c.Data.File = "" }, "data.file is required"},
		{"missing pebble dir", func(c *Config) { c.Data.Source = SourcePebble; c.Data.PebbleDir = "" }, "data.pebble_dir is required"},
		{"watch on pebble", func(c *Config) { c.Data.Source = SourcePebble; c.Data.Watch = true }, "data.watch is only supported"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"default over max", func(c *Config) { c.Query.DefaultLimit = 2000 }, "query.default_limit"},
		{"bad max", func(c *Config) { c.Query.MaxLimit = 0 }, "query.max_limit"},
		{"negative workers", func(c *Config) { c.Query.Workers = -1 }, "must not be negative"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cpgrams_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	config := DefaultConfig()

	err = SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	dataFile := "/custom/data/grievances.json"

	config, err := BootstrapConfig(configPath, dataFile)
	require.NoError(t, err)

	assert.Equal(t, dataFile, config.Data.File)
	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, "info", config.Logging.Level)

	assert.Len(t, config.Security.ClientAPIKey, 64)
	_, err = hex.DecodeString(config.Security.ClientAPIKey)
	assert.NoError(t, err)

	assert.True(t, ConfigExists(configPath))

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "cpgrams")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLKeys(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))

	assert.Equal(t, "file", raw["data"]["source"])
	assert.Equal(t, "2s", raw["data"]["watch_debounce"])
	assert.Equal(t, 8000, raw["server"]["port"])
	assert.Contains(t, raw, "security")
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// a regular file cannot hold a directory
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	invalidPath := filepath.Join(blocker, "nested", "config.yaml")

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
