package config_test

import (
	"testing"
	"time"

	testify "github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdraft/internal/assert"
	"github.com/kode4food/flowdraft/internal/assert/helpers"
	"github.com/kode4food/flowdraft/internal/config"
)

func TestConfigValidation(t *testing.T) {
	as := assert.New(t)

	t.Run("valid_default_config", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		as.ConfigValid(cfg)
	})

	t.Run("valid_test_config", func(t *testing.T) {
		cfg := helpers.NewTestConfig()
		as.ConfigValid(cfg)
	})

	tests := []struct {
		name          string
		configMod     func(*config.Config)
		errorContains string
	}{
		{
			name: "invalid_api_port_zero",
			configMod: func(c *config.Config) {
				c.APIPort = 0
			},
			errorContains: "invalid API port",
		},
		{
			name: "invalid_api_port_too_high",
			configMod: func(c *config.Config) {
				c.APIPort = 70000
			},
			errorContains: "invalid API port",
		},
		{
			name: "no_storage",
			configMod: func(c *config.Config) {
				c.StorageDir = ""
				c.StorageURL = ""
			},
			errorContains: "storage dir or storage URL required",
		},
		{
			name: "prefix_without_slash",
			configMod: func(c *config.Config) {
				c.StoragePrefix = "flows"
			},
			errorContains: "storage prefix must end with /",
		},
		{
			name: "zero_shutdown_timeout",
			configMod: func(c *config.Config) {
				c.ShutdownTimeout = 0
			},
			errorContains: "shutdown timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			assert.New(t).ConfigInvalid(cfg, tt.errorContains)
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := config.NewDefaultConfig()
	testify.Equal(t, 3001, cfg.APIPort)
	testify.Equal(t, "0.0.0.0", cfg.APIHost)
	testify.Equal(t, "workflows", cfg.StorageDir)
	testify.Equal(t, "workflows", cfg.StorageLocation())
	testify.True(t, cfg.AllowsAllOrigins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("PORT", "4000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENV", "staging")
	t.Setenv("WORKFLOWS_DIR", "/data/flows")
	t.Setenv("STORAGE_URL", "s3://bucket?region=us-east-1")
	t.Setenv("STORAGE_PREFIX", "team/")
	t.Setenv("CORS_ORIGINS", "http://a.example.com, ,http://b.example.com")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")

	cfg := config.NewDefaultConfig()
	testify.NoError(t, cfg.LoadFromEnv())

	testify.Equal(t, "127.0.0.1", cfg.APIHost)
	testify.Equal(t, 4000, cfg.APIPort)
	testify.Equal(t, "debug", cfg.LogLevel)
	testify.Equal(t, "staging", cfg.Env)
	testify.Equal(t, "/data/flows", cfg.StorageDir)
	testify.Equal(t, "s3://bucket?region=us-east-1", cfg.StorageURL)
	testify.Equal(t, "s3://bucket?region=us-east-1", cfg.StorageLocation())
	testify.Equal(t, "team/", cfg.StoragePrefix)
	testify.Equal(t,
		[]string{"http://a.example.com", "http://b.example.com"},
		cfg.AllowOrigins,
	)
	testify.False(t, cfg.AllowsAllOrigins())
	testify.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.New(t).ConfigValid(cfg)
}

func TestAPIPortOverridesPort(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("API_PORT", "5000")

	cfg := config.NewDefaultConfig()
	testify.NoError(t, cfg.LoadFromEnv())
	testify.Equal(t, 5000, cfg.APIPort)
}

func TestLoadFromEnvErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port_not_number", "PORT", "abc"},
		{"port_out_of_range", "API_PORT", "70000"},
		{"port_zero", "PORT", "0"},
		{"shutdown_negative", "SHUTDOWN_TIMEOUT", "-5"},
		{"shutdown_too_long", "SHUTDOWN_TIMEOUT", "100000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := config.NewDefaultConfig()
			err := cfg.LoadFromEnv()
			testify.Error(t, err)
			testify.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestWildcardOrigin(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.AllowOrigins = []string{"http://a.example.com", "*"}
	testify.True(t, cfg.AllowsAllOrigins())
}
