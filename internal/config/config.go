package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type (
	// Config holds configuration settings for the workflow server
	Config struct {
		// API Server
		APIHost      string
		APIPort      int
		LogLevel     string
		Env          string
		AllowOrigins []string

		// Storage
		StorageDir    string
		StorageURL    string
		StoragePrefix string

		// Lifecycle
		ShutdownTimeout time.Duration
	}
)

const (
	DefaultShutdownTimeout = 10 * time.Second

	DefaultAPIPort    = 3001
	DefaultAPIHost    = "0.0.0.0"
	DefaultStorageDir = "workflows"
	AllOrigins        = "*"
	MaxTCPPort        = 65535

	MaxShutdownSeconds = 600
)

var (
	ErrInvalidAPIPort         = errors.New("invalid API port")
	ErrStorageRequired        = errors.New("storage dir or storage URL required")
	ErrInvalidStoragePrefix   = errors.New("storage prefix must end with /")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
)

// NewDefaultConfig creates a configuration that serves on port 3001 and stores
// workflows in ./workflows
func NewDefaultConfig() *Config {
	return &Config{
		APIPort:         DefaultAPIPort,
		APIHost:         DefaultAPIHost,
		LogLevel:        "info",
		AllowOrigins:    []string{AllOrigins},
		StorageDir:      DefaultStorageDir,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if env := os.Getenv("ENV"); env != "" {
		c.Env = env
	}
	if dir := os.Getenv("WORKFLOWS_DIR"); dir != "" {
		c.StorageDir = dir
	}
	if url := os.Getenv("STORAGE_URL"); url != "" {
		c.StorageURL = url
	}
	if prefix := os.Getenv("STORAGE_PREFIX"); prefix != "" {
		c.StoragePrefix = prefix
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.AllowOrigins = splitList(origins)
	}

	if err := loadEnvInt("PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}

	shutdown := int(c.ShutdownTimeout / time.Second)
	if err := loadEnvInt(
		"SHUTDOWN_TIMEOUT", &shutdown, 0, MaxShutdownSeconds,
	); err != nil {
		return err
	}
	c.ShutdownTimeout = time.Duration(shutdown) * time.Second

	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	if c.StorageDir == "" && c.StorageURL == "" {
		return ErrStorageRequired
	}

	if c.StoragePrefix != "" && !strings.HasSuffix(c.StoragePrefix, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidStoragePrefix, c.StoragePrefix)
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// StorageLocation describes where workflows are stored, for logging. A
// storage URL takes precedence over the storage directory
func (c *Config) StorageLocation() string {
	if c.StorageURL != "" {
		return c.StorageURL
	}
	return c.StorageDir
}

// AllowsAllOrigins returns true if CORS should accept any origin
func (c *Config) AllowsAllOrigins() bool {
	if len(c.AllowOrigins) == 0 {
		return true
	}
	return slices.Contains(c.AllowOrigins, AllOrigins)
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if
// the value cannot be parsed or falls outside the valid range.
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
