package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/flowgrid/engine/internal/store"
)

// Config holds configuration settings for the workflow engine
type Config struct {
	// API Server
	APIHost  string
	APIPort  int
	LogLevel string

	// Persistence
	Store store.Config

	// Archival
	ArchiveBucketURL string
	ArchivePrefix    string

	// Traversal guards
	MaxTraversalDepth int
	ExecutionTimeout  time.Duration

	// Scheduling
	SchedulerEnabled bool

	ShutdownTimeout time.Duration
}

const (
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 8080
	MaxTCPPort     = 65535

	DefaultRedisEndpoint = "localhost:6379"
	DefaultRedisPrefix   = "flowgrid"
	DefaultRedisDB       = 0

	DefaultMaxTraversalDepth = 256
	MaxMaxTraversalDepth     = 1_000_000

	DefaultExecutionTimeout = 60 * time.Second
	MaxExecutionTimeout     = 24 * time.Hour

	DefaultShutdownTimeout = 10 * time.Second
)

var (
	ErrInvalidAPIPort          = errors.New("invalid API port")
	ErrInvalidTraversalDepth   = errors.New("max traversal depth must be positive")
	ErrInvalidExecutionTimeout = errors.New("execution timeout must be positive")
)

// NewDefaultConfig creates a configuration with sensible defaults for the
// API server, store, and traversal guards
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:  DefaultAPIHost,
		APIPort:  DefaultAPIPort,
		LogLevel: "info",
		Store: store.Config{
			Addr:     DefaultRedisEndpoint,
			Password: "",
			DB:       DefaultRedisDB,
			Prefix:   DefaultRedisPrefix,
		},
		MaxTraversalDepth: DefaultMaxTraversalDepth,
		ExecutionTimeout:  DefaultExecutionTimeout,
		SchedulerEnabled:  true,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any value cannot be parsed
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("API_HOST"); host != "" {
		c.APIHost = host
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Store.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Store.Password = password
	}
	if prefix := os.Getenv("REDIS_PREFIX"); prefix != "" {
		c.Store.Prefix = prefix
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %q", dbStr)
		}
		c.Store.DB = db
	}
	if bucketURL := os.Getenv("ARCHIVE_BUCKET_URL"); bucketURL != "" {
		c.ArchiveBucketURL = bucketURL
	}
	if prefix := os.Getenv("ARCHIVE_PREFIX"); prefix != "" {
		c.ArchivePrefix = prefix
	}
	if enabled := os.Getenv("SCHEDULER_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_ENABLED: %q", enabled)
		}
		c.SchedulerEnabled = v
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt(
		"MAX_TRAVERSAL_DEPTH", &c.MaxTraversalDepth,
		0, MaxMaxTraversalDepth,
	); err != nil {
		return err
	}

	return loadEnvDuration(
		"EXECUTION_TIMEOUT", &c.ExecutionTimeout, MaxExecutionTimeout,
	)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.MaxTraversalDepth <= 0 {
		return ErrInvalidTraversalDepth
	}
	if c.ExecutionTimeout <= 0 {
		return ErrInvalidExecutionTimeout
	}
	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max). Returns an error if
// the value cannot be parsed or falls outside the valid range
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

// loadEnvDuration reads key as a Go duration string (e.g. "30s", "5m")
func loadEnvDuration(key string, dst *time.Duration, max time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	if v <= 0 || v > max {
		return fmt.Errorf("invalid %s: %s out of range", key, v)
	}
	*dst = v
	return nil
}
