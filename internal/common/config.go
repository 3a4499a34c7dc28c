// Package common provides shared utilities for Hyperdrip
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Hyperdrip.
type Config struct {
	Environment string          `toml:"environment"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Worker      WorkerConfig    `toml:"worker"`
	Storage     StorageConfig   `toml:"storage"`
	Queue       QueueConfig     `toml:"queue"`
	Logging     LoggingConfig   `toml:"logging"`
}

// SchedulerConfig controls daily send capacity and the admission forward scan.
type SchedulerConfig struct {
	DailyMax            int `toml:"daily_max"`
	OverflowHorizonDays int `toml:"overflow_horizon_days"`
}

// WorkerConfig controls the poll loop, inter-message pacing, and janitor.
type WorkerConfig struct {
	PollIntervalMS       int  `toml:"poll_interval_ms"`
	MessageDelayMS       int  `toml:"message_delay_ms"`
	VisibilityTimeoutS   int  `toml:"visibility_timeout_s"`
	JanitorRetentionDays int  `toml:"janitor_retention_days"`
	TestMode             bool `toml:"test_mode"`
}

// PollInterval returns the configured poll interval as a duration.
func (c *WorkerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// MessageDelay returns the configured inter-message pacing delay.
func (c *WorkerConfig) MessageDelay() time.Duration {
	return time.Duration(c.MessageDelayMS) * time.Millisecond
}

// VisibilityTimeout returns the configured lease duration for a read message.
func (c *WorkerConfig) VisibilityTimeout() time.Duration {
	return time.Duration(c.VisibilityTimeoutS) * time.Second
}

// StorageConfig holds SurrealDB connection settings for the lead store.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// QueueConfig selects and configures the message queue backend.
type QueueConfig struct {
	Backend  string `toml:"backend"` // "sqs" or "memory"
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"` // override for local SQS-compatible endpoints
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Scheduler: SchedulerConfig{
			DailyMax:            100,
			OverflowHorizonDays: 30,
		},
		Worker: WorkerConfig{
			PollIntervalMS:       5000,
			MessageDelayMS:       2000,
			VisibilityTimeoutS:   30,
			JanitorRetentionDays: 7,
			TestMode:             false,
		},
		Storage: StorageConfig{
			Address:   "ws://127.0.0.1:8000/rpc",
			Namespace: "hyperdrip",
			Database:  "hyperdrip",
			Username:  "root",
			Password:  "root",
		},
		Queue: QueueConfig{
			Backend: "sqs",
			Region:  "us-east-1",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later paths override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies HYPERDRIP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("HYPERDRIP_ENV"); env != "" {
		config.Environment = env
	}

	if v := os.Getenv("HYPERDRIP_DAILY_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Scheduler.DailyMax = n
		}
	}
	if v := os.Getenv("HYPERDRIP_OVERFLOW_HORIZON_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Scheduler.OverflowHorizonDays = n
		}
	}

	if v := os.Getenv("HYPERDRIP_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Worker.PollIntervalMS = n
		}
	}
	if v := os.Getenv("HYPERDRIP_MESSAGE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Worker.MessageDelayMS = n
		}
	}
	if v := os.Getenv("HYPERDRIP_VISIBILITY_TIMEOUT_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Worker.VisibilityTimeoutS = n
		}
	}
	if v := os.Getenv("HYPERDRIP_JANITOR_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Worker.JanitorRetentionDays = n
		}
	}
	if v := os.Getenv("HYPERDRIP_TEST_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Worker.TestMode = b
		}
	}

	if v := os.Getenv("HYPERDRIP_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("HYPERDRIP_STORAGE_NAMESPACE"); v != "" {
		config.Storage.Namespace = v
	}
	if v := os.Getenv("HYPERDRIP_STORAGE_DATABASE"); v != "" {
		config.Storage.Database = v
	}
	if v := os.Getenv("HYPERDRIP_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("HYPERDRIP_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("HYPERDRIP_QUEUE_BACKEND"); v != "" {
		config.Queue.Backend = v
	}
	if v := os.Getenv("HYPERDRIP_QUEUE_REGION"); v != "" {
		config.Queue.Region = v
	}
	if v := os.Getenv("HYPERDRIP_QUEUE_ENDPOINT"); v != "" {
		config.Queue.Endpoint = v
	}

	if v := os.Getenv("HYPERDRIP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
