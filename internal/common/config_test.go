package common

import "testing"

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Scheduler.DailyMax != 100 {
		t.Errorf("Scheduler.DailyMax default = %d, want 100", cfg.Scheduler.DailyMax)
	}
	if cfg.Worker.PollIntervalMS != 5000 {
		t.Errorf("Worker.PollIntervalMS default = %d, want 5000", cfg.Worker.PollIntervalMS)
	}
	if cfg.Queue.Backend != "sqs" {
		t.Errorf("Queue.Backend default = %q, want %q", cfg.Queue.Backend, "sqs")
	}
}

func TestConfig_DailyMaxEnvOverride(t *testing.T) {
	t.Setenv("HYPERDRIP_DAILY_MAX", "250")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Scheduler.DailyMax != 250 {
		t.Errorf("Scheduler.DailyMax = %d after env override, want 250", cfg.Scheduler.DailyMax)
	}
}

func TestConfig_WorkerDurationsEnvOverride(t *testing.T) {
	t.Setenv("HYPERDRIP_POLL_INTERVAL_MS", "1000")
	t.Setenv("HYPERDRIP_MESSAGE_DELAY_MS", "500")
	t.Setenv("HYPERDRIP_VISIBILITY_TIMEOUT_S", "15")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Worker.PollIntervalMS != 1000 {
		t.Errorf("Worker.PollIntervalMS = %d, want 1000", cfg.Worker.PollIntervalMS)
	}
	if cfg.Worker.MessageDelayMS != 500 {
		t.Errorf("Worker.MessageDelayMS = %d, want 500", cfg.Worker.MessageDelayMS)
	}
	if cfg.Worker.VisibilityTimeoutS != 15 {
		t.Errorf("Worker.VisibilityTimeoutS = %d, want 15", cfg.Worker.VisibilityTimeoutS)
	}
}

func TestConfig_StorageEnvOverride(t *testing.T) {
	t.Setenv("HYPERDRIP_STORAGE_ADDRESS", "ws://db.internal:8000/rpc")
	t.Setenv("HYPERDRIP_STORAGE_NAMESPACE", "ns")
	t.Setenv("HYPERDRIP_STORAGE_DATABASE", "db")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Address != "ws://db.internal:8000/rpc" {
		t.Errorf("Storage.Address = %q, want override", cfg.Storage.Address)
	}
	if cfg.Storage.Namespace != "ns" {
		t.Errorf("Storage.Namespace = %q, want %q", cfg.Storage.Namespace, "ns")
	}
	if cfg.Storage.Database != "db" {
		t.Errorf("Storage.Database = %q, want %q", cfg.Storage.Database, "db")
	}
}

func TestConfig_QueueBackendEnvOverride(t *testing.T) {
	t.Setenv("HYPERDRIP_QUEUE_BACKEND", "memory")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Queue.Backend != "memory" {
		t.Errorf("Queue.Backend = %q, want %q", cfg.Queue.Backend, "memory")
	}
}

func TestConfig_TestModeEnvOverride(t *testing.T) {
	t.Setenv("HYPERDRIP_TEST_MODE", "true")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if !cfg.Worker.TestMode {
		t.Errorf("Worker.TestMode = false after env override, want true")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.IsProduction() {
		t.Errorf("development config reports IsProduction() = true")
	}
	cfg.Environment = "production"
	if !cfg.IsProduction() {
		t.Errorf("production config reports IsProduction() = false")
	}
}

func TestWorkerConfig_Durations(t *testing.T) {
	cfg := WorkerConfig{PollIntervalMS: 5000, MessageDelayMS: 2000, VisibilityTimeoutS: 30}
	if cfg.PollInterval().String() != "5s" {
		t.Errorf("PollInterval() = %v, want 5s", cfg.PollInterval())
	}
	if cfg.MessageDelay().String() != "2s" {
		t.Errorf("MessageDelay() = %v, want 2s", cfg.MessageDelay())
	}
	if cfg.VisibilityTimeout().String() != "30s" {
		t.Errorf("VisibilityTimeout() = %v, want 30s", cfg.VisibilityTimeout())
	}
}
