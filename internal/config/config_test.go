package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want :8080", cfg.BindAddr)
	}
	if cfg.BrainMode != "auto" {
		t.Fatalf("BrainMode = %q, want auto", cfg.BrainMode)
	}
	if cfg.BrainURL != "" {
		t.Fatalf("BrainURL = %q, want empty default", cfg.BrainURL)
	}
	if !cfg.KeepEmptyReplies {
		t.Fatalf("KeepEmptyReplies = false, want true by default")
	}
	if cfg.MetricsNamespace != "empath" {
		t.Fatalf("MetricsNamespace = %q", cfg.MetricsNamespace)
	}
}

func TestLoadExplicitBrainURL(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("BRAIN_MODE", "HTTP")
	t.Setenv("BRAIN_URL", "http://localhost:8000/chat")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BrainMode != "http" {
		t.Fatalf("BrainMode = %q, want normalized http", cfg.BrainMode)
	}
	if cfg.BrainURL != "http://localhost:8000/chat" {
		t.Fatalf("BrainURL = %q, want explicit value", cfg.BrainURL)
	}
}

func TestLoadRejectsBadBrainMode(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("BRAIN_MODE", "telepathy")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for bad BRAIN_MODE")
	}
}

func TestLoadRejectsBadBool(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_KEEP_EMPTY_REPLIES", "perhaps")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() expected error for bad APP_KEEP_EMPTY_REPLIES")
	}
}

func TestLoadParsesDurations(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("BRAIN_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ShutdownTimeout.Seconds() != 3 {
		t.Fatalf("ShutdownTimeout = %v, want 3s", cfg.ShutdownTimeout)
	}
	if cfg.BrainTimeout.Seconds() != 90 {
		t.Fatalf("BrainTimeout = %v, want 90s", cfg.BrainTimeout)
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_STATE_DIR",
		"APP_KEEP_EMPTY_REPLIES",
		"BRAIN_MODE",
		"BRAIN_URL",
		"BRAIN_TIMEOUT",
		"DATABASE_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
