package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path: /tmp/risk.db
server:
  listen: ":9090"
  session_ttl: 10m
advice:
  provider: mock
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "/tmp/risk.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Server.SessionTTL != 10*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if cfg.Advice.Provider != "mock" {
		t.Errorf("Advice.Provider = %q", cfg.Advice.Provider)
	}
	// Untouched fields keep their defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9090"
`)
	t.Setenv("RISKSCAN_LISTEN", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Listen != ":7070" {
		t.Errorf("Listen = %q, want env value", cfg.Server.Listen)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_BadLogLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadDefault_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RISKSCAN_DB", "/tmp/env.db")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want default", cfg.Server.Listen)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q, want env value", cfg.DBPath)
	}
}
