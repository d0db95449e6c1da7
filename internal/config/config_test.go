package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetForTest(t, "APP_ENV", "PORT", "DB_PATH", "LOG_LEVEL", "LOG_JSON", "DEFAULT_PRICING_PRESET")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" || cfg.DBPath != "./cabkit.db" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogJSON {
		t.Fatalf("LogJSON should default to false")
	}
	if cfg.DefaultPricingPreset != "US_STD" {
		t.Fatalf("DefaultPricingPreset=%q, want US_STD", cfg.DefaultPricingPreset)
	}
	if !cfg.IsDev() {
		t.Fatalf("default environment should be dev")
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr=%q", cfg.Addr())
	}
}

func TestLoad_ReadsDotEnvAndStripsQuotes(t *testing.T) {
	unsetForTest(t, "APP_ENV", "PORT", "LOG_JSON", "DB_PATH")

	path := writeDotEnv(t, `
# comment

APP_ENV=production
export PORT=9090
DB_PATH='/var/lib/cabkit.db'
LOG_JSON="true"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/var/lib/cabkit.db" {
		t.Fatalf("DBPath=%q", cfg.DBPath)
	}
	if !cfg.LogJSON {
		t.Fatalf("LogJSON should be true")
	}
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
}

func TestLoad_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "7000")

	cfg, err := Load(writeDotEnv(t, "PORT=9999\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want 7000", cfg.Port)
	}
}

func TestLoad_RejectsMalformedBool(t *testing.T) {
	t.Setenv("LOG_JSON", "sometimes")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for malformed LOG_JSON")
	}
}
