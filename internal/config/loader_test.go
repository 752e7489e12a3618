package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_SetsMissingVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TRANSLATOR_API_KEY=from-dotenv\nLOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("TRANSLATOR_API_KEY", "")
	os.Unsetenv("TRANSLATOR_API_KEY")
	t.Setenv("LOG_LEVEL", "error")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("TRANSLATOR_API_KEY"); got != "from-dotenv" {
		t.Errorf("TRANSLATOR_API_KEY = %q, want %q", got, "from-dotenv")
	}
	if got := os.Getenv("LOG_LEVEL"); got != "error" {
		t.Errorf("LOG_LEVEL = %q, want existing value kept", got)
	}
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
}
