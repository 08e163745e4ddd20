//go:build !integration

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "PUBLIC_URL", "BOT_LANGUAGE", "DATABASE_URL",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT",
		"PORT", "LOG_LEVEL", "REDIS_URL", "REDIS_PASSWORD",
	} {
		t.Setenv(k, "")
	}
	// .env lookups are relative to the working directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_MissingToken(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig("", false)
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestLoadConfig_EnvOnlyDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := LoadConfig("does-not-exist.yaml", false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Bot.Token != "123:abc" {
		t.Errorf("token = %q", cfg.Bot.Token)
	}
	if cfg.Bot.RequestTimeout != 20*time.Second {
		t.Errorf("request timeout = %s, want 20s", cfg.Bot.RequestTimeout)
	}
	if cfg.Bot.FetchLimit != 5 {
		t.Errorf("fetch limit = %d, want 5", cfg.Bot.FetchLimit)
	}
	if cfg.HTTP.Port != 8000 {
		t.Errorf("http port = %d, want 8000", cfg.HTTP.Port)
	}
	if got, want := cfg.Database.DSN(), "postgresql://user:password@db:5432/mydb"; got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
	if cfg.Database.Configured() {
		t.Error("expected database to be reported as not configured")
	}
}

func TestLoadConfig_DiscreteDatabaseParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("POSTGRES_USER", "bot")
	t.Setenv("POSTGRES_PASSWORD", "s3cr:t")
	t.Setenv("POSTGRES_DB", "botdb")

	cfg, err := LoadConfig("", false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got, want := cfg.Database.DSN(), "postgresql://bot:s3cr%3At@db:5432/botdb"; got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestLoadConfig_YAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
bot:
  token: from-file
  language: ru
  fetch_limit: 3
database:
  url: postgres://file/db
http:
  port: 9000
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Bot.Token != "from-file" || cfg.Bot.Language != "ru" || cfg.Bot.FetchLimit != 3 {
		t.Errorf("unexpected bot config: %+v", cfg.Bot)
	}
	if cfg.Database.DSN() != "postgres://env/db" {
		t.Errorf("env DATABASE_URL should win, got %q", cfg.Database.DSN())
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("http port = %d", cfg.HTTP.Port)
	}
	if !cfg.Runtime.Dev {
		t.Error("expected dev mode")
	}
}

func TestLoadConfig_InvalidLanguage(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("BOT_LANGUAGE", "xx")

	if _, err := LoadConfig("", false); err == nil {
		t.Fatal("expected validation error for unsupported language")
	}
}

func TestBotConfig_WebhookURL(t *testing.T) {
	c := BotConfig{PublicURL: "https://example.org/"}
	if got := c.WebhookURL(); got != "https://example.org/webhook" {
		t.Errorf("WebhookURL = %q", got)
	}
}
