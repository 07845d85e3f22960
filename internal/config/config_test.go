package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"

engagement:
  questions_per_day: 3
  answers_per_day: 100
  trending_threshold: 1.0
  trending_limit: 5
  trending_window: "168h"
  trending_refresh: "5m"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Engagement.QuestionsPerDay != 3 {
		t.Errorf("engagement.questions_per_day = %d, want 3", cfg.Engagement.QuestionsPerDay)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want text", cfg.Log.Format)
	}
}

func TestLoad_EnvOnly_Defaults(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Engagement.QuestionsPerDay != 3 {
		t.Errorf("default questions_per_day = %d, want 3", cfg.Engagement.QuestionsPerDay)
	}
	if cfg.Engagement.AnswersPerDay != 100 {
		t.Errorf("default answers_per_day = %d, want 100", cfg.Engagement.AnswersPerDay)
	}
	if cfg.Engagement.TrendingRefresh != 5*time.Minute {
		t.Errorf("default trending_refresh = %v, want 5m", cfg.Engagement.TrendingRefresh)
	}
	if cfg.Auth.AccessTokenTTL != 24*time.Hour {
		t.Errorf("default access_token_ttl = %v, want 24h", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("CONFIG_PATH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_DSN")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "short")
	t.Setenv("CONFIG_PATH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for explicitly set missing config file")
	}
}

func TestValidate_BadEngagement(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENGAGE_TRENDING_LIMIT", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for trending_limit = 0")
	}
}
