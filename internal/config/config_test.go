package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

const baseYAML = `
server:
  port: "8080"
  mode: "debug"
database:
  host: "127.0.0.1"
  port: 3306
  user: "root"
  password: "root"
  dbname: "learning_pathway"
  charset: "utf8mb4"
  parsetime: true
jwt:
  secret: "short"
  expire_hours: 72
redis:
  host: "127.0.0.1"
  port: 6379
ai:
  base_url: "https://api.openai.com/v1"
  model: "gpt-4o-mini"
storage:
  type: "none"
cors:
  allowed_origins:
    - "http://localhost:3000"
rate_limit:
  max_requests: 100
  window_minutes: 1
`

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, baseYAML)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.JWT.ExpireTime != 72*time.Hour {
		t.Errorf("ExpireTime = %v, want 72h", cfg.JWT.ExpireTime)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("MaxRequests = %d", cfg.RateLimit.MaxRequests)
	}
}

func TestLoadConfigRecommendationTTLDefault(t *testing.T) {
	dir := writeConfig(t, baseYAML)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AI.RecommendationTTL != 6*time.Hour {
		t.Errorf("RecommendationTTL = %v, want default 6h", cfg.AI.RecommendationTTL)
	}
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	content := `
server:
  port: "8080"
  mode: "release"
jwt:
  secret: "short"
  expire_hours: 72
storage:
  type: "none"
`
	dir := writeConfig(t, content)

	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for weak JWT secret in release mode")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error when config file is absent")
	}
}
