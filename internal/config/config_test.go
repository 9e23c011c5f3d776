package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 2333 {
		t.Fatalf("port = %d, want 2333", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Fatal("default env must be development")
	}
	if cfg.Gamification.LeaderboardSyncInterval.Duration != 5*time.Minute {
		t.Fatalf("leaderboard interval = %v, want 5m", cfg.Gamification.LeaderboardSyncInterval)
	}
	if cfg.Cache.RebuildInterval.Duration != time.Hour {
		t.Fatalf("cache rebuild = %v, want 1h", cfg.Cache.RebuildInterval)
	}
	if cfg.Cache.ListSize != 20 {
		t.Fatalf("cache list size = %d, want 20", cfg.Cache.ListSize)
	}
	if cfg.Gamification.CountForumReplies {
		t.Fatal("count_forum_replies must default off")
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := `
port: 8080
env: production
jwt_secret: topsecret
allowed_origins:
  - techplay.gg
  - "*.techplay.gg"
gamification:
  count_forum_replies: true
  leaderboard_sync_interval: 1m
cache:
  rebuild_interval: 30m
  list_size: 50
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 || cfg.IsDev() {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.Gamification.CountForumReplies {
		t.Fatal("count_forum_replies not parsed")
	}
	if cfg.Gamification.LeaderboardSyncInterval.Duration != time.Minute {
		t.Fatalf("interval = %v, want 1m", cfg.Gamification.LeaderboardSyncInterval)
	}
	if cfg.Cache.ListSize != 50 {
		t.Fatalf("list size = %d, want 50", cfg.Cache.ListSize)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TP_DSN", "user:pw@tcp(db:3306)/techplay")
	t.Setenv("TP_ENV", "production")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DSN != "user:pw@tcp(db:3306)/techplay" {
		t.Fatalf("dsn = %q", cfg.DSN)
	}
	if cfg.IsDev() {
		t.Fatal("TP_ENV override not applied")
	}
}
