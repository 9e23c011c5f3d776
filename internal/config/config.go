package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 2333
	defaultEnv      = "development"
	defaultDSN      = "root:password@tcp(127.0.0.1:3306)/techplay?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL = "redis://localhost:6379/0"

	defaultLeaderboardSync = 5 * time.Minute
	defaultCacheRebuild    = time.Hour
	defaultCachedListSize  = 20
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	DSN            string             `yaml:"dsn"` // MySQL DSN
	RedisURL       string             `yaml:"redis_url"`
	Env            string             `yaml:"env"` // "development" | "production"
	JWTSecret      string             `yaml:"jwt_secret"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Gamification   GamificationConfig `yaml:"gamification"`
	Cache          CacheConfig        `yaml:"cache"`
}

// GamificationConfig tunes the event pipeline.
type GamificationConfig struct {
	// CountForumReplies gates whether thread replies feed achievement
	// evaluation. Replies always earn XP either way.
	CountForumReplies bool `yaml:"count_forum_replies"`
	// LeaderboardSyncInterval is how often the XP to redis resync runs.
	LeaderboardSyncInterval Duration `yaml:"leaderboard_sync_interval"`
}

// CacheConfig tunes the article read-side cache.
type CacheConfig struct {
	// RebuildInterval is the periodic safety-net rebuild of the cached
	// article lists.
	RebuildInterval Duration `yaml:"rebuild_interval"`
	// ListSize caps the cached latest/popular lists.
	ListSize int `yaml:"list_size"`
}

// Duration wraps time.Duration so YAML accepts "5m" style strings as
// well as integer seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		if strings.TrimSpace(raw) == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		d.Duration = parsed
		return nil
	}

	var seconds int64
	if err := value.Decode(&seconds); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\" or integer seconds")
	}
	d.Duration = time.Duration(seconds) * time.Second
	return nil
}

// Load reads and normalizes the YAML config. A missing file yields the
// defaults so a bare binary still boots in development.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// keep defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Env == "" {
		c.Env = defaultEnv
	}
	if c.DSN == "" {
		c.DSN = defaultDSN
	}
	if c.RedisURL == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.Gamification.LeaderboardSyncInterval.Duration <= 0 {
		c.Gamification.LeaderboardSyncInterval.Duration = defaultLeaderboardSync
	}
	if c.Cache.RebuildInterval.Duration <= 0 {
		c.Cache.RebuildInterval.Duration = defaultCacheRebuild
	}
	if c.Cache.ListSize <= 0 {
		c.Cache.ListSize = defaultCachedListSize
	}
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("TP_DSN"); v != "" {
		c.DSN = v
	}
	if v := os.Getenv("TP_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("TP_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("TP_ENV"); v != "" {
		c.Env = v
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }
