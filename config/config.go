package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Board      BoardConfig      `yaml:"board"`
	Rosters    RostersConfig    `yaml:"rosters"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Auth       AuthConfig       `yaml:"auth"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration. The DSN decides
// the driver: "file:" or a plain path opens sqlite, anything else postgres.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BoardConfig holds the synchronization and display knobs.
type BoardConfig struct {
	StoreID             string        `yaml:"store_id"`
	ReloadIntervalSecs  int           `yaml:"reload_interval_seconds"`
	RenderIntervalSecs  int           `yaml:"render_interval_seconds"`
	CompletedDisplayCap int           `yaml:"completed_display_cap"`
	ReloadInterval      time.Duration `yaml:"-"`
	RenderInterval      time.Duration `yaml:"-"`
}

// RostersConfig holds the fixed name rosters screens choose from.
type RostersConfig struct {
	Valets      []string `yaml:"valets"`
	Drivers     []string `yaml:"drivers"`
	Salespeople []string `yaml:"salespeople"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the push worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// AuthToken maps one bearer token to a screen identity.
type AuthToken struct {
	Token   string `yaml:"token"`
	UserID  string `yaml:"user_id"`
	Role    string `yaml:"role"`
	StoreID string `yaml:"store_id"`
}

// AuthConfig holds the static token table.
type AuthConfig struct {
	Tokens []AuthToken `yaml:"tokens"`
}

// Load reads the configuration from the given path. Environment variables in
// the raw file are expanded before parsing, so secrets like the DSN can come
// from the environment (.env in development).
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 2
	}

	if cfg.Board.StoreID == "" {
		cfg.Board.StoreID = "default"
	}
	if cfg.Board.ReloadIntervalSecs <= 0 {
		cfg.Board.ReloadIntervalSecs = 5
	}
	if cfg.Board.RenderIntervalSecs <= 0 {
		cfg.Board.RenderIntervalSecs = 15
	}
	if cfg.Board.CompletedDisplayCap <= 0 {
		cfg.Board.CompletedDisplayCap = 50
	}
	cfg.Board.ReloadInterval = time.Duration(cfg.Board.ReloadIntervalSecs) * time.Second
	cfg.Board.RenderInterval = time.Duration(cfg.Board.RenderIntervalSecs) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
