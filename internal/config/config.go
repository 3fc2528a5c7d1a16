package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/statuspanel/pkg"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"

	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"

	devSessionSecret = "statuspanel-dev-secret"
)

type KnownService struct {
	Name        string `toml:"name"`
	TracksQueue bool   `toml:"tracks_queue"`
}

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host" env:"HOST, overwrite"`
	Port        int    `toml:"port" env:"PORT, overwrite"`
	// logging
	LogLevel      string `toml:"log_level" env:"LOG_LEVEL, overwrite"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-" env:"SENTRY_DSN, overwrite"`
	// storage
	StorageDriver string `toml:"storage_driver" env:"STORAGE_DRIVER, overwrite"`
	DatabaseURL   string `toml:"database_url" env:"DATABASE_URL, overwrite"`
	// sessions
	SessionStore        string        `toml:"session_store" env:"SESSION_STORE, overwrite"`
	SessionSecret       string        `toml:"session_secret" env:"SESSION_SECRET, overwrite"`
	SessionTTL          time.Duration `toml:"session_ttl" env:"SESSION_TTL, overwrite"`
	SessionCookieSecure bool          `toml:"session_cookie_secure" env:"SESSION_COOKIE_SECURE, overwrite"`
	RedisHost           string        `toml:"redis_host" env:"REDIS_HOST, overwrite"`
	RedisPort           string        `toml:"redis_port" env:"REDIS_PORT, overwrite"`
	RedisPassword       string        `toml:"-" env:"REDIS_PASSWORD, overwrite"`
	// accounts
	SeedAdminPassword string `toml:"seed_admin_password" env:"SEED_ADMIN_PASSWORD, overwrite"`
	SeedUsersPath     string `toml:"seed_users_path" env:"SEED_USERS_PATH, overwrite"`
	// board
	KnownServices []KnownService `toml:"known_services"`
	// telemetry
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	HoneycombEnabled      bool   `toml:"honeycomb_enabled" env:"HONEYCOMB_ENABLED, overwrite"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Default returns the local development configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Environment:           "development",
		Host:                  "localhost",
		Port:                  3000,
		LogLevel:              "debug",
		LogToStdout:           true,
		StorageDriver:         StorageDriverPostgres,
		DatabaseURL:           "postgres://postgres@localhost:5432/statuspanel",
		SessionStore:          SessionStoreRedis,
		SessionSecret:         devSessionSecret,
		SessionTTL:            24 * time.Hour,
		RedisHost:             "localhost",
		RedisPort:             "6379",
		SeedAdminPassword:     "changeme",
		KnownServices:         DefaultKnownServices(),
		PrometheusMetricsHost: "localhost",
		PrometheusMetricsPort: "2112",
	}
}

func DefaultKnownServices() []KnownService {
	return []KnownService{
		{Name: "miraidon", TracksQueue: true},
		{Name: "mable", TracksQueue: true},
		{Name: "dm_support", TracksQueue: false},
	}
}

// Load reads the env section of the TOML file at path and applies environment overrides.
// A missing file means the built-in development defaults.
func Load(ctx context.Context, env, path string) (*Config, error) {
	return load(ctx, env, path, envconfig.OsLookuper())
}

func load(ctx context.Context, env, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg, err := readFile(env, path)
	if err != nil {
		return nil, err
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readFile(env, path string) (*Config, error) {
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if !exists {
		cfg := Default()
		if isProduction(env) {
			cfg.Environment = "production"
			cfg.SessionSecret = ""
		}
		return cfg, nil
	}

	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config file %s has no section for env: %s", path, env)
	}

	if cfg.Environment == "" {
		if isProduction(env) {
			cfg.Environment = "production"
		} else {
			cfg.Environment = "development"
		}
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Host == "" {
		c.Host = def.Host
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.StorageDriver == "" {
		c.StorageDriver = def.StorageDriver
	}
	if c.DatabaseURL == "" && c.StorageDriver == def.StorageDriver {
		c.DatabaseURL = def.DatabaseURL
	}
	if c.SessionStore == "" {
		c.SessionStore = def.SessionStore
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = def.SessionTTL
	}
	if c.SessionSecret == "" && !c.IsProduction() {
		c.SessionSecret = devSessionSecret
	}
	if c.RedisHost == "" {
		c.RedisHost = def.RedisHost
	}
	if c.RedisPort == "" {
		c.RedisPort = def.RedisPort
	}
	if len(c.KnownServices) == 0 {
		c.KnownServices = DefaultKnownServices()
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = def.PrometheusMetricsHost
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = def.PrometheusMetricsPort
	}
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.StorageDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("database url not set, use DATABASE_URL")
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("unknown session store: %s", c.SessionStore)
	}
	if c.SessionSecret == "" {
		return errors.New("session secret not set, use SESSION_SECRET")
	}

	for _, ks := range c.KnownServices {
		if ks.Name == "" {
			return errors.New("known service with empty name")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return isProduction(c.Environment)
}

func isProduction(env string) bool {
	switch strings.ToLower(env) {
	case "prod", "production":
		return true
	default:
		return false
	}
}
