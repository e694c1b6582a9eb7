// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/dataservice"
)

// Config is the full runtime configuration of the server.
type Config struct {
	Addr string

	DBDriver string // "sqlite" or "postgres"
	DBDSN    string

	CacheBackend string // "memory" or "redis"
	RedisAddr    string
	RedisDB      int

	JWTSigningKey string

	Cache   cache.Config
	Service dataservice.Options
}

// FromEnv reads configuration from LIAISON_* environment variables, filling
// defaults suitable for local development.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:          getenv("LIAISON_ADDR", ":8080"),
		DBDriver:      getenv("LIAISON_DB_DRIVER", "sqlite"),
		DBDSN:         getenv("LIAISON_DB_DSN", "file:liaison.db?cache=shared&_fk=1"),
		CacheBackend:  getenv("LIAISON_CACHE_BACKEND", "memory"),
		RedisAddr:     getenv("LIAISON_REDIS_ADDR", "localhost:6379"),
		JWTSigningKey: os.Getenv("LIAISON_JWT_KEY"),
		Cache:         cache.DefaultConfig(),
		Service:       dataservice.DefaultOptions(),
	}

	var err error
	if cfg.RedisDB, err = getint("LIAISON_REDIS_DB", 0); err != nil {
		return cfg, err
	}
	if cfg.Cache.AbsoluteTTL, err = getdur("LIAISON_CACHE_ABSOLUTE_TTL", cfg.Cache.AbsoluteTTL); err != nil {
		return cfg, err
	}
	if cfg.Cache.SlidingTTL, err = getdur("LIAISON_CACHE_SLIDING_TTL", cfg.Cache.SlidingTTL); err != nil {
		return cfg, err
	}
	if cfg.Service.DefaultPageSize, err = getint("LIAISON_DEFAULT_PAGE_SIZE", cfg.Service.DefaultPageSize); err != nil {
		return cfg, err
	}
	if cfg.Service.MaxPageSize, err = getint("LIAISON_MAX_PAGE_SIZE", cfg.Service.MaxPageSize); err != nil {
		return cfg, err
	}
	if cfg.Service.MaxSearchResults, err = getint("LIAISON_MAX_SEARCH_RESULTS", cfg.Service.MaxSearchResults); err != nil {
		return cfg, err
	}
	cfg.Service.EnableAuthorization = getbool("LIAISON_ENABLE_AUTHORIZATION", cfg.Service.EnableAuthorization)
	cfg.Service.EnableTenantIsolation = getbool("LIAISON_ENABLE_TENANT_ISOLATION", cfg.Service.EnableTenantIsolation)
	cfg.Service.UseSoftDelete = getbool("LIAISON_USE_SOFT_DELETE", cfg.Service.UseSoftDelete)
	cfg.Service.HideInactiveByID = getbool("LIAISON_HIDE_INACTIVE_BY_ID", cfg.Service.HideInactiveByID)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache backend %q", c.CacheBackend)
	}
	if c.Service.EnableAuthorization && c.JWTSigningKey == "" {
		return fmt.Errorf("LIAISON_JWT_KEY is required when authorization is enabled")
	}
	return c.Cache.Validate()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getdur(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
