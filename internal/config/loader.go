package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/feedview/internal/domain/ranking"
)

const (
	envPrefix     = "FEEDVIEW_"
	envConfigFile = "FEEDVIEW_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FEEDVIEW_CONFIG is set
//  3. env (prefix FEEDVIEW_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FEEDVIEW_POSTS_SOURCE -> posts_source. Underscores are preserved to
	// match the flat koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envConfigFile {
			return ""
		}
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints and normalizes default_sort to
// one of the known orderings.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CopyAckMS <= 0:
		return fmt.Errorf("%w: copy_ack_ms must be positive", ErrInvalidConfig)
	case c.MetricsRefreshMS <= 0:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	case c.LoadTimeoutMS < 0:
		return fmt.Errorf("%w: load_timeout_ms must not be negative", ErrInvalidConfig)
	case c.ProxyCacheBackend != CacheMemory && c.ProxyCacheBackend != CacheRedis:
		return fmt.Errorf("%w: proxy_cache_backend must be %q or %q", ErrInvalidConfig, CacheMemory, CacheRedis)
	}
	order, err := ranking.ParseSortOrder(c.DefaultSort)
	if err != nil {
		return fmt.Errorf("%w: default_sort: %w", ErrInvalidConfig, err)
	}
	c.DefaultSort = string(order)
	return nil
}
