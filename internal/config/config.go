// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and FEEDVIEW_* env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PostsSource and CreationsSource locate the two JSON collections. Each is a
	// file path, an http(s) URL or an s3://bucket/key location.
	PostsSource     string `koanf:"posts_source"`
	CreationsSource string `koanf:"creations_source"`

	// LoadTimeoutMS bounds each collection fetch. Zero waits forever.
	LoadTimeoutMS int `koanf:"load_timeout_ms"`

	// DefaultSort is the ordering selected at startup.
	DefaultSort string `koanf:"default_sort"`

	// CopyAckMS is how long a copied image URL stays acknowledged.
	CopyAckMS int `koanf:"copy_ack_ms"`

	// MetricsEnabled toggles Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`
	// Metric names are <namespace>_<subsystem>_<name>. Labels are attached to
	// every series, e.g. {"instance": "feedview-1"}.
	MetricsNamespace        string            `koanf:"metrics_namespace"`
	MetricsSubsystem        string            `koanf:"metrics_subsystem"`
	MetricsLabels           map[string]string `koanf:"metrics_labels"`
	MetricsRefreshMS        int               `koanf:"metrics_refresh_ms"`
	MetricsLatencyBucketsMS []float64         `koanf:"metrics_latency_buckets_ms"`

	// Image proxy.
	ProxyTimeoutMS       int      `koanf:"proxy_timeout_ms"`
	ProxyMaxBytes        int64    `koanf:"proxy_max_bytes"`
	ProxyAllowedHosts    []string `koanf:"proxy_allowed_hosts"`
	ProxyCacheBackend    string   `koanf:"proxy_cache_backend"`
	ProxyCacheSize       int      `koanf:"proxy_cache_size"`
	ProxyCacheTTLSeconds int      `koanf:"proxy_cache_ttl_seconds"`

	// Redis backs the proxy cache when ProxyCacheBackend is "redis".
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// S3 settings for s3:// sources. Empty credentials fall back to the
	// anonymous client.
	S3Region          string `koanf:"s3_region"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
	S3UsePathStyle    bool   `koanf:"s3_use_path_style"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		PostsSource:          "data/instagram_data.json",
		CreationsSource:      "data/creations_data.json",
		LoadTimeoutMS:        0,
		DefaultSort:          "algorithm",
		CopyAckMS:            2000,
		MetricsEnabled:       true,
		MetricsNamespace:     "feedview",
		MetricsSubsystem:     "viewer",
		MetricsRefreshMS:     10_000,
		ProxyTimeoutMS:       10_000,
		ProxyMaxBytes:        20 << 20,
		ProxyCacheBackend:    CacheMemory,
		ProxyCacheSize:       256,
		ProxyCacheTTLSeconds: 3600,
		RedisAddr:            "localhost:6379",
		S3Region:             "us-east-1",
	}
}

// LoadTimeout returns the per-load timeout; zero means none.
func (c *Config) LoadTimeout() time.Duration {
	if c.LoadTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.LoadTimeoutMS) * time.Millisecond
}

// CopyAck returns the copy acknowledgment window.
func (c *Config) CopyAck() time.Duration {
	return time.Duration(c.CopyAckMS) * time.Millisecond
}

// ProxyTimeout returns the upstream fetch timeout of the image proxy.
func (c *Config) ProxyTimeout() time.Duration {
	return time.Duration(c.ProxyTimeoutMS) * time.Millisecond
}

// ProxyCacheTTL returns how long proxied images stay cached.
func (c *Config) ProxyCacheTTL() time.Duration {
	return time.Duration(c.ProxyCacheTTLSeconds) * time.Second
}

// MetricsRefresh returns how often periodic gauges are refreshed.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}
