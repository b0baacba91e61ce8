package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/feedview/internal/adapters/cache"
	"github.com/okian/feedview/internal/adapters/http/api"
	"github.com/okian/feedview/internal/adapters/http/proxy"
	"github.com/okian/feedview/internal/adapters/http/site"
	"github.com/okian/feedview/internal/adapters/http/swagger"
	"github.com/okian/feedview/internal/adapters/source"
	app "github.com/okian/feedview/internal/app"
	"github.com/okian/feedview/internal/config"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/pkg/logger"
	"github.com/okian/feedview/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	redisPingTimeout          = 2 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithConstLabels(cfg.MetricsLabels),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBucketsMS),
	)

	posts, creations, err := buildSources(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "invalid collection source", logger.Error(err))
		return
	}

	imageCache, closeCache := buildCache(ctx, cfg, loggerInstance)
	defer closeCache()

	svc := app.New(
		app.WithLogger(loggerInstance.Named("service")),
		app.WithPostsSource(posts),
		app.WithCreationsSource(creations),
		app.WithDefaultOrder(model.SortOrder(cfg.DefaultSort)),
		app.WithLoadTimeout(cfg.LoadTimeout()),
		app.WithCopyAck(cfg.CopyAck()),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, imageCache, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildSources resolves both collection locations. An S3 client is only
// built when a location needs one.
func buildSources(cfg *config.Config) (source.Source, source.Source, error) {
	var opts []source.Option
	if strings.HasPrefix(cfg.PostsSource, "s3://") || strings.HasPrefix(cfg.CreationsSource, "s3://") {
		opts = append(opts, source.WithS3(source.NewS3Client(source.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})))
	}

	posts, err := source.New(cfg.PostsSource, opts...)
	if err != nil {
		return nil, nil, err
	}
	creations, err := source.New(cfg.CreationsSource, opts...)
	if err != nil {
		return nil, nil, err
	}
	return posts, creations, nil
}

// buildCache returns the image proxy cache and its close func. An unreachable
// Redis falls back to the memory cache.
func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.Cache, func()) {
	memory := func() cache.Cache {
		return cache.NewMemory(
			cache.WithMaxEntries(cfg.ProxyCacheSize),
			cache.WithTTL(cfg.ProxyCacheTTL()),
		)
	}
	if cfg.ProxyCacheBackend != config.CacheRedis {
		return memory(), func() {}
	}

	rc := cache.NewRedis(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}), cfg.ProxyCacheTTL())

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn(ctx, "redis unavailable, using memory image cache", logger.String("addr", cfg.RedisAddr), logger.Error(err))
		_ = rc.Close()
		return memory(), func() {}
	}
	log.Info(ctx, "using redis image cache", logger.String("addr", cfg.RedisAddr))
	return rc, func() { _ = rc.Close() }
}

// newHandler registers every route and wraps the mux in the request id
// middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, c cache.Cache, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	imageProxy := proxy.NewHandler(
		proxy.WithCache(c),
		proxy.WithAllowedHosts(cfg.ProxyAllowedHosts),
		proxy.WithMaxBytes(cfg.ProxyMaxBytes),
		proxy.WithTimeout(cfg.ProxyTimeout()),
		proxy.WithLogger(log.Named("proxy")),
	)
	api.NewServer(svc, svc,
		api.WithImageProxy(imageProxy),
		api.WithLogger(log.Named("api")),
	).Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the collection size gauges from the state.
func updateServiceMetrics(svc *app.Service) {
	st := svc.State()
	metrics.UpdateCollectionSize("posts", len(st.AllPosts))
	metrics.UpdateCollectionSize("creations", len(st.Creations))
}
