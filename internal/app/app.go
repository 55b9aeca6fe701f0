package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/neurobridge-roadmap/internal/config"
	"github.com/yungbote/neurobridge-roadmap/internal/observability"
	"github.com/yungbote/neurobridge-roadmap/internal/platform/logger"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/cache"
	"github.com/yungbote/neurobridge-roadmap/internal/roadmap/catalog"
)

type App struct {
	Log       *logger.Logger
	Cfg       *config.Config
	Catalog   *catalog.Catalog
	Generator *roadmap.Generator
	Metrics   *observability.Metrics

	closers []func(context.Context) error
}

// Options tune New. The zero value reads config from the default locations and leaves metrics
// to METRICS_ENABLED.
type Options struct {
	// ConfigPath overrides ROADMAP_CONFIG_PATH and ./config/roadmap.yaml.
	ConfigPath string
	// Metrics turns the in-process registry on regardless of METRICS_ENABLED.
	Metrics bool
}

// New loads configuration and wires the roadmap generator.
func New(ctx context.Context, opts Options) (*App, error) {
	var (
		cfg *config.Config
		err error
	)
	if strings.TrimSpace(opts.ConfigPath) != "" {
		cfg, err = config.LoadFile(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{Log: log, Cfg: cfg, Catalog: catalog.Default()}
	a.closers = append(a.closers, observability.InitOTel(ctx, log, observability.OtelConfig{Environment: cfg.Env}))
	if opts.Metrics {
		a.Metrics = observability.Enable(log)
	} else {
		a.Metrics = observability.Init(log)
	}

	store, err := wireCache(ctx, log, cfg.Cache)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	gw := roadmap.NewGatewayFromConfig(cfg.Model, log)
	a.Generator = roadmap.NewGenerator(
		roadmap.WithLogger(log),
		roadmap.WithGateway(gw),
		roadmap.WithCache(store),
		roadmap.WithCatalog(a.Catalog),
	)
	if rs, ok := store.(*cache.RedisStore); ok {
		a.closers = append(a.closers, func(context.Context) error { return rs.Close() })
	}

	log.Info("roadmap app ready",
		"env", cfg.Env,
		"cache_backend", cfg.Cache.Backend,
		"model", cfg.Model.Model,
		"model_available", gw.Available(),
	)
	return a, nil
}

func wireCache(ctx context.Context, log *logger.Logger, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		s, err := cache.NewRedisStore(ctx, log, cfg.RedisAddr, cfg.RedisDB, cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		return s, nil
	default:
		return cache.NewMemoryStore(), nil
	}
}

func (a *App) GenerateWithPath(ctx context.Context, p roadmap.Profile, name string) ([]roadmap.Task, roadmap.Path, error) {
	return a.Generator.GenerateWithPath(ctx, p, name)
}

func (a *App) Fingerprint(p roadmap.Profile, name string) (string, error) {
	return a.Generator.Fingerprint(p, name)
}

func (a *App) CacheInfo(ctx context.Context) (roadmap.CacheInfo, error) {
	return a.Generator.CacheInfo(ctx)
}

func (a *App) ClearCache(ctx context.Context) error {
	return a.Generator.ClearCache(ctx)
}

// WriteMetrics writes the Prometheus text exposition; it writes nothing when metrics are off.
func (a *App) WriteMetrics(w io.Writer) error {
	return a.Metrics.WritePrometheus(w)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
