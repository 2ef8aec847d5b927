package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/statewrap"
	"github.com/aretw0/statewrap/internal/config"
	"github.com/aretw0/statewrap/internal/emitter/golang"
	"github.com/aretw0/statewrap/pkg/adapters/file"
	"github.com/aretw0/statewrap/pkg/adapters/process"
	"github.com/aretw0/statewrap/pkg/adapters/redis"
	"github.com/aretw0/statewrap/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// app bundles an engine with the resources the CLI created for it.
type app struct {
	Engine   *statewrap.Engine
	Metrics  *prometheus.Registry
	Logger   *slog.Logger
	// Hooks is only set by generate.
	Hooks    *process.Runner
	closeFns []func() error
}

// Close releases external connections.
func (a *app) Close() error {
	var first error
	for _, fn := range a.closeFns {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// createEngine initializes an engine with standard CLI conventions:
// provider from --provider, cache from --redis or --cache-dir, metrics always collected.
func createEngine(opts Options, cfg config.Config, gen GenerateOptions) (*app, error) {
	logger := createLogger(opts.Debug, opts.LogFormat)
	a := &app{Logger: logger, Metrics: prometheus.NewRegistry()}

	metrics, err := observability.NewMetrics(a.Metrics)
	if err != nil {
		return nil, err
	}

	engineOpts := []statewrap.Option{
		statewrap.WithLogger(logger),
		statewrap.WithLifecycleHooks(metrics.Hooks()),
		statewrap.WithNameSuffix(gen.Suffix),
		statewrap.WithWorkers(gen.Workers),
		statewrap.WithEmitter(golang.New(golang.WithPackage(gen.Package), golang.WithSplit(gen.Split))),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, statewrap.WithLifecycleHooks(observability.LogHooks(logger)))
	}

	switch opts.Provider {
	case "", ProviderLoam:
	case ProviderFile:
		engineOpts = append(engineOpts, statewrap.WithProvider(file.NewProvider(opts.Dir)))
	default:
		return nil, fmt.Errorf("unknown provider %q (available: %s, %s)", opts.Provider, ProviderLoam, ProviderFile)
	}

	storeOpts, err := a.cacheOptions(opts, cfg.Redis)
	if err != nil {
		return nil, err
	}
	engineOpts = append(engineOpts, storeOpts...)

	engine, err := statewrap.New(opts.Dir, engineOpts...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	a.Engine = engine
	return a, nil
}

// cacheOptions picks the unit cache: redis (shared, locked per fingerprint) wins over a local directory.
func (a *app) cacheOptions(opts Options, rc config.Redis) ([]statewrap.Option, error) {
	addr := opts.RedisAddr
	if addr == "" {
		addr = rc.Addr
	}

	if addr != "" {
		ttl, err := parseTTL(rc.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis ttl: %w", err)
		}
		prefix := rc.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		store := redis.New(addr, rc.Password, rc.DB, redis.WithPrefix(prefix), redis.WithTTL(ttl))
		a.closeFns = append(a.closeFns, store.Close)
		a.Logger.Debug("Using redis unit cache", "addr", addr, "prefix", prefix)
		return []statewrap.Option{
			statewrap.WithStore(store),
			statewrap.WithLocker(redis.NewLocker(store.Client(), prefix), 0),
		}, nil
	}

	if opts.CacheDir != "" {
		a.Logger.Debug("Using file unit cache", "dir", opts.CacheDir)
		return []statewrap.Option{statewrap.WithStore(file.NewStore(opts.CacheDir))}, nil
	}
	return nil, nil
}
