package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskwise/internal/config"
	pgInfra "github.com/fastygo/taskwise/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskwise/internal/infrastructure/redis"
	"github.com/fastygo/taskwise/repository"
	"github.com/fastygo/taskwise/repository/bolt"
	"github.com/fastygo/taskwise/repository/memory"
	pgStore "github.com/fastygo/taskwise/repository/postgres"
	redisStore "github.com/fastygo/taskwise/repository/redis"
	"github.com/fastygo/taskwise/repository/sqlite"
)

// backend is a key-value store the monitor can probe.
type backend interface {
	repository.KeyValueStore
	repository.Pinger
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, tasks are lost on restart")
		return memory.New(), nil

	case config.DriverBolt:
		store, err := bolt.Open(cfg.Bolt.Path, cfg.Bolt.Bucket)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		logger.Info("bolt storage opened", zap.String("path", cfg.Bolt.Path))
		return store, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return redisStore.NewStore(client, cfg.Storage.Namespace+":"), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		return pgStore.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
