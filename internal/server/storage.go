package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/flavorfind/backend/config"
	"github.com/pageza/flavorfind/backend/internal/database"
	"github.com/pageza/flavorfind/backend/internal/logger"
	"github.com/pageza/flavorfind/backend/internal/storage"
)

// redisKeyPrefix scopes every session key written to a shared Redis
const redisKeyPrefix = "flavorfind:"

// Backend is the session storage picked by STORAGE_DRIVER together with the
// connections it owns.
type Backend struct {
	Storage storage.Storage
	// Redis is set whenever Redis is configured, even if another driver
	// holds the session data. The search rate limiter shares it.
	Redis *redis.Client

	checks  []func(ctx context.Context) error
	closers []func() error
}

// OpenStorage connects the configured storage driver
func OpenStorage(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		b.Redis = client
		b.closers = append(b.closers, client.Close)
		b.checks = append(b.checks, func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	if err := b.openDriver(ctx, cfg); err != nil {
		_ = b.Close()
		return nil, err
	}

	logger.L().Info("session storage ready", zap.String("driver", cfg.StorageDriver))
	return b, nil
}

func (b *Backend) openDriver(ctx context.Context, cfg *config.Config) error {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		b.Storage = storage.NewMemoryStorage()

	case config.StorageRedis:
		if b.Redis == nil {
			return errors.New("redis storage requires REDIS_HOST or REDIS_URL")
		}
		b.Storage = storage.NewRedisStorage(b.Redis, redisKeyPrefix)

	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg)
		if err != nil {
			return err
		}
		return b.useSQL(db)

	case config.StorageSQLite:
		db, err := database.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		return b.useSQL(db)

	case config.StorageS3:
		client, err := config.NewS3Client(ctx, cfg)
		if err != nil {
			return err
		}
		b.Storage = storage.NewS3Storage(client, cfg.S3Bucket, cfg.S3Prefix)

	case config.StorageMongo:
		client, err := database.NewMongoClient(ctx, cfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })
		b.checks = append(b.checks, func(ctx context.Context) error { return client.Ping(ctx, nil) })
		b.Storage = storage.NewMongoStorage(client.Database(cfg.MongoDB).Collection(database.SessionCollection))

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	return nil
}

func (b *Backend) useSQL(db *gorm.DB) error {
	b.closers = append(b.closers, func() error { return database.Close(db) })
	if err := database.RunMigrations(db); err != nil {
		return err
	}
	b.checks = append(b.checks, func(ctx context.Context) error { return database.HealthCheck(ctx, db) })
	b.Storage = storage.NewSQLStorage(db)
	return nil
}

// HealthCheck pings every connection the backend owns
func (b *Backend) HealthCheck(ctx context.Context) error {
	for _, check := range b.checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every connection in reverse order of opening
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
