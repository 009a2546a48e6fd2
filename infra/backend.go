package infra

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Backend is the shared store handle. Exactly one of Redis or DB is set,
// depending on the configured driver. It is created once by Connect and
// released by Close.
type Backend struct {
	Redis *redis.Client
	DB    *gorm.DB
}

// Connect opens the store selected by cfg.Store.Driver.
func Connect(ctx context.Context, cfg *Config) (*Backend, error) {
	if cfg.Store.Driver == DriverRedis {
		client, err := SetupRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Setup redis store: %s", cfg.RedisAddr())
		return &Backend{Redis: client}, nil
	}

	db, err := SetupDB(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return &Backend{DB: db}, nil
}

// NativeExpiry reports whether the store drops expired keys by itself.
func (b *Backend) NativeExpiry() bool {
	return b.Redis != nil
}

func (b *Backend) Close() error {
	var errs []error
	if b.Redis != nil {
		errs = append(errs, b.Redis.Close())
	}
	if b.DB != nil {
		if sqlDB, err := b.DB.DB(); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
