// Package driver opens the storage backend selected by configuration.
package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/docelucro/internal/config"
	"github.com/mmynk/docelucro/internal/storage"
	"github.com/mmynk/docelucro/internal/storage/local"
	"github.com/mmynk/docelucro/internal/storage/postgres"
	"github.com/mmynk/docelucro/internal/storage/s3doc"
	"github.com/mmynk/docelucro/internal/storage/sqlite"
)

// Open returns the store for cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (storage.Store, error) {
	store, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func open(ctx context.Context, cfg config.StoreConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		slog.Info("Opening sqlite store", "path", cfg.DBPath)
		return sqlite.New(cfg.DBPath)
	case config.DriverLocal:
		slog.Info("Opening local file store", "dir", cfg.LocalDataDir)
		return local.Open(cfg.LocalDataDir)
	case config.DriverPostgres:
		slog.Info("Opening postgres store")
		return postgres.Open(ctx, cfg.DatabaseURL)
	case config.DriverS3:
		slog.Info("Opening s3 store", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return s3doc.New(ctx, s3doc.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
