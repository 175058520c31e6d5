package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oy3o/binder/config"
	"github.com/oy3o/binder/storage/ddb"
)

// New builds the Service selected by cfg. When no storage is configured the
// NoOp service is returned, so callers always get a usable store.
func New(ctx context.Context, cfg config.Storage, log *zap.Logger) (Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Kind {
	case config.StorageMemory:
		log.Info("storage: using in-memory store")
		return NewMemory(), nil
	case config.StorageDynamoDB:
		client, err := ddb.NewClient(ctx, ddb.ClientConfig{
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		log.Info("storage: using dynamodb store",
			zap.String("table", cfg.Table), zap.String("region", cfg.Region))
		return ddb.New(client, cfg.Table, log), nil
	default:
		log.Info("storage: not configured, blobs will not be persisted", zap.String("kind", cfg.Kind))
		return NoOp{}, nil
	}
}
