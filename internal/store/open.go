package store

import (
	"context"
	"fmt"

	"stayprice-session/internal/config"
)

// Open builds the backend selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory, "":
		return NewMemoryBackend(cfg.StoreQuotaBytes), nil
	case config.BackendRedis:
		backend, err := DialRedis(cfg.RedisURL, cfg.StoreKeyPrefix)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.BackendFirestore:
		backend, err := DialFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.BackendPostgres:
		backend, err := DialPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
