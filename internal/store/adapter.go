package store

import (
	"context"
	"errors"

	"stayprice-session/internal/logging"
)

// Adapter is the failure-absorbing face of a Backend. Persistence is a
// convenience here: every backend error collapses to "absent" or a no-op and
// is only logged.
type Adapter struct {
	backend Backend
}

func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Read returns the stored value and whether one was found
func (a *Adapter) Read(ctx context.Context, key string) (string, bool) {
	value, err := a.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.New(ctx).Warnf("store_read", "key=%s treated as absent: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// Write stores value and reports whether it was persisted
func (a *Adapter) Write(ctx context.Context, key, value string) bool {
	if err := a.backend.Set(ctx, key, value); err != nil {
		logging.New(ctx).Warnf("store_write", "key=%s not persisted: %v", key, err)
		return false
	}
	return true
}

// Remove deletes key, ignoring failures
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, key); err != nil {
		logging.New(ctx).Warnf("store_remove", "key=%s not removed: %v", key, err)
	}
}

// Ping reports backend health for readiness checks. It is the only method
// that surfaces an error.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
