package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Backend when the key holds no value
	ErrNotFound = errors.New("store: key not found")

	// ErrQuotaExceeded is returned when a value does not fit the backend's quota
	ErrQuotaExceeded = errors.New("store: quota exceeded")
)

// Backend is a durable key/value store. Unlike Adapter, it reports every failure.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
