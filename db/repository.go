package db

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repository defines a common interface for all repositories
type Repository interface {
	Close() error
}

// KVRepository stores string values under keys inside one namespace
type KVRepository interface {
	Repository
	Find(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
