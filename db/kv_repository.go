package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"balancegame-web/internal/util"
)

// SQLiteKVRepository implements KVRepository on the kv_store table.
// It also satisfies session.Storage so a Session Store can persist to it.
type SQLiteKVRepository struct {
	db        *sql.DB
	namespace string
	timeout   time.Duration
}

func NewSQLiteKVRepository(db *sql.DB, namespace string) *SQLiteKVRepository {
	return &SQLiteKVRepository{db: db, namespace: namespace, timeout: 5 * time.Second}
}

// Close is a no-op; the connection is owned by the caller
func (r *SQLiteKVRepository) Close() error {
	return nil
}

func (r *SQLiteKVRepository) Find(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE namespace = ? AND key = ?`,
		r.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteKVRepository) Put(ctx context.Context, key, value string) error {
	return util.RetryOnLock(func() error {
		_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_store (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			r.namespace, key, value, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to write %q: %w", key, err)
		}
		return nil
	})
}

func (r *SQLiteKVRepository) Delete(ctx context.Context, key string) error {
	return util.RetryOnLock(func() error {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM kv_store WHERE namespace = ? AND key = ?`,
			r.namespace, key,
		)
		if err != nil {
			return fmt.Errorf("failed to delete %q: %w", key, err)
		}
		return nil
	})
}

// Get, Set and Remove adapt the repository to session.Storage.

func (r *SQLiteKVRepository) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.Find(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("Error reading %s from kv_store: %v", key, err)
		}
		return "", false
	}
	return value, true
}

func (r *SQLiteKVRepository) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.Put(ctx, key, value)
}

func (r *SQLiteKVRepository) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.Delete(ctx, key)
}
