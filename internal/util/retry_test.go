package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestRetryOnLock(t *testing.T) {
	t.Run("succeeds after lock clears", func(t *testing.T) {
		calls := 0
		err := RetryOnLock(func() error {
			calls++
			if calls < 2 {
				return fmt.Errorf("write: %w", sqlite3.Error{Code: sqlite3.ErrBusy})
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint failed")
		err := RetryOnLock(func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		calls := 0
		err := RetryOnLock(func() error {
			calls++
			return errors.New("database is locked")
		})
		assert.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestRetryOnLockWithResult(t *testing.T) {
	v, err := RetryOnLockWithResult(func() (string, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}
