package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked"), true},
		{"database table is locked", errors.New("database table is locked"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY"), true},
		{"SQLITE_LOCKED", errors.New("SQLITE_LOCKED"), true},
		{"error code 5", errors.New("error (5): database busy"), true},
		{"error code 6", errors.New("error (6): database locked"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"constraint violation", errors.New("UNIQUE constraint failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBusyError(tt.err))
		})
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds on first attempt", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries on busy error and succeeds", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("fails immediately on non-busy error", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 5, func() error {
			attempts++
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("exhausts all retries on persistent busy error", func(t *testing.T) {
		attempts := 0
		err := retryWithBackoff(context.Background(), 3, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 4, attempts) // 1 initial + 3 retries
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := retryWithBackoff(ctx, 10, func() error {
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestIsPostgresDSN(t *testing.T) {
	t.Parallel()

	assert.True(t, isPostgresDSN("postgres://user:pw@localhost:5432/bookhive"))
	assert.True(t, isPostgresDSN("postgresql://localhost/bookhive"))
	assert.False(t, isPostgresDSN(":memory:"))
	assert.False(t, isPostgresDSN("/data/bookhive.db"))
}
