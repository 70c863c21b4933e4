package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rezo/internal/verification/store"
	"rezo/pkg/platform/sentinel"
)

func TestSaveGetDeleteCode(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()

	require.NoError(t, s.SaveCode(ctx, "amina@example.com", "hash-1", time.Minute))

	hash, err := s.GetCode(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", hash)

	require.NoError(t, s.DeleteCode(ctx, "amina@example.com"))

	_, err = s.GetCode(ctx, "amina@example.com")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSaveCodeReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemory()

	require.NoError(t, s.SaveCode(ctx, "amina@example.com", "hash-1", time.Minute))
	require.NoError(t, s.SaveCode(ctx, "amina@example.com", "hash-2", time.Minute))

	hash, err := s.GetCode(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", hash)
}

func TestCodeExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := store.NewInMemoryWithClock(func() time.Time { return now })

	require.NoError(t, s.SaveCode(ctx, "amina@example.com", "hash-1", 10*time.Minute))

	now = now.Add(11 * time.Minute)
	_, err := s.GetCode(ctx, "amina@example.com")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestCooldownWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := store.NewInMemoryWithClock(func() time.Time { return now })

	ok, err := s.TryAcquireCooldown(ctx, "amina@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TryAcquireCooldown(ctx, "amina@example.com", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, err = s.TryAcquireCooldown(ctx, "amina@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
