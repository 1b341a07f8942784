//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, key, []byte(`{"title":"Pancakes"}`), time.Minute))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Pancakes"}`, string(got))

	require.NoError(t, s.Set(ctx, key, []byte(`{"title":"Waffles"}`), time.Minute))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Waffles"}`, string(got))
}

func TestRedisStore_Integration(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	s, err := NewRedisStore(context.Background(), redisURL)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	exerciseStore(t, s)
}

func TestPostgresStore_Integration(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := NewPostgresStore(context.Background(), databaseURL)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	exerciseStore(t, s)

	ctx := context.Background()
	key := "test:" + uuid.NewString()
	require.NoError(t, s.Set(ctx, key, []byte(`{"title":"Old"}`), -time.Minute))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	removed, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))
}

func TestPostgresStore_PurgesInBackground(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := NewPostgresStore(context.Background(), databaseURL)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	key := "test:" + uuid.NewString()
	require.NoError(t, s.Set(ctx, key, []byte(`{"title":"Old"}`), -time.Minute))

	s.StartPurging(20*time.Millisecond, nil)
	assert.Eventually(t, func() bool {
		var n int
		err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ogp_cache WHERE key = $1`, key).Scan(&n)
		return err == nil && n == 0
	}, 2*time.Second, 20*time.Millisecond)
}
