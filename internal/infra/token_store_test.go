package infra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenStore(rdb), mr
}

func TestTokenStore_RevokeAndCheck(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	first, err := store.Revoke(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	again, err := store.Revoke(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.False(t, again, "second revoke of the same jti must lose")
}

func TestTokenStore_EntryExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Revoke(ctx, "abc", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_NonPositiveTTLIsNoop(t *testing.T) {
	store, mr := newTestStore(t)

	ok, err := store.Revoke(context.Background(), "abc", 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(revokedKeyPrefix+"abc"))
}

func TestNewRedis_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer rdb.Close()

	_, err = NewRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
