package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedSummary struct {
	Designs int    `json:"designs"`
	Owner   string `json:"owner"`
}

func newMiniredisClient(t *testing.T) (CacheClient, *miniredis.Miniredis) {
	server := miniredis.RunT(t)

	client, err := NewCacheClient([]string{server.Addr()}, GENERAL_CACHE_INDEX, true)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, server
}

func TestCacheBuilder_SetGetDelete(t *testing.T) {
	client, server := newMiniredisClient(t)
	ctx := context.Background()

	err := NewCacheBuilder(client, uint(42)).
		WithContext(ctx).
		WithHash("dashboard").
		WithStruct(cachedSummary{Designs: 3, Owner: "somchai"}).
		WithTTL(time.Minute).
		Set()
	require.NoError(t, err)
	assert.True(t, server.Exists("dashboard:42"))

	var got cachedSummary
	found, err := NewCacheBuilder(client, uint(42)).WithContext(ctx).WithHash("dashboard").Get(&got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedSummary{Designs: 3, Owner: "somchai"}, got)

	require.NoError(t, NewCacheBuilder(client, uint(42)).WithHash("dashboard").Delete())

	found, err = NewCacheBuilder(client, uint(42)).WithHash("dashboard").Get(&got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheBuilder_TTLExpires(t *testing.T) {
	client, server := newMiniredisClient(t)

	require.NoError(t, NewCacheBuilder(client, "user:1").WithStruct("x").WithTTL(time.Second).Set())
	server.FastForward(2 * time.Second)

	var got string
	found, err := NewCacheBuilder(client, "user:1").Get(&got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheBuilder_NilClient(t *testing.T) {
	var got string

	found, err := NewCacheBuilder(nil, "anything").Get(&got)
	assert.ErrorIs(t, err, ErrCacheDisabled)
	assert.False(t, found)

	assert.ErrorIs(t, NewCacheBuilder(nil, 1).WithStruct("x").Set(), ErrCacheDisabled)
	assert.ErrorIs(t, NewCacheBuilder(nil, 1).Delete(), ErrCacheDisabled)
}

func TestCacheBuilder_RequiresValue(t *testing.T) {
	client, _ := newMiniredisClient(t)
	assert.Error(t, NewCacheBuilder(client, "empty").Set())
}
