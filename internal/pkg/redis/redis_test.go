package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect("::not a url")
	assert.Error(t, err)
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestClient(t)
	v, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestIncrWindow(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	n, ttl, err := c.IncrWindow(ctx, "rl", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, time.Minute, ttl)

	n, _, err = c.IncrWindow(ctx, "rl", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	mr.FastForward(time.Minute + time.Second)
	n, _, err = c.IncrWindow(ctx, "rl", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestDeletePattern(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "cache:a", "1", 0))
	require.NoError(t, c.Set(ctx, "cache:b", "2", 0))
	require.NoError(t, c.Set(ctx, "other", "3", 0))

	n, err := c.DeletePattern(ctx, "cache:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other"))
	assert.False(t, mr.Exists("cache:a"))
}

func TestSetNX(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	ok, err := c.SetNX(ctx, "k", "0", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.SetNX(ctx, "k", "0", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
