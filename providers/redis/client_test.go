package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/cachekit"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, WithNamespace("test:"))
}

func TestClient_SetGetRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ok, err := c.Set(ctx, "greeting", "hello", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := c.Get(ctx, "greeting", new(string))
	require.NoError(t, err)
	assert.True(t, v.IsPresent())
	raw, _ := v.Raw()
	assert.Equal(t, "hello", *raw.(*string))
}

func TestClient_GetAbsent(t *testing.T) {
	c := newTestClient(t)
	v, err := c.Get(context.Background(), "missing", new(string))
	require.NoError(t, err)
	assert.True(t, v.IsAbsent())
}

func TestClient_SetNull(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ok, err := c.Set(ctx, "k", nil, cachekit.NoExpiry)
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := c.Get(ctx, "k", new(string))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestClient_Add(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ok, err := c.Add(ctx, "k", "v1", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Add(ctx, "k", "v2", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _ := c.Get(ctx, "k", new(string))
	raw, _ := v.Raw()
	assert.Equal(t, "v1", *raw.(*string))
}

func TestClient_Replace(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ok, err := c.Replace(ctx, "k", "v", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _ = c.Set(ctx, "k", "v0", cachekit.NoExpiry)
	ok, err = c.Replace(ctx, "k", "v1", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_ReplaceIfEqual(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, _ = c.Set(ctx, "k", "v0", cachekit.NoExpiry)

	ok, err := c.ReplaceIfEqual(ctx, "k", "wrong", "v1", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.ReplaceIfEqual(ctx, "k", "v0", "v1", cachekit.NoExpiry)
	require.NoError(t, err)
	assert.True(t, ok)

	v, _ := c.Get(ctx, "k", new(string))
	raw, _ := v.Raw()
	assert.Equal(t, "v1", *raw.(*string))
}

func TestClient_RemoveIfEqual(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, _ = c.Set(ctx, "k", "v0", cachekit.NoExpiry)

	ok, err := c.RemoveIfEqual(ctx, "k", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.RemoveIfEqual(ctx, "k", "v0")
	require.NoError(t, err)
	assert.True(t, ok)

	v, _ := c.Get(ctx, "k", new(string))
	assert.True(t, v.IsAbsent())
}

func TestClient_RemoveAllScoped(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, _ = c.Set(ctx, "a", "1", cachekit.NoExpiry)
	_, _ = c.Set(ctx, "b", "2", cachekit.NoExpiry)

	n, err := c.RemoveAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, _ := c.Get(ctx, "a", new(string))
	assert.True(t, v.IsAbsent())
}

func TestClient_RemoveByPrefix(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, _ = c.Set(ctx, "session:1", "x", cachekit.NoExpiry)
	_, _ = c.Set(ctx, "session:2", "x", cachekit.NoExpiry)
	_, _ = c.Set(ctx, "other", "y", cachekit.NoExpiry)

	n, err := c.RemoveByPrefix(ctx, "session:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, _ := c.Get(ctx, "other", new(string))
	assert.True(t, v.IsPresent())
}

func TestClient_Increment(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "counter", 5, cachekit.NoExpiry, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = c.Increment(ctx, "counter", 3, cachekit.NoExpiry, false)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
}

func TestClient_IncrementTypeMismatch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, _ = c.Set(ctx, "k", "not-a-number", cachekit.NoExpiry)
	_, err := c.Increment(ctx, "k", 1, cachekit.NoExpiry, false)
	assert.Error(t, err)
}

func TestClient_SetIfHigherLower(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	diff, err := c.SetIfHigher(ctx, "k", 10, cachekit.NoExpiry)
	require.NoError(t, err)
	assert.Equal(t, int64(10), diff)

	diff, err = c.SetIfHigher(ctx, "k", 5, cachekit.NoExpiry)
	require.NoError(t, err)
	assert.Equal(t, int64(0), diff)

	diff, err = c.SetIfHigher(ctx, "k", 20, cachekit.NoExpiry)
	require.NoError(t, err)
	assert.Equal(t, int64(10), diff)
}

func TestClient_ListAddRemoveGet(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	n, err := c.ListAdd(ctx, "L", []any{"a", "b", "a", nil}, cachekit.NoExpiry)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, ok, err := c.GetList(ctx, "L", 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, items, 2)

	removed, err := c.ListRemove(ctx, "L", []any{"a"}, cachekit.NoExpiry)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	items, ok, err = c.GetList(ctx, "L", 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, items, 1)
}

func TestClient_GetListAbsentAfterFullRemoval(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.ListAdd(ctx, "L", []any{"only"}, cachekit.NoExpiry)
	require.NoError(t, err)

	_, err = c.ListRemove(ctx, "L", []any{"only"}, cachekit.NoExpiry)
	require.NoError(t, err)

	_, ok, err := c.GetList(ctx, "L", 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}
