package hybrid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	busmem "infracore/bus/memory"
	"infracore/cachekit"
	cachemem "infracore/cachekit/memory"
)

func newPair(t *testing.T) (*Hybrid, *Hybrid, *busmem.Bus) {
	t.Helper()
	b := busmem.New()
	t.Cleanup(func() { _ = b.Close(context.Background()) })

	remote := cachemem.New()
	t.Cleanup(func() { _ = remote.Close(context.Background()) })

	a, err := New(cachemem.New(), remote, b, WithOriginID("client-a"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	bb, err := New(cachemem.New(), remote, b, WithOriginID("client-b"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bb.Close(context.Background()) })

	return a, bb, b
}

func TestHybrid_SetThenGetIsLocalHit(t *testing.T) {
	a, _, _ := newPair(t)
	ctx := context.Background()

	_, err := a.Set(ctx, "x", "v1", cachekit.NoExpiry)
	require.NoError(t, err)

	v, err := a.Get(ctx, "x", "")
	require.NoError(t, err)
	raw, ok := v.Raw()
	assert.True(t, ok)
	assert.Equal(t, "v1", raw)
	assert.Equal(t, int64(1), a.Stats().LocalHits)
}

func TestHybrid_RemoteMissReturnsAbsent(t *testing.T) {
	a, _, _ := newPair(t)
	v, err := a.Get(context.Background(), "missing", "")
	require.NoError(t, err)
	assert.True(t, v.IsAbsent())
}

func TestHybrid_PeerInvalidatesOnWrite(t *testing.T) {
	a, b, _ := newPair(t)
	ctx := context.Background()

	// B populates its local tier by reading through to remote.
	_, err := a.Set(ctx, "x", "v1", cachekit.NoExpiry)
	require.NoError(t, err)
	v, err := b.Get(ctx, "x", "")
	require.NoError(t, err)
	raw, _ := v.Raw()
	assert.Equal(t, "v1", raw)

	// A overwrites; B's local copy must be dropped via the invalidation bus.
	_, err = a.Set(ctx, "x", "v2", cachekit.NoExpiry)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return b.Stats().InvalidateCacheCalls == 1
	}, time.Second, 5*time.Millisecond)

	v, err = b.Get(ctx, "x", "")
	require.NoError(t, err)
	raw, _ = v.Raw()
	assert.Equal(t, "v2", raw)
}

func TestHybrid_OwnWriteNeverSelfInvalidatesViaMessage(t *testing.T) {
	a, _, _ := newPair(t)
	ctx := context.Background()

	_, err := a.Set(ctx, "x", "v1", cachekit.NoExpiry)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), a.Stats().InvalidateCacheCalls)
}

func TestHybrid_AddIsRemoteOnly(t *testing.T) {
	a, b, _ := newPair(t)
	ctx := context.Background()

	ok, err := a.Add(ctx, "lock:1", "holder", cachekit.TTL(time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	// Add is excluded from invalidation fanout; b's local tier is untouched,
	// but a fresh read still reaches the shared remote.
	ok, err = b.Add(ctx, "lock:1", "other", cachekit.TTL(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}
