package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("not-a-url", "development", zap.NewNop())
	assert.Error(t, err)
}

func TestNewClientUnreachable(t *testing.T) {
	_, err := NewClient("redis://127.0.0.1:1", "development", zap.NewNop())
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	client, _ := testClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestSetAppliesTTL(t *testing.T) {
	client, mr := testClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := client.Get(ctx, "k")
	assert.Error(t, err)
}

func TestExistsAndDelete(t *testing.T) {
	client, _ := testClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	n, err := client.Exists(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, client.Delete(ctx, "k"))

	n, err = client.Exists(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHealth(t *testing.T) {
	client, mr := testClient(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
