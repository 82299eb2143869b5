package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedProviderServesFromCache(t *testing.T) {
	fake := newFakeProvider()
	cached := NewCachedProvider(fake, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cached.CPU(ctx, time.Second)
		require.NoError(t, err)
		_, err = cached.Memory(ctx)
		require.NoError(t, err)
		_, err = cached.Disk(ctx)
		require.NoError(t, err)
		_, err = cached.Processes(ctx)
		require.NoError(t, err)
		_, err = cached.SystemInfo(ctx)
		require.NoError(t, err)
	}

	for _, name := range []string{"cpu", "memory", "disk", "processes", "system-info"} {
		assert.Equal(t, 1, fake.Calls(name), name)
	}

	// a different sampling interval or path is a different reading
	_, err := cached.CPU(ctx, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls("cpu"))

	d, err := cached.DiskUsage(ctx, "/home")
	require.NoError(t, err)
	assert.Equal(t, "/home", d.Path)
	_, err = cached.DiskUsage(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls("disk-usage"))

	cached.Flush()
	_, err = cached.Memory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls("memory"))
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	fake := newFakeProvider()
	fake.err = ErrProviderUnavailable
	cached := NewCachedProvider(fake, time.Minute)

	_, err := cached.Memory(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	fake.err = nil
	m, err := cached.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 61.25, m.Virtual.Percent)
	assert.Equal(t, 2, fake.Calls("memory"))
}

func TestCachedProviderNetworkRates(t *testing.T) {
	fake := newFakeProvider()
	cached := NewCachedProvider(fake, time.Minute)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	fake.setNetwork(1000, 5000)
	first, err := cached.Network(context.Background())
	require.NoError(t, err)
	assert.Zero(t, first.BytesSentRate)
	assert.Zero(t, first.BytesRecvRate)

	cached.Flush()
	now = now.Add(2 * time.Second)
	fake.setNetwork(3000, 9000)
	second, err := cached.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, second.BytesSentRate)
	assert.Equal(t, 2000.0, second.BytesRecvRate)

	// counter reset reports zero rather than a huge rate
	cached.Flush()
	now = now.Add(time.Second)
	fake.setNetwork(10, 9500)
	third, err := cached.Network(context.Background())
	require.NoError(t, err)
	assert.Zero(t, third.BytesSentRate)
	assert.Equal(t, 500.0, third.BytesRecvRate)
}

func TestNewCachedProviderDefaultTTL(t *testing.T) {
	fake := newFakeProvider()
	cached := NewCachedProvider(fake, 0)

	_, err := cached.SystemInfo(context.Background())
	require.NoError(t, err)
	_, err = cached.SystemInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("system-info"))
}
