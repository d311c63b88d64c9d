package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/moodmate-backend/internal/mood"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisTrendCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTrendCache(client, ttl), mr
}

func sampleTrends() *mood.Trends {
	return &mood.Trends{
		ByCategory:       []mood.CategoryTrend{{Category: mood.Happy, Count: 2, AvgIntensity: 6}},
		DailyAverages:    []mood.DailyAverage{{Date: "2026-10-14", AvgIntensity: 6, Count: 2}},
		TopActivities:    []mood.ActivityCount{{Activity: "reading", Count: 2}},
		TotalCount:       2,
		AverageIntensity: 6,
	}
}

func TestRedisTrendCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "moods:trends:k")
	assert.False(t, ok)

	c.Set(ctx, "moods:trends:k", sampleTrends())
	got, ok := c.Get(ctx, "moods:trends:k")
	require.True(t, ok)
	assert.Equal(t, sampleTrends(), got)
}

func TestRedisTrendCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "k", sampleTrends())
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisTrendCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("k", "{not json"))

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRedisTrendCache_UnavailableIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	mr.Close()
	c.Set(ctx, "k", sampleTrends())
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, c.Ping(ctx))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())

	_, err = NewClient("://bad")
	assert.Error(t, err)
}

func TestRedisTrendCache_NonPositiveTTLStoresNothing(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		c, mr := newTestCache(t, ttl)
		ctx := context.Background()

		assert.False(t, c.Enabled())
		c.Set(ctx, "moods:trends:k", sampleTrends())

		assert.False(t, mr.Exists("moods:trends:k"), "ttl %s", ttl)
		_, ok := c.Get(ctx, "moods:trends:k")
		assert.False(t, ok)
	}
}
