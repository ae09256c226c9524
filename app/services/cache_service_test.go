package services

import (
	"context"
	"testing"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var dcCityState = &models.CityState{ZIPCode: "20500", City: "WASHINGTON", State: "DC"}

func TestCacheService_GetSet(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(2, time.Hour)

	_, found, err := cs.Get(ctx, "20500")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cs.Set(ctx, "20500", dcCityState))
	got, found, err := cs.Get(ctx, "20500")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, *dcCityState, *got)

	stats, err := cs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMiss)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)

	require.NoError(t, cs.Clear(ctx))
	assert.Equal(t, 0, cs.Size())
}

func TestCacheService_EvictsLRU(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(2, time.Hour)

	require.NoError(t, cs.Set(ctx, "1", dcCityState))
	require.NoError(t, cs.Set(ctx, "2", dcCityState))
	require.NoError(t, cs.Set(ctx, "3", dcCityState))

	_, found, _ := cs.Get(ctx, "1")
	assert.False(t, found)
	assert.Equal(t, 2, cs.Size())
}

func TestCacheService_Expires(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(10, 20*time.Millisecond)

	require.NoError(t, cs.Set(ctx, "20500", dcCityState))
	assert.Eventually(t, func() bool {
		_, found, _ := cs.Get(ctx, "20500")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCacheService) {
	t.Helper()
	mr := miniredis.RunT(t)
	rcs, err := NewRedisCacheService("redis://"+mr.Addr(), time.Hour, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rcs.Close() })
	return mr, rcs
}

func TestRedisCacheService(t *testing.T) {
	ctx := context.Background()
	mr, rcs := newTestRedis(t)

	_, found, err := rcs.Get(ctx, "20500")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, rcs.Set(ctx, "20500", dcCityState))
	assert.True(t, mr.Exists("usps_citystate:20500"))
	assert.Equal(t, time.Hour, mr.TTL("usps_citystate:20500"))

	got, found, err := rcs.Get(ctx, "20500")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "WASHINGTON", got.City)

	stats, err := rcs.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalItems)

	require.NoError(t, rcs.Clear(ctx))
	assert.False(t, mr.Exists("usps_citystate:20500"))
	assert.NoError(t, rcs.Ping(ctx))
}

func TestNewRedisCacheService_BadURL(t *testing.T) {
	_, err := NewRedisCacheService("not-a-url", time.Hour, zap.NewNop())
	require.Error(t, err)
}

func TestHybridCacheService_BackfillsLocal(t *testing.T) {
	ctx := context.Background()
	_, rcs := newTestRedis(t)
	local := NewCacheService(10, time.Hour)
	hcs := NewHybridCacheService(local, rcs, zap.NewNop())

	// instance khác đã ghi vào Redis
	require.NoError(t, rcs.Set(ctx, "20500", dcCityState))

	got, found, err := hcs.Get(ctx, "20500")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "DC", got.State)
	assert.Equal(t, 1, local.Size())

	require.NoError(t, hcs.Clear(ctx))
	_, found, _ = hcs.Get(ctx, "20500")
	assert.False(t, found)
}

func TestHybridCacheService_RedisDown(t *testing.T) {
	ctx := context.Background()
	mr, rcs := newTestRedis(t)
	hcs := NewHybridCacheService(NewCacheService(10, time.Hour), rcs, zap.NewNop())
	mr.Close()

	_, found, err := hcs.Get(ctx, "20500")
	assert.NoError(t, err)
	assert.False(t, found)
}
