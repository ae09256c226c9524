package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/county"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCountyRepo struct {
	got []models.CountyProviderRecord
	err error
}

func (f *fakeCountyRepo) Upsert(_ context.Context, records []models.CountyProviderRecord) (int64, int64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.got = records
	return int64(len(records)), 0, nil
}

type fakeTokenStatus struct{}

func (fakeTokenStatus) Status() (bool, time.Time) { return true, time.Unix(1700000000, 0) }
func (fakeTokenStatus) Fetches() int64            { return 2 }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func embeddedRecords(t *testing.T) []models.CountyProviderRecord {
	t.Helper()
	records, err := county.LoadEmbedded()
	require.NoError(t, err)
	return records
}

func TestAdminService_SeedCountyProviders(t *testing.T) {
	repo := &fakeCountyRepo{}
	as := NewAdminService(AdminDeps{Store: repo}, zap.NewNop())

	records := embeddedRecords(t)
	res, err := as.SeedCountyProviders(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, int64(len(records)), res.Inserted)
	assert.Len(t, repo.got, len(records))
}

func TestAdminService_SeedRejectsInvalid(t *testing.T) {
	repo := &fakeCountyRepo{}
	as := NewAdminService(AdminDeps{Store: repo}, zap.NewNop())

	_, err := as.SeedCountyProviders(context.Background(), []models.CountyProviderRecord{{Key: "x"}})
	require.Error(t, err)
	assert.Nil(t, repo.got)
}

func TestAdminService_SeedWithoutStore(t *testing.T) {
	as := NewAdminService(AdminDeps{}, zap.NewNop())

	_, err := as.SeedCountyProviders(context.Background(), embeddedRecords(t))
	require.ErrorIs(t, err, ErrCountyStoreDisabled)
}

func TestAdminService_SeedStoreError(t *testing.T) {
	as := NewAdminService(AdminDeps{Store: &fakeCountyRepo{err: errors.New("write conflict")}}, zap.NewNop())

	_, err := as.SeedCountyProviders(context.Background(), embeddedRecords(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write conflict")
}

func TestAdminService_ValidateEmpty(t *testing.T) {
	v := NewAdminService(AdminDeps{}, zap.NewNop()).ValidateCountyProviders(nil)
	assert.False(t, v.Passed)
	assert.NotEmpty(t, v.Warnings)
}

func TestAdminService_Stats(t *testing.T) {
	records := embeddedRecords(t)
	cache := NewCacheService(10, time.Hour)
	as := NewAdminService(AdminDeps{
		Cache:        cache,
		Tokens:       fakeTokenStatus{},
		Counties:     county.NewResolver(records),
		CountySource: "embedded",
	}, zap.NewNop())

	stats := as.GetSystemStats(context.Background())
	assert.Equal(t, len(records), stats.CountyTotal)
	assert.Equal(t, "embedded", stats.CountySource)
	assert.True(t, stats.Token.Cached)
	assert.Equal(t, int64(2), stats.Token.Fetches)
	assert.Equal(t, "2023-11-14T22:13:20Z", stats.Token.ExpiresAt)
	require.NotNil(t, stats.CityState)
	assert.Equal(t, "lru", stats.CityState.Backend)

	source, list := as.ListCounties()
	assert.Equal(t, "embedded", source)
	assert.Len(t, list, len(records))
}

func TestAdminService_InvalidateCache(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheService(10, time.Hour)
	require.NoError(t, cache.Set(ctx, "20500", dcCityState))

	as := NewAdminService(AdminDeps{Cache: cache}, zap.NewNop())
	require.NoError(t, as.InvalidateCityStateCache(ctx))
	assert.Equal(t, 0, cache.Size())

	assert.NoError(t, NewAdminService(AdminDeps{}, zap.NewNop()).InvalidateCityStateCache(ctx))
}

func TestAdminService_Ready(t *testing.T) {
	as := NewAdminService(AdminDeps{Pingers: map[string]Pinger{
		"redis":   fakePinger{},
		"mongodb": fakePinger{err: errors.New("timeout")},
	}}, zap.NewNop())

	checks, ok := as.Ready(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "ok", checks["redis"])
	assert.Equal(t, "error: timeout", checks["mongodb"])
}
