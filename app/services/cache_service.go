package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheService cache in-process LRU có TTL
type CacheService struct {
	cache  *expirable.LRU[string, models.CityState]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheService tạo mới CacheService
func NewCacheService(size int, ttl time.Duration) *CacheService {
	if size <= 0 {
		size = 10000
	}
	if ttl <= 0 {
		ttl = DefaultCityStateTTL
	}
	return &CacheService{
		cache: expirable.NewLRU[string, models.CityState](size, nil, ttl),
	}
}

// Get lấy kết quả từ cache
func (cs *CacheService) Get(_ context.Context, zip string) (*models.CityState, bool, error) {
	if v, ok := cs.cache.Get(zip); ok {
		cs.hits.Add(1)
		return &v, true, nil
	}
	cs.misses.Add(1)
	return nil, false, nil
}

// Set lưu kết quả vào cache
func (cs *CacheService) Set(_ context.Context, zip string, result *models.CityState) error {
	if result == nil {
		return nil
	}
	cs.cache.Add(zip, *result)
	return nil
}

// Clear xóa toàn bộ cache
func (cs *CacheService) Clear(context.Context) error {
	cs.cache.Purge()
	return nil
}

// Size số item còn hạn
func (cs *CacheService) Size() int {
	return cs.cache.Len()
}

// GetStats lấy thống kê cache
func (cs *CacheService) GetStats(context.Context) (*CacheStats, error) {
	hits, misses := cs.hits.Load(), cs.misses.Load()
	return &CacheStats{
		Backend:    "lru",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(cs.cache.Len()),
	}, nil
}

// Close không cần thiết cho in-memory cache
func (cs *CacheService) Close() error {
	return nil
}
