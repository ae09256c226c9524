package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/address-verifier/app/models"
	"go.uber.org/zap"
)

// HybridCacheService cache kết hợp LRU (L1) + Redis (L2)
type HybridCacheService struct {
	local  *CacheService
	redis  *RedisCacheService
	logger *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(local *CacheService, redis *RedisCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		local:  local,
		redis:  redis,
		logger: logger,
	}
}

// Get lấy từ LRU trước, sau đó Redis; hit ở Redis được nạp lại vào LRU
func (hcs *HybridCacheService) Get(ctx context.Context, zip string) (*models.CityState, bool, error) {
	if result, found, _ := hcs.local.Get(ctx, zip); found {
		hcs.logger.Debug("L1 cache hit (LRU)", zap.String("zip", zip))
		return result, true, nil
	}

	result, found, err := hcs.redis.Get(ctx, zip)
	if err != nil {
		hcs.logger.Warn("Lỗi Redis cache, bỏ qua", zap.Error(err))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	_ = hcs.local.Set(ctx, zip, result)
	hcs.logger.Debug("L2 cache hit (Redis)", zap.String("zip", zip))
	return result, true, nil
}

// Set lưu vào cả 2 tầng
func (hcs *HybridCacheService) Set(ctx context.Context, zip string, result *models.CityState) error {
	_ = hcs.local.Set(ctx, zip, result)
	if err := hcs.redis.Set(ctx, zip, result); err != nil {
		hcs.logger.Warn("Lỗi lưu vào Redis", zap.Error(err))
		return fmt.Errorf("lỗi lưu Redis cache: %w", err)
	}
	return nil
}

// Clear xóa cả 2 tầng
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	return errors.Join(hcs.local.Clear(ctx), hcs.redis.Clear(ctx))
}

// GetStats gộp thống kê 2 tầng, hit tính ở tầng nào cũng được
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	l1, _ := hcs.local.GetStats(ctx)
	l2, err := hcs.redis.GetStats(ctx)
	if err != nil {
		return l1, nil
	}

	hits := l1.TotalHits + l2.TotalHits
	return &CacheStats{
		Backend:    "lru+redis",
		HitRate:    hitRate(hits, l2.TotalMiss),
		TotalHits:  hits,
		TotalMiss:  l2.TotalMiss,
		TotalItems: l2.TotalItems,
	}, nil
}

// Close đóng Redis
func (hcs *HybridCacheService) Close() error {
	return hcs.redis.Close()
}
