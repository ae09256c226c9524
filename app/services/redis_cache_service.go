package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisCityStatePrefix = "usps_citystate:"

// RedisCacheService cache city-state dùng chung giữa các instance qua Redis
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCacheService tạo mới Redis cache service
func NewRedisCacheService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultCityStateTTL
	}
	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: redisCityStatePrefix,
		ttl:    ttl,
	}, nil
}

// Get lấy city/state từ cache
func (rcs *RedisCacheService) Get(ctx context.Context, zip string) (*models.CityState, bool, error) {
	cacheKey := rcs.prefix + zip

	val, err := rcs.client.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		rcs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rcs.logger.Error("Lỗi get từ Redis", zap.Error(err), zap.String("key", cacheKey))
		return nil, false, err
	}

	var result models.CityState
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		rcs.logger.Error("Lỗi unmarshal cache data", zap.Error(err))
		return nil, false, err
	}

	rcs.hits.Add(1)
	rcs.logger.Debug("Redis cache hit", zap.String("zip", zip))
	return &result, true, nil
}

// Set lưu city/state vào cache
func (rcs *RedisCacheService) Set(ctx context.Context, zip string, result *models.CityState) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("lỗi marshal cache data: %w", err)
	}

	if err := rcs.client.Set(ctx, rcs.prefix+zip, data, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("Lỗi set vào Redis", zap.Error(err), zap.String("zip", zip))
		return err
	}
	return nil
}

// Clear xóa toàn bộ key của cache này
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	keys, err := rcs.keys(ctx)
	if err != nil {
		return fmt.Errorf("lỗi lấy danh sách keys: %w", err)
	}

	if len(keys) > 0 {
		if err := rcs.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("lỗi xóa keys: %w", err)
		}
	}

	rcs.logger.Info("Đã clear Redis cache", zap.Int("keys_deleted", len(keys)))
	return nil
}

// GetStats lấy thống kê cache
func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := rcs.hits.Load(), rcs.misses.Load()

	totalItems := int64(0)
	if keys, err := rcs.keys(ctx); err == nil {
		totalItems = int64(len(keys))
	} else {
		rcs.logger.Warn("Không thể đếm Redis keys", zap.Error(err))
	}

	return &CacheStats{
		Backend:    "redis",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: totalItems,
	}, nil
}

// Ping kiểm tra kết nối (dùng cho /ready)
func (rcs *RedisCacheService) Ping(ctx context.Context) error {
	return rcs.client.Ping(ctx).Err()
}

// Close đóng kết nối Redis
func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}

// keys dùng SCAN thay vì KEYS để không chặn Redis
func (rcs *RedisCacheService) keys(ctx context.Context) ([]string, error) {
	var out []string
	iter := rcs.client.Scan(ctx, 0, rcs.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	return out, iter.Err()
}
