package services

import (
	"context"
	"time"

	"github.com/address-verifier/app/models"
)

// DefaultCityStateTTL TTL mặc định cho kết quả city-state theo ZIP
const DefaultCityStateTTL = 24 * time.Hour

// CacheStats thống kê cache
type CacheStats struct {
	Backend    string  `json:"backend"`
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICityStateCache cache tra cứu ZIP -> city/state. Chỉ lưu lookup thành công.
type ICityStateCache interface {
	// Get lấy city/state theo ZIP
	Get(ctx context.Context, zip string) (*models.CityState, bool, error)

	// Set lưu kết quả tra cứu thành công
	Set(ctx context.Context, zip string, cs *models.CityState) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
