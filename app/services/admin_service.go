package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/county"
	"go.uber.org/zap"
)

// ErrCountyStoreDisabled MONGO_URL chưa được cấu hình
var ErrCountyStoreDisabled = errors.New("county store not configured (MONGO_URL)")

// CountyRepository nơi lưu bảng county provider (CountyStore)
type CountyRepository interface {
	Upsert(ctx context.Context, records []models.CountyProviderRecord) (inserted, updated int64, err error)
}

// Pinger dependency có thể kiểm tra kết nối cho /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminService service quản lý admin functions
type AdminService struct {
	resolution *ResolutionService
	cache      ICityStateCache
	tokens     TokenStatusReporter
	counties   *county.Resolver
	source     string
	store      CountyRepository
	pingers    map[string]Pinger
	logger     *zap.Logger
}

// CountyValidation kết quả validate bảng county provider
type CountyValidation struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings"`
	Total    int      `json:"total"`
}

// SeedResult kết quả seed county provider
type SeedResult struct {
	Inserted         int64 `json:"inserted"`
	Updated          int64 `json:"updated"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// TokenStats trạng thái USPS token (không bao giờ chứa token)
type TokenStats struct {
	Cached    bool   `json:"cached"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Fetches   int64  `json:"fetches"`
}

// SystemStats thống kê hệ thống
type SystemStats struct {
	Uptime        string                 `json:"uptime"`
	Pipeline      ResolutionStats        `json:"pipeline"`
	CityState     *CacheStats            `json:"city_state_cache,omitempty"`
	Token         TokenStats             `json:"token"`
	CountySource  string                 `json:"county_source"`
	CountyTotal   int                    `json:"county_total"`
	MemoryUsage   map[string]interface{} `json:"memory_usage"`
	NumGoroutines int                    `json:"num_goroutines"`
}

// AdminDeps dependency của AdminService, store/cache/pingers có thể nil
type AdminDeps struct {
	Resolution   *ResolutionService
	Cache        ICityStateCache
	Tokens       TokenStatusReporter
	Counties     *county.Resolver
	CountySource string
	Store        CountyRepository
	Pingers      map[string]Pinger
}

// NewAdminService tạo mới AdminService
func NewAdminService(deps AdminDeps, logger *zap.Logger) *AdminService {
	return &AdminService{
		resolution: deps.Resolution,
		cache:      deps.Cache,
		tokens:     deps.Tokens,
		counties:   deps.Counties,
		source:     deps.CountySource,
		store:      deps.Store,
		pingers:    deps.Pingers,
		logger:     logger,
	}
}

// ValidateCountyProviders validate bảng county provider
func (as *AdminService) ValidateCountyProviders(records []models.CountyProviderRecord) *CountyValidation {
	if len(records) == 0 {
		return &CountyValidation{Passed: false, Warnings: []string{"Không có dữ liệu để validate"}}
	}

	warnings := county.Validate(records)
	if warnings == nil {
		warnings = []string{}
	}
	return &CountyValidation{
		Passed:   len(warnings) == 0,
		Warnings: warnings,
		Total:    len(records),
	}
}

// SeedCountyProviders validate rồi upsert vào MongoDB. Resolver đang chạy không đổi cho tới khi restart.
func (as *AdminService) SeedCountyProviders(ctx context.Context, records []models.CountyProviderRecord) (*SeedResult, error) {
	startTime := time.Now()

	validation := as.ValidateCountyProviders(records)
	if !validation.Passed {
		return nil, fmt.Errorf("dữ liệu không hợp lệ: %v", validation.Warnings)
	}
	if as.store == nil {
		return nil, ErrCountyStoreDisabled
	}

	inserted, updated, err := as.store.Upsert(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("lỗi seed county providers: %w", err)
	}

	processingTime := time.Since(startTime)
	as.logger.Info("County provider seed completed",
		zap.Int("providers", len(records)),
		zap.Int64("inserted", inserted),
		zap.Int64("updated", updated),
		zap.Duration("processing_time", processingTime))

	return &SeedResult{
		Inserted:         inserted,
		Updated:          updated,
		ProcessingTimeMs: processingTime.Milliseconds(),
	}, nil
}

// ListCounties bảng provider đang nạp trong resolver
func (as *AdminService) ListCounties() (string, []models.CountyProviderRecord) {
	if as.counties == nil {
		return as.source, nil
	}
	return as.source, as.counties.Records()
}

// InvalidateCityStateCache xóa cache city-state
func (as *AdminService) InvalidateCityStateCache(ctx context.Context) error {
	if as.cache == nil {
		return nil
	}
	if err := as.cache.Clear(ctx); err != nil {
		return fmt.Errorf("lỗi clear city-state cache: %w", err)
	}
	as.logger.Info("Đã clear city-state cache")
	return nil
}

// GetSystemStats lấy thống kê hệ thống
func (as *AdminService) GetSystemStats(ctx context.Context) *SystemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		CountySource: as.source,
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
		NumGoroutines: runtime.NumGoroutine(),
	}

	if as.resolution != nil {
		stats.Pipeline = as.resolution.GetStats()
		stats.Uptime = time.Since(as.resolution.GetStartTime()).Round(time.Second).String()
	}
	if as.counties != nil {
		stats.CountyTotal = as.counties.Len()
	}
	if as.cache != nil {
		if cs, err := as.cache.GetStats(ctx); err == nil {
			stats.CityState = cs
		} else {
			as.logger.Warn("Không lấy được cache stats", zap.Error(err))
		}
	}
	if as.tokens != nil {
		cached, expiresAt := as.tokens.Status()
		stats.Token = TokenStats{Cached: cached, Fetches: as.tokens.Fetches()}
		if !expiresAt.IsZero() {
			stats.Token.ExpiresAt = expiresAt.UTC().Format(time.RFC3339)
		}
	}
	return stats
}

// Ready ping các dependency tuỳ chọn, trả về trạng thái từng cái
func (as *AdminService) Ready(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string, len(as.pingers))
	ok := true
	for name, p := range as.pingers {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			ok = false
			continue
		}
		checks[name] = "ok"
	}
	return checks, ok
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
