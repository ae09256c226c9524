package services

import (
	"context"
	"strings"

	"github.com/address-verifier/app/models"
	"go.uber.org/zap"
)

// EnrichmentStep điền city/state còn trống bằng tra cứu theo ZIP. Không bao giờ làm hỏng pipeline.
type EnrichmentStep struct {
	postal PostalClient
	cache  ICityStateCache // nil = không cache
	logger *zap.Logger
}

// NewEnrichmentStep tạo mới EnrichmentStep
func NewEnrichmentStep(postal PostalClient, cache ICityStateCache, logger *zap.Logger) *EnrichmentStep {
	return &EnrichmentStep{
		postal: postal,
		cache:  cache,
		logger: logger,
	}
}

// Enrich trả về query đã điền city/state; mọi lỗi đều bị nuốt và query giữ nguyên
func (es *EnrichmentStep) Enrich(ctx context.Context, q models.NormalizedQuery, bearer string) models.NormalizedQuery {
	if !q.NeedsCityState() {
		return q
	}

	cs, ok := es.lookup(ctx, q.ZIPCode, bearer)
	if !ok {
		return q
	}

	if q.City == "" {
		q.City = strings.ToUpper(strings.TrimSpace(cs.City))
	}
	if q.State == "" {
		q.State = strings.ToUpper(strings.TrimSpace(cs.State))
	}
	return q
}

func (es *EnrichmentStep) lookup(ctx context.Context, zip, bearer string) (*models.CityState, bool) {
	if es.cache != nil {
		if cs, found, err := es.cache.Get(ctx, zip); err == nil && found {
			return cs, true
		}
	}

	cs, err := es.postal.CityState(ctx, zip, bearer)
	if err != nil {
		es.logger.Debug("Bỏ qua lỗi city-state", zap.String("stage", models.StageCityState), zap.String("zip", zip), zap.Error(err))
		return nil, false
	}

	if es.cache != nil && (cs.City != "" || cs.State != "") {
		if err := es.cache.Set(ctx, zip, cs); err != nil {
			es.logger.Warn("Lỗi lưu city-state cache", zap.Error(err))
		}
	}
	return cs, true
}
