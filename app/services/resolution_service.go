package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/parser"
	"github.com/address-verifier/internal/usps"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency số dòng xử lý song song tối đa trong một batch
const DefaultBatchConcurrency = 4

// ResolutionService pipeline chuẩn hoá địa chỉ qua USPS cho từng dòng
type ResolutionService struct {
	tokens    TokenProvider
	extractor *parser.AddressExtractor
	enrich    *EnrichmentStep
	postal    PostalClient
	logger    *zap.Logger
	startTime time.Time

	batchConcurrency int

	processed      atomic.Int64
	fallbacks      atomic.Int64
	parseFailures  atomic.Int64
	standardizeErr atomic.Int64
}

// ResolutionStats bộ đếm của pipeline
type ResolutionStats struct {
	LinesProcessed        int64 `json:"lines_processed"`
	ModelFallbacks        int64 `json:"model_fallbacks"`
	ParseFailures         int64 `json:"parse_failures"`
	StandardizationErrors int64 `json:"standardization_errors"`
	BatchConcurrency      int   `json:"batch_concurrency"`
	UptimeSeconds         int64 `json:"uptime_seconds"`
}

// NewResolutionService tạo mới ResolutionService
func NewResolutionService(tokens TokenProvider, extractor *parser.AddressExtractor, enrich *EnrichmentStep, postal PostalClient, batchConcurrency int, logger *zap.Logger) *ResolutionService {
	if batchConcurrency <= 0 {
		batchConcurrency = DefaultBatchConcurrency
	}
	return &ResolutionService{
		tokens:           tokens,
		extractor:        extractor,
		enrich:           enrich,
		postal:           postal,
		logger:           logger,
		startTime:        time.Now(),
		batchConcurrency: batchConcurrency,
	}
}

// StandardizeLine chạy pipeline cho một dòng:
// token -> model/fallback -> query -> enrich -> kiểm tra street -> standardize.
// Lỗi trả về là ErrAddressLineRequired, *usps.AuthError hoặc *ParseError;
// lỗi standardize nằm trong result.StandardizationError.
func (rs *ResolutionService) StandardizeLine(ctx context.Context, line string) (*models.ResolutionResult, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrAddressLineRequired
	}
	rs.processed.Add(1)

	bearer, err := rs.tokens.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := rs.extractor.Extract(ctx, line)
	aiError := ""
	if err != nil {
		aiError = err.Error()
		rs.fallbacks.Add(1)
	}

	query := parser.BuildQuery(parsed, line)
	query = rs.enrich.Enrich(ctx, query, bearer)

	if query.StreetAddress == "" {
		rs.parseFailures.Add(1)
		rs.logger.Info("Không suy ra được street address",
			zap.String("stage", models.StageParse),
			zap.Bool("fallback", parsed.Fallback))
		return nil, &ParseError{AIError: aiError, Parsed: parsed.Display(), Query: query}
	}

	result := &models.ResolutionResult{
		Input:   models.LineInput{AddressLine: line},
		Parsed:  parsed.Display(),
		Query:   query,
		AIError: aiError,
	}
	result.StandardizedAddress, result.StandardizationError = rs.standardize(ctx, query, bearer)

	rs.logger.Debug("Đã xử lý dòng địa chỉ",
		zap.Bool("fallback", parsed.Fallback),
		zap.Bool("standardized", result.StandardizationError == nil))
	return result, nil
}

// Retry nhận các trường đã nhập tay, bỏ qua model và QueryBuilder.
// Lỗi trả về là ErrStreetAddressRequired hoặc *usps.AuthError.
func (rs *ResolutionService) Retry(ctx context.Context, q models.NormalizedQuery) (*models.RetryResult, error) {
	q = parser.QueryFromFields(q.StreetAddress, q.City, q.State, q.ZIPCode)
	if q.StreetAddress == "" {
		return nil, ErrStreetAddressRequired
	}

	bearer, err := rs.tokens.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	q = rs.enrich.Enrich(ctx, q, bearer)

	result := &models.RetryResult{Query: q}
	result.StandardizedAddress, result.StandardizationError = rs.standardize(ctx, q, bearer)
	return result, nil
}

// standardize gọi USPS /address, lỗi chuyển thành StageError
func (rs *ResolutionService) standardize(ctx context.Context, q models.NormalizedQuery, bearer string) (json.RawMessage, *models.StageError) {
	body, err := rs.postal.Standardize(ctx, q, bearer)
	if err == nil {
		return body, nil
	}

	rs.standardizeErr.Add(1)
	var stdErr *usps.StandardizationError
	if errors.As(err, &stdErr) {
		return nil, stdErr.StageError()
	}
	return nil, &models.StageError{Stage: models.StageAddress}
}

// GetStats lấy thống kê pipeline
func (rs *ResolutionService) GetStats() ResolutionStats {
	return ResolutionStats{
		LinesProcessed:        rs.processed.Load(),
		ModelFallbacks:        rs.fallbacks.Load(),
		ParseFailures:         rs.parseFailures.Load(),
		StandardizationErrors: rs.standardizeErr.Load(),
		BatchConcurrency:      rs.batchConcurrency,
		UptimeSeconds:         int64(time.Since(rs.startTime).Seconds()),
	}
}

// GetStartTime thời điểm khởi động service
func (rs *ResolutionService) GetStartTime() time.Time {
	return rs.startTime
}

// forEachLine chạy fn song song có giới hạn, kết quả giữ đúng thứ tự input
func forEachLine[T any](ctx context.Context, lines []string, limit int, fn func(ctx context.Context, line string) T) []T {
	results := make([]T, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, line := range lines {
		g.Go(func() error {
			results[i] = fn(gctx, line)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
