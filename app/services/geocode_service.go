package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/app/responses"
	"github.com/address-verifier/internal/county"
	"github.com/address-verifier/internal/here"
	"github.com/address-verifier/internal/parser"
	"go.uber.org/zap"
)

// GeocodeService luồng geocode độc lập: HERE -> MatchClassifier -> county link
type GeocodeService struct {
	geocoder   Geocoder
	classifier *parser.MatchClassifier
	counties   *county.Resolver
	logger     *zap.Logger
}

// NewGeocodeService tạo mới GeocodeService
func NewGeocodeService(geocoder Geocoder, classifier *parser.MatchClassifier, counties *county.Resolver, logger *zap.Logger) *GeocodeService {
	return &GeocodeService{
		geocoder:   geocoder,
		classifier: classifier,
		counties:   counties,
		logger:     logger,
	}
}

// GeocodeLine geocode một dòng và phân loại item đầu tiên. Lỗi trả về là ErrAddressLineRequired hoặc *here.GeocodeError.
func (gs *GeocodeService) GeocodeLine(ctx context.Context, line string) (*models.GeocodeResult, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrAddressLineRequired
	}

	resp, raw, err := gs.geocoder.Geocode(ctx, line)
	if err != nil {
		return nil, err
	}

	item := resp.First()
	verdict := gs.classifier.Classify(item)

	result := &models.GeocodeResult{
		Input: models.LineInput{AddressLine: line},
		Here:  verdict,
		Raw:   raw,
	}
	if item != nil && gs.counties != nil {
		rec := gs.counties.Resolve(verdict.Address.County, verdict.Address.StateCode)
		result.County = county.BuildLink(rec, ShortAddress(verdict.Address, line))
	}

	gs.logger.Debug("Đã geocode dòng địa chỉ",
		zap.String("verdict", string(verdict.Verdict)),
		zap.String("reason", verdict.Reason),
		zap.Bool("county_link", result.County != nil))
	return result, nil
}

// GeocodeLineOutcome chuyển kết quả/lỗi geocode thành status + body
func (gs *GeocodeService) GeocodeLineOutcome(ctx context.Context, line string) responses.LineResult {
	result, err := gs.GeocodeLine(ctx, line)
	if err == nil {
		return responses.LineResult{Status: http.StatusOK, Body: result}
	}

	if errors.Is(err, ErrAddressLineRequired) {
		return responses.LineResult{Status: http.StatusBadRequest, Body: responses.ErrorResponse{Error: err.Error()}}
	}

	body := responses.GeocodeErrorResponse{Error: models.StageGeocode}
	var gerr *here.GeocodeError
	if errors.As(err, &gerr) {
		body.Status, body.Body = gerr.Status, gerr.Body
	}
	gs.logger.Warn("Geocode thất bại", zap.String("stage", models.StageGeocode), zap.Int("status", body.Status))
	return responses.LineResult{Status: models.UpstreamStatus(body.Status), Body: body}
}

// ShortAddress số nhà + tên đường; geocoder không trả thì lấy phần đầu dòng gốc
func ShortAddress(addr models.GeocodeAddress, line string) string {
	short := strings.TrimSpace(strings.Join(nonEmpty(addr.HouseNumber, addr.Street), " "))
	if short == "" {
		short = parser.DeriveStreetFromLine(line)
	}
	return short
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
