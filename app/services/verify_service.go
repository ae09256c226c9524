package services

import (
	"context"

	"github.com/address-verifier/app/responses"
	"golang.org/x/sync/errgroup"
)

// VerifyService chạy luồng USPS và luồng geocode song song cho cùng một dòng
type VerifyService struct {
	resolution *ResolutionService
	geocode    *GeocodeService
}

// NewVerifyService tạo mới VerifyService
func NewVerifyService(resolution *ResolutionService, geocode *GeocodeService) *VerifyService {
	return &VerifyService{
		resolution: resolution,
		geocode:    geocode,
	}
}

// VerifyLine hai luồng không phụ thuộc nhau, lỗi bên này không ảnh hưởng bên kia
func (vs *VerifyService) VerifyLine(ctx context.Context, line string) responses.VerifyResponse {
	var postal, geo responses.LineResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		postal = vs.resolution.StandardizeLineOutcome(gctx, line)
		return nil
	})
	g.Go(func() error {
		geo = vs.geocode.GeocodeLineOutcome(gctx, line)
		return nil
	})
	_ = g.Wait()

	return responses.VerifyResponse{
		USPS:       postal.Body,
		USPSStatus: postal.Status,
		Here:       geo.Body,
		HereStatus: geo.Status,
	}
}
