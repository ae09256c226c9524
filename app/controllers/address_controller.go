package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/address-verifier/app/requests"
	"github.com/address-verifier/app/responses"
	"github.com/address-verifier/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddressController controller xử lý các request chuẩn hoá địa chỉ USPS
type AddressController struct {
	resolution *services.ResolutionService
	verify     *services.VerifyService
	logger     *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(resolution *services.ResolutionService, verify *services.VerifyService, logger *zap.Logger) *AddressController {
	return &AddressController{
		resolution: resolution,
		verify:     verify,
		logger:     logger,
	}
}

// StandardizeLine chuẩn hoá một dòng địa chỉ tự do
func (ac *AddressController) StandardizeLine(c *gin.Context) {
	var req requests.StandardizeLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: services.ErrAddressLineRequired.Error()})
		return
	}

	out := ac.resolution.StandardizeLineOutcome(c.Request.Context(), req.AddressLine)
	c.JSON(out.Status, out.Body)
}

// Retry chuẩn hoá lại từ các trường người dùng sửa tay
func (ac *AddressController) Retry(c *gin.Context) {
	var req requests.RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: services.ErrStreetAddressRequired.Error()})
		return
	}

	out := ac.resolution.RetryOutcome(c.Request.Context(), req.Query())
	c.JSON(out.Status, out.Body)
}

// StandardizeLines chuẩn hoá nhiều dòng, kết quả theo đúng thứ tự input
func (ac *AddressController) StandardizeLines(c *gin.Context) {
	var req requests.StandardizeLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error: fmt.Sprintf("addressLines must contain 1..%d lines", requests.MaxBatchLines),
		})
		return
	}

	startTime := time.Now()
	results := ac.resolution.StandardizeLines(c.Request.Context(), req.AddressLines)

	failed := 0
	for _, r := range results {
		if r.Status != http.StatusOK {
			failed++
		}
	}

	ac.logger.Info("Batch standardize completed",
		zap.Int("lines", len(results)),
		zap.Int("failed", failed),
		zap.Duration("processing_time", time.Since(startTime)))

	c.JSON(http.StatusOK, responses.BatchResponse{
		Results: results,
		Total:   len(results),
		Failed:  failed,
	})
}

// VerifyLine chạy USPS và HERE song song cho cùng một dòng
func (ac *AddressController) VerifyLine(c *gin.Context) {
	var req requests.StandardizeLineRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AddressLine) == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: services.ErrAddressLineRequired.Error()})
		return
	}

	c.JSON(http.StatusOK, ac.verify.VerifyLine(c.Request.Context(), req.AddressLine))
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	uptime := time.Since(ac.resolution.GetStartTime())

	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Uptime:    uptime.Round(time.Second).String(),
	})
}
