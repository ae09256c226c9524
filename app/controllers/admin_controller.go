package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/app/requests"
	"github.com/address-verifier/app/responses"
	"github.com/address-verifier/app/services"
	"github.com/address-verifier/internal/county"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// SeedCounties validate rồi upsert bảng county provider vào MongoDB.
// Body rỗng thì dùng bảng nhúng, ?dry_run=true chỉ validate.
func (ac *AdminController) SeedCounties(c *gin.Context) {
	var req requests.SeedCountiesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	records := req.Providers
	if len(records) == 0 {
		embedded, err := county.LoadEmbedded()
		if err != nil {
			ac.logger.Error("Không đọc được bảng county nhúng", zap.Error(err))
			c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
				Error:   "EMBEDDED_TABLE_ERROR",
				Message: err.Error(),
			})
			return
		}
		records = embedded
	}

	// Kiểm tra dry run
	dryRun := c.Query("dry_run") == "true"

	validation := ac.adminService.ValidateCountyProviders(records)
	if !validation.Passed {
		c.JSON(http.StatusBadRequest, responses.SeedCountiesResponse{
			ValidationPassed: false,
			Warnings:         validation.Warnings,
			DryRun:           dryRun,
			Message:          "Dữ liệu county provider không hợp lệ",
		})
		return
	}

	if dryRun {
		c.JSON(http.StatusOK, responses.SeedCountiesResponse{
			ValidationPassed: true,
			DryRun:           true,
			Message:          fmt.Sprintf("Dry run: %d providers hợp lệ", validation.Total),
		})
		return
	}

	result, err := ac.adminService.SeedCountyProviders(c.Request.Context(), records)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrCountyStoreDisabled) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, responses.ErrorResponse{
			Error:   "SEED_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SeedCountiesResponse{
		ValidationPassed: true,
		Inserted:         result.Inserted,
		Updated:          result.Updated,
		Message:          fmt.Sprintf("Seed hoàn tất trong %dms, áp dụng sau khi restart", result.ProcessingTimeMs),
	})
}

// ListCounties danh sách county provider đang nạp
func (ac *AdminController) ListCounties(c *gin.Context) {
	source, records := ac.adminService.ListCounties()
	if records == nil {
		records = []models.CountyProviderRecord{}
	}
	c.JSON(http.StatusOK, responses.CountyListResponse{
		Source:    source,
		Total:     len(records),
		Providers: records,
	})
}

// InvalidateCache xóa cache city-state
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	if err := ac.adminService.InvalidateCityStateCache(c.Request.Context()); err != nil {
		ac.logger.Error("Không clear được cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CACHE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "City-state cache invalidated",
		"timestamp": time.Now().Unix(),
	})
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.adminService.GetSystemStats(c.Request.Context()))
}

// Ready ping các dependency tuỳ chọn (Redis, MongoDB)
func (ac *AdminController) Ready(c *gin.Context) {
	checks, ok := ac.adminService.Ready(c.Request.Context())

	status, code := "ready", http.StatusOK
	if !ok {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, responses.HealthResponse{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	})
}
