package parser

import (
	"context"
	"errors"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/normalizer"
	"go.uber.org/zap"
)

// ErrModelDisabled không có model nào được cấu hình
var ErrModelDisabled = errors.New("LLM disabled")

// ModelExtractor năng lực trích xuất trường địa chỉ từ một dòng tự do (OpenAI, libpostal, stub trong test)
type ModelExtractor interface {
	Name() string
	Extract(ctx context.Context, line string) (models.ParsedAddress, error)
}

// AddressExtractor chạy model và rơi về regex ZIP khi model lỗi
type AddressExtractor struct {
	model  ModelExtractor
	logger *zap.Logger
}

// NewAddressExtractor tạo mới AddressExtractor. model = nil nghĩa là chỉ dùng fallback.
func NewAddressExtractor(model ModelExtractor, logger *zap.Logger) *AddressExtractor {
	return &AddressExtractor{
		model:  model,
		logger: logger,
	}
}

// ModelName tên model đang dùng, rỗng nếu tắt
func (ae *AddressExtractor) ModelName() string {
	if ae.model == nil {
		return ""
	}
	return ae.model.Name()
}

// Extract luôn trả về ParsedAddress dùng được.
// error khác nil nghĩa là model thất bại và kết quả đến từ FallbackParse; caller ghi lại thành aiError.
func (ae *AddressExtractor) Extract(ctx context.Context, line string) (models.ParsedAddress, error) {
	if ae.model == nil {
		return FallbackParse(line), ErrModelDisabled
	}

	parsed, err := ae.model.Extract(ctx, line)
	if err != nil {
		ae.logger.Warn("Model parse thất bại, dùng fallback",
			zap.String("stage", models.StageParse),
			zap.String("model", ae.model.Name()),
			zap.Error(err))
		return FallbackParse(line), err
	}

	parsed.Fallback = false
	parsed.ZIPCode = ""
	return parsed, nil
}

// FallbackParse chỉ tìm token ZIP đầu tiên trong dòng
func FallbackParse(line string) models.ParsedAddress {
	return models.ParsedAddress{
		ZIPCode:  normalizer.StripZIP4(normalizer.ExtractZIP(line)),
		Fallback: true,
	}
}
