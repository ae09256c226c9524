package responses

import (
	"github.com/address-verifier/app/models"
)

// ErrorResponse lỗi đơn giản {error}, Message chỉ dùng cho route admin
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// OAuthErrorResponse lỗi lấy token, dòng địa chỉ không xử lý tiếp được
type OAuthErrorResponse struct {
	Stage string `json:"stage"` // Luôn là "oauth"
	Error string `json:"error"` // Body của upstream hoặc "OAuth failed"
}

// ParseErrorResponse không suy ra được street address, trả dữ liệu để nhập tay
type ParseErrorResponse struct {
	Stage   string                 `json:"stage"`
	Error   string                 `json:"error"`
	AIError string                 `json:"aiError"` // Rỗng khi model không lỗi
	Parsed  models.ParsedAddress   `json:"parsed"`
	Query   models.NormalizedQuery `json:"query"`
}

// GeocodeErrorResponse lỗi của luồng geocode
type GeocodeErrorResponse struct {
	Error  string `json:"error"` // Luôn là "here-geocode-failed"
	Status int    `json:"status,omitempty"`
	Body   string `json:"body,omitempty"`
}

// LineResult kết quả của một dòng: status HTTP tương đương và body tương ứng
type LineResult struct {
	Status int `json:"status"`
	Body   any `json:"body"`
}

// BatchResponse kết quả batch theo đúng thứ tự input
type BatchResponse struct {
	Results []LineResult `json:"results"`
	Total   int          `json:"total"`
	Failed  int          `json:"failed"` // Số dòng có status khác 200
}

// VerifyResponse kết quả chạy song song USPS và HERE cho một dòng
type VerifyResponse struct {
	USPS       any `json:"usps"`
	USPSStatus int `json:"uspsStatus"`
	Here       any `json:"here"`
	HereStatus int `json:"hereStatus"`
}

// CountyListResponse bảng county provider đang nạp
type CountyListResponse struct {
	Source    string                        `json:"source"` // "embedded" hoặc "mongodb"
	Total     int                           `json:"total"`
	Providers []models.CountyProviderRecord `json:"providers"`
}

// SeedCountiesResponse kết quả seed county provider
type SeedCountiesResponse struct {
	ValidationPassed bool     `json:"validation_passed"`
	Warnings         []string `json:"warnings,omitempty"`
	Inserted         int64    `json:"inserted"`
	Updated          int64    `json:"updated"`
	DryRun           bool     `json:"dry_run"`
	Message          string   `json:"message"`
}

// HealthResponse response health check
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}
