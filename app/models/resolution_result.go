package models

import (
	"encoding/json"
	"net/http"
)

// Stage constants cho taxonomy lỗi theo từng bước pipeline
const (
	StageOAuth     = "oauth"
	StageParse     = "parse"
	StageCityState = "city-state"
	StageAddress   = "address"
	StageGeocode   = "here-geocode-failed"
)

// StageError lỗi của một bước gọi upstream, trả nguyên cho client
type StageError struct {
	Stage  string `json:"stage"`
	Status int    `json:"status,omitempty"`
	Body   string `json:"body,omitempty"`
}

// HTTPStatus trả về status upstream, mặc định 500
func (se *StageError) HTTPStatus() int {
	return UpstreamStatus(se.Status)
}

// LineInput input gốc của một dòng địa chỉ
type LineInput struct {
	AddressLine string `json:"addressLine"`
}

// ResolutionResult kết quả cuối của pipeline cho một dòng địa chỉ.
// StandardizationError và StandardizedAddress loại trừ nhau.
type ResolutionResult struct {
	Input                LineInput       `json:"input"`
	Parsed               ParsedAddress   `json:"parsed"`
	Query                NormalizedQuery `json:"query"`
	AIError              string          `json:"aiError"`
	StandardizationError *StageError     `json:"standardizationError"`
	StandardizedAddress  json.RawMessage `json:"standardizedAddress"`
}

// HTTPStatus status trả về cho client
func (r *ResolutionResult) HTTPStatus() int {
	if r.StandardizationError != nil {
		return r.StandardizationError.HTTPStatus()
	}
	return http.StatusOK
}

// RetryResult kết quả của luồng nhập tay (bỏ qua AI)
type RetryResult struct {
	Query                NormalizedQuery `json:"query"`
	StandardizationError *StageError     `json:"standardizationError"`
	StandardizedAddress  json.RawMessage `json:"standardizedAddress"`
}

// HTTPStatus status trả về cho client
func (r *RetryResult) HTTPStatus() int {
	if r.StandardizationError != nil {
		return r.StandardizationError.HTTPStatus()
	}
	return http.StatusOK
}

// UpstreamStatus giữ nguyên status hợp lệ của upstream, ngược lại 500
func UpstreamStatus(status int) int {
	if status < 100 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}
