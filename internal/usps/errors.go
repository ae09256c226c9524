package usps

import (
	"fmt"

	"github.com/address-verifier/app/models"
)

// AuthError lỗi khi lấy bearer token từ OAuth endpoint.
// Status = 0 khi lỗi mạng/timeout.
type AuthError struct {
	Status int
	Body   string
	cause  error
}

func (e *AuthError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("usps oauth: %v", e.cause)
	}
	return fmt.Sprintf("usps oauth: HTTP %d", e.Status)
}

func (e *AuthError) Unwrap() error { return e.cause }

// StandardizationError lỗi khi gọi một endpoint addresses (city-state hoặc address)
type StandardizationError struct {
	Stage  string
	Status int
	Body   string
	URL    string
	cause  error
}

func (e *StandardizationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("usps %s: %v", e.Stage, e.cause)
	}
	return fmt.Sprintf("usps %s: HTTP %d", e.Stage, e.Status)
}

func (e *StandardizationError) Unwrap() error { return e.cause }

// StageError chuyển sang dạng trả về cho client
func (e *StandardizationError) StageError() *models.StageError {
	return &models.StageError{Stage: e.Stage, Status: e.Status, Body: e.Body}
}
