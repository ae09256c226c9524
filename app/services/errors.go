package services

import (
	"errors"

	"github.com/address-verifier/app/models"
)

// Lỗi validate input
var (
	ErrAddressLineRequired   = errors.New("addressLine required")
	ErrStreetAddressRequired = errors.New("streetAddress required")
)

// ParseError không suy ra được street address sau cả model lẫn fallback.
// Mang theo dữ liệu để client hiển thị form nhập tay.
type ParseError struct {
	AIError string
	Parsed  models.ParsedAddress
	Query   models.NormalizedQuery
}

func (e *ParseError) Error() string {
	return "Could not extract street address"
}
