//go:build !(cgo && libpostal)

package external

import (
	"context"

	"github.com/address-verifier/app/models"
	"github.com/rotisserie/eris"
)

// Available cho biết binary có được build với libpostal không
const Available = false

// ErrLibpostalUnavailable binary không được build với tag libpostal
var ErrLibpostalUnavailable = eris.New("libpostal not compiled in (build with -tags libpostal)")

// LibpostalExtractor bản stub khi không có libpostal
type LibpostalExtractor struct{}

// NewLibpostalExtractor luôn lỗi khi không có libpostal
func NewLibpostalExtractor() (*LibpostalExtractor, error) {
	return nil, ErrLibpostalUnavailable
}

// Name tên extractor
func (l *LibpostalExtractor) Name() string {
	return "libpostal"
}

// Extract luôn lỗi
func (l *LibpostalExtractor) Extract(context.Context, string) (models.ParsedAddress, error) {
	return models.ParsedAddress{}, ErrLibpostalUnavailable
}
