package requests

import "github.com/address-verifier/app/models"

// MaxBatchLines số dòng tối đa cho một request batch
const MaxBatchLines = 100

// StandardizeLineRequest request chuẩn hoá một dòng địa chỉ tự do
type StandardizeLineRequest struct {
	AddressLine string `json:"addressLine"` // Dòng địa chỉ, có thể nhiều dòng ngăn bởi \n
}

// RetryRequest request nhập tay, bỏ qua model
type RetryRequest struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZIPCode       string `json:"ZIPCode"`
}

// Query chuyển sang NormalizedQuery
func (r RetryRequest) Query() models.NormalizedQuery {
	return models.NormalizedQuery{
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		ZIPCode:       r.ZIPCode,
	}
}

// StandardizeLinesRequest request batch
type StandardizeLinesRequest struct {
	AddressLines []string `json:"addressLines" binding:"required,min=1,max=100"` // Tối đa MaxBatchLines dòng
}

// SeedCountiesRequest request seed bảng county provider vào MongoDB
type SeedCountiesRequest struct {
	Providers []models.CountyProviderRecord `json:"providers,omitempty"` // Rỗng = dùng bảng nhúng
}
