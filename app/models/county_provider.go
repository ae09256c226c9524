package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressPlaceholder placeholder trong URL template để điền short address
const AddressPlaceholder = "{address}"

// CountyProviderRecord cấu hình một trang bản đồ cấp county.
// Dữ liệu tĩnh, nạp một lần khi khởi động.
type CountyProviderRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" yaml:"-" json:"-"`
	Key               string             `bson:"key" yaml:"key" json:"key"`
	Label             string             `bson:"label" yaml:"label" json:"label"`
	CountyNameMatch   string             `bson:"county_name_match" yaml:"county_name_match" json:"countyNameMatch"`
	AliasNames        []string           `bson:"alias_names,omitempty" yaml:"alias_names,omitempty" json:"aliasNames,omitempty"`
	StateCodes        []string           `bson:"state_codes" yaml:"state_codes" json:"stateCodes"`
	CanPrefillAddress bool               `bson:"can_prefill_address" yaml:"can_prefill_address" json:"canPrefillAddress"`
	URLTemplate       string             `bson:"url_template" yaml:"url_template" json:"urlTemplate"`
	UpdatedAt         time.Time          `bson:"updated_at,omitempty" yaml:"-" json:"-"`
}

// HasState kiểm tra record có phục vụ mã bang này không (so khớp chính xác)
func (r *CountyProviderRecord) HasState(stateCode string) bool {
	for _, s := range r.StateCodes {
		if strings.EqualFold(strings.TrimSpace(s), stateCode) {
			return true
		}
	}
	return false
}

// CountyLink link bản đồ county hiển thị kèm kết quả geocode
type CountyLink struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	URL       string `json:"url"`
	Prefilled bool   `json:"prefilled"`
}
