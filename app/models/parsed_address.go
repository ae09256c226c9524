package models

import "strings"

// ParsedAddress các trường địa chỉ trích xuất từ một dòng địa chỉ tự do
type ParsedAddress struct {
	Number  string `json:"number"`            // Số nhà
	Prefix  string `json:"prefix"`            // Hướng đứng trước tên đường (N/S/E/W)
	Name    string `json:"name"`              // Tên đường
	Type    string `json:"type"`              // Loại đường (St/Ave/Blvd...)
	Suffix  string `json:"suffix"`            // Hướng đứng sau (NE/SW...)
	City    string `json:"city"`              // Thành phố
	State   string `json:"state"`             // Mã bang 2 ký tự
	Postal  string `json:"postal"`            // ZIP do model trả về
	ZIPCode string `json:"ZIPCode,omitempty"` // ZIP do fallback regex tìm được

	// Fallback = true khi kết quả đến từ regex chứ không phải model,
	// UI dùng cờ này để ẩn retry-with-confidence
	Fallback bool `json:"fallback"`
}

// StreetFields trả về các trường tạo nên địa chỉ đường theo thứ tự
func (p ParsedAddress) StreetFields() []string {
	return []string{p.Number, p.Prefix, p.Name, p.Type, p.Suffix}
}

// Display trả về dạng hiển thị cho client: state viết hoa, postal gộp ZIPCode
func (p ParsedAddress) Display() ParsedAddress {
	postal := p.Postal
	if postal == "" {
		postal = p.ZIPCode
	}
	return ParsedAddress{
		Number:   p.Number,
		Prefix:   p.Prefix,
		Name:     p.Name,
		Type:     p.Type,
		Suffix:   p.Suffix,
		City:     p.City,
		State:    strings.ToUpper(p.State),
		Postal:   postal,
		Fallback: p.Fallback,
	}
}
