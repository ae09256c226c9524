package models

// NormalizedQuery truy vấn gửi tới USPS, city/state luôn viết hoa
type NormalizedQuery struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZIPCode       string `json:"ZIPCode"`
}

// NeedsCityState kiểm tra query có cần tra city/state theo ZIP không
func (q NormalizedQuery) NeedsCityState() bool {
	return (q.City == "" || q.State == "") && q.ZIPCode != ""
}

// CityState kết quả tra cứu city/state theo ZIP
type CityState struct {
	ZIPCode string `json:"ZIPCode"`
	City    string `json:"city"`
	State   string `json:"state"`
}
