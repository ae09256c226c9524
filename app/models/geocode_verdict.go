package models

import "encoding/json"

// Verdict mức độ khớp của kết quả geocode
type Verdict string

// Verdict constants
const (
	VerdictExact   Verdict = "exact"
	VerdictPartial Verdict = "partial"
	VerdictNone    Verdict = "none"
)

// Position toạ độ trả về từ geocoder
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeAddress các trường địa chỉ có cấu trúc từ geocoder
type GeocodeAddress struct {
	Label       string `json:"label,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	StateCode   string `json:"stateCode,omitempty"`
	State       string `json:"state,omitempty"`
	County      string `json:"county,omitempty"`
	City        string `json:"city,omitempty"`
	District    string `json:"district,omitempty"`
	Street      string `json:"street,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	HouseNumber string `json:"houseNumber,omitempty"`
}

// GeocodeVerdict kết quả phân loại một item geocode
type GeocodeVerdict struct {
	Verdict    Verdict        `json:"verdict"`
	Reason     string         `json:"reason"`
	MatchLevel string         `json:"matchLevel"`
	QueryScore *float64       `json:"queryScore"` // nil khi provider không trả score
	Label      string         `json:"label"`
	Position   *Position      `json:"position"`
	Address    GeocodeAddress `json:"address"`
}

// GeocodeResult payload của luồng geocode cho một dòng
type GeocodeResult struct {
	Input  LineInput       `json:"input"`
	Here   GeocodeVerdict  `json:"here"`
	County *CountyLink     `json:"county"`
	Raw    json.RawMessage `json:"raw"`
}
