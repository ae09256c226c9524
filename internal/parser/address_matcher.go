package parser

import (
	"math"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/here"
)

// Ngưỡng mặc định của MatchClassifier
const (
	DefaultExactThreshold   = 0.9
	DefaultInterpolationCap = 0.75
)

// Reason codes
const (
	ReasonNoItems                 = "no-items"
	ReasonHouseNumberInterpolated = "houseNumber-interpolated"
	ReasonHouseNumberHighScore    = "houseNumber-high-score"
	ReasonHouseNumberLowScore     = "houseNumber-low-score"
)

// MatchClassifier phân loại item geocode thành exact/partial/none
type MatchClassifier struct {
	exactThreshold   float64
	interpolationCap float64
}

// NewMatchClassifier tạo mới MatchClassifier với ngưỡng mặc định
func NewMatchClassifier() *MatchClassifier {
	return &MatchClassifier{
		exactThreshold:   DefaultExactThreshold,
		interpolationCap: DefaultInterpolationCap,
	}
}

// Classify áp bảng quyết định theo thứ tự, rule đầu tiên khớp sẽ thắng
func (mc *MatchClassifier) Classify(item *here.Item) models.GeocodeVerdict {
	if item == nil {
		return models.GeocodeVerdict{Verdict: models.VerdictNone, Reason: ReasonNoItems}
	}

	v := models.GeocodeVerdict{
		MatchLevel: item.ResultType,
		Label:      item.Address.Label,
		Address:    toGeocodeAddress(item.Address),
	}
	if v.Label == "" {
		v.Label = item.Title
	}
	if item.Position != nil {
		v.Position = &models.Position{Lat: item.Position.Lat, Lng: item.Position.Lng}
	}

	score := 0.0
	if item.Scoring.QueryScore != nil {
		score = *item.Scoring.QueryScore
		v.QueryScore = &score
	}

	switch {
	case item.HouseNumberType == "interpolated":
		v.Verdict, v.Reason = models.VerdictPartial, ReasonHouseNumberInterpolated
		if v.QueryScore != nil {
			capped := math.Min(score, mc.interpolationCap)
			v.QueryScore = &capped
		}
	case item.ResultType == "houseNumber" && score >= mc.exactThreshold:
		v.Verdict, v.Reason = models.VerdictExact, ReasonHouseNumberHighScore
	case item.ResultType == "houseNumber":
		v.Verdict, v.Reason = models.VerdictPartial, ReasonHouseNumberLowScore
	case item.ResultType == "street" || item.ResultType == "intersection":
		v.Verdict, v.Reason = models.VerdictPartial, "resultType-"+item.ResultType
	case item.ResultType == "locality" || item.ResultType == "administrativeArea":
		v.Verdict, v.Reason = models.VerdictPartial, "only-"+item.ResultType+"-level"
	default:
		t := item.ResultType
		if t == "" {
			t = "unknown"
		}
		v.Verdict, v.Reason = models.VerdictNone, "resultType-"+t
	}
	return v
}

func toGeocodeAddress(a here.Address) models.GeocodeAddress {
	return models.GeocodeAddress{
		Label:       a.Label,
		CountryCode: a.CountryCode,
		StateCode:   a.StateCode,
		State:       a.State,
		County:      a.County,
		City:        a.City,
		District:    a.District,
		Street:      a.Street,
		PostalCode:  a.PostalCode,
		HouseNumber: a.HouseNumber,
	}
}
