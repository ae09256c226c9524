package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/here"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModel struct {
	parsed models.ParsedAddress
	err    error
	calls  int
}

func (s *stubModel) Name() string { return "stub" }

func (s *stubModel) Extract(context.Context, string) (models.ParsedAddress, error) {
	s.calls++
	return s.parsed, s.err
}

func TestAddressExtractor_ModelSuccess(t *testing.T) {
	model := &stubModel{parsed: models.ParsedAddress{Number: "1600", Name: "Pennsylvania", Type: "Ave", Suffix: "NW", City: "Washington", State: "DC", Postal: "20500"}}
	ae := NewAddressExtractor(model, zap.NewNop())

	parsed, err := ae.Extract(context.Background(), "1600 Pennsylvania Ave NW, Washington, DC 20500")
	require.NoError(t, err)
	assert.False(t, parsed.Fallback)
	assert.Equal(t, "1600", parsed.Number)
	assert.Equal(t, 1, model.calls)
}

func TestAddressExtractor_FallbackOnFailure(t *testing.T) {
	lines := []struct {
		line    string
		wantZIP string
	}{
		{"1600 Pennsylvania Ave NW, Washington, DC 20500", "20500"},
		{"350 5th Ave, New York, NY 10118-0110", "10118"},
		{"somewhere with no zip", ""},
		{"Suite 1234, Main St", ""},
		// số nhà 5 chữ số đứng trước ZIP thật bị nhận nhầm
		{"12345 Main St, Austin, TX 78701", "12345"},
	}

	extractors := map[string]*AddressExtractor{
		"disabled": NewAddressExtractor(nil, zap.NewNop()),
		"failing":  NewAddressExtractor(&stubModel{err: errors.New("boom")}, zap.NewNop()),
	}

	for name, ae := range extractors {
		for _, tt := range lines {
			t.Run(name+"/"+tt.line, func(t *testing.T) {
				parsed, err := ae.Extract(context.Background(), tt.line)
				require.Error(t, err)
				assert.True(t, parsed.Fallback)
				assert.Equal(t, tt.wantZIP, parsed.ZIPCode)
				assert.Empty(t, parsed.City)
				assert.Empty(t, parsed.State)
			})
		}
	}
}

func TestAddressExtractor_DisabledError(t *testing.T) {
	_, err := NewAddressExtractor(nil, zap.NewNop()).Extract(context.Background(), "x")
	assert.ErrorIs(t, err, ErrModelDisabled)
	assert.Equal(t, "LLM disabled", err.Error())
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		parsed models.ParsedAddress
		line   string
		want   models.NormalizedQuery
	}{
		{
			name:   "full model output",
			parsed: models.ParsedAddress{Number: "1600", Name: "Pennsylvania", Type: "Ave", Suffix: "NW", City: "Washington", State: "dc", Postal: "20500-0003"},
			line:   "1600 Pennsylvania Ave NW, Washington, DC 20500",
			want:   models.NormalizedQuery{StreetAddress: "1600 Pennsylvania Ave NW", City: "WASHINGTON", State: "DC", ZIPCode: "20500"},
		},
		{
			name:   "empty street fields derive from line",
			parsed: models.ParsedAddress{ZIPCode: "20500", Fallback: true},
			line:   "1600 Pennsylvania Ave NW, Washington, DC 20500\nsecond line",
			want:   models.NormalizedQuery{StreetAddress: "1600 Pennsylvania Ave NW", ZIPCode: "20500"},
		},
		{
			name:   "no comma uses whole first line",
			parsed: models.ParsedAddress{},
			line:   "  742 Evergreen Terrace  \nSpringfield",
			want:   models.NormalizedQuery{StreetAddress: "742 Evergreen Terrace"},
		},
		{
			name:   "postal wins over ZIPCode",
			parsed: models.ParsedAddress{Number: "1", Name: "Main", Postal: "10001", ZIPCode: "99999"},
			line:   "",
			want:   models.NormalizedQuery{StreetAddress: "1 Main", ZIPCode: "10001"},
		},
		{
			name:   "prefix kept in order",
			parsed: models.ParsedAddress{Number: "100", Prefix: "N", Name: "Main", Type: "St"},
			line:   "",
			want:   models.NormalizedQuery{StreetAddress: "100 N Main St"},
		},
		{
			name:   "nothing usable",
			parsed: models.ParsedAddress{},
			line:   ", Washington",
			want:   models.NormalizedQuery{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.parsed, tt.line))
		})
	}
}

func TestQueryFromFields(t *testing.T) {
	q := QueryFromFields(" 1 Main St ", "austin", "tx", "78701")
	assert.Equal(t, models.NormalizedQuery{StreetAddress: "1 Main St", City: "AUSTIN", State: "TX", ZIPCode: "78701"}, q)
}

func score(v float64) *float64 { return &v }

func TestMatchClassifier_Classify(t *testing.T) {
	mc := NewMatchClassifier()

	tests := []struct {
		name       string
		item       *here.Item
		verdict    models.Verdict
		reason     string
		wantScore  *float64
		matchLevel string
	}{
		{name: "nil", item: nil, verdict: models.VerdictNone, reason: "no-items"},
		{
			name:       "interpolated caps score",
			item:       &here.Item{ResultType: "houseNumber", HouseNumberType: "interpolated", Scoring: here.Scoring{QueryScore: score(0.97)}},
			verdict:    models.VerdictPartial,
			reason:     "houseNumber-interpolated",
			wantScore:  score(0.75),
			matchLevel: "houseNumber",
		},
		{
			name:      "interpolated low score kept",
			item:      &here.Item{ResultType: "houseNumber", HouseNumberType: "interpolated", Scoring: here.Scoring{QueryScore: score(0.5)}},
			verdict:   models.VerdictPartial,
			reason:    "houseNumber-interpolated",
			wantScore: score(0.5),
		},
		{
			name:      "house number high score",
			item:      &here.Item{ResultType: "houseNumber", Scoring: here.Scoring{QueryScore: score(0.95)}},
			verdict:   models.VerdictExact,
			reason:    "houseNumber-high-score",
			wantScore: score(0.95),
		},
		{
			name:      "house number at threshold",
			item:      &here.Item{ResultType: "houseNumber", Scoring: here.Scoring{QueryScore: score(0.9)}},
			verdict:   models.VerdictExact,
			reason:    "houseNumber-high-score",
			wantScore: score(0.9),
		},
		{
			name:      "house number low score",
			item:      &here.Item{ResultType: "houseNumber", Scoring: here.Scoring{QueryScore: score(0.5)}},
			verdict:   models.VerdictPartial,
			reason:    "houseNumber-low-score",
			wantScore: score(0.5),
		},
		{
			name:    "house number without score",
			item:    &here.Item{ResultType: "houseNumber"},
			verdict: models.VerdictPartial,
			reason:  "houseNumber-low-score",
		},
		{name: "street", item: &here.Item{ResultType: "street"}, verdict: models.VerdictPartial, reason: "resultType-street"},
		{name: "intersection", item: &here.Item{ResultType: "intersection"}, verdict: models.VerdictPartial, reason: "resultType-intersection"},
		{name: "locality", item: &here.Item{ResultType: "locality"}, verdict: models.VerdictPartial, reason: "only-locality-level"},
		{name: "admin area", item: &here.Item{ResultType: "administrativeArea"}, verdict: models.VerdictPartial, reason: "only-administrativeArea-level"},
		{name: "place", item: &here.Item{ResultType: "place"}, verdict: models.VerdictNone, reason: "resultType-place"},
		{name: "unknown", item: &here.Item{}, verdict: models.VerdictNone, reason: "resultType-unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mc.Classify(tt.item)
			assert.Equal(t, tt.verdict, v.Verdict)
			assert.Equal(t, tt.reason, v.Reason)
			if tt.wantScore == nil {
				assert.Nil(t, v.QueryScore)
			} else {
				require.NotNil(t, v.QueryScore)
				assert.InDelta(t, *tt.wantScore, *v.QueryScore, 1e-9)
			}
			if tt.matchLevel != "" {
				assert.Equal(t, tt.matchLevel, v.MatchLevel)
			}
		})
	}
}

func TestMatchClassifier_CopiesFields(t *testing.T) {
	item := &here.Item{
		Title:      "1600 Pennsylvania Ave NW",
		ResultType: "houseNumber",
		Address:    here.Address{County: "District of Columbia", StateCode: "DC", HouseNumber: "1600", Street: "Pennsylvania Ave NW"},
		Position:   &here.Position{Lat: 38.9, Lng: -77.0},
		Scoring:    here.Scoring{QueryScore: score(1)},
	}

	v := NewMatchClassifier().Classify(item)
	assert.Equal(t, "1600 Pennsylvania Ave NW", v.Label)
	require.NotNil(t, v.Position)
	assert.InDelta(t, 38.9, v.Position.Lat, 1e-9)
	assert.Equal(t, "DC", v.Address.StateCode)
	assert.Equal(t, "District of Columbia", v.Address.County)

	// không sửa item gốc
	*v.QueryScore = 0
	assert.InDelta(t, 1.0, *item.Scoring.QueryScore, 1e-9)
}
