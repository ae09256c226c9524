//go:build cgo && libpostal

package external

import (
	"context"

	"github.com/address-verifier/app/models"
	"github.com/openvenues/gopostal/expand"
	"github.com/openvenues/gopostal/parser"
	"github.com/rotisserie/eris"
)

// Available cho biết binary có được build với libpostal không
const Available = true

// LibpostalExtractor trích xuất ParsedAddress bằng libpostal (offline, không cần API key)
type LibpostalExtractor struct{}

// NewLibpostalExtractor tạo mới LibpostalExtractor
func NewLibpostalExtractor() (*LibpostalExtractor, error) {
	return &LibpostalExtractor{}, nil
}

// Name tên extractor
func (l *LibpostalExtractor) Name() string {
	return "libpostal"
}

// Extract parse một dòng địa chỉ Mỹ bằng libpostal
func (l *LibpostalExtractor) Extract(ctx context.Context, line string) (models.ParsedAddress, error) {
	if err := ctx.Err(); err != nil {
		return models.ParsedAddress{}, err
	}

	opts := expand.DefaultOptions()
	opts.Languages = []string{"en"}
	best := line
	if exps := expand.ExpandAddress(line, opts); len(exps) > 0 {
		best = exps[0]
	}

	comps := parser.ParseAddress(best)
	if len(comps) == 0 {
		return models.ParsedAddress{}, eris.New("libpostal: no components")
	}
	return fromComponents(comps), nil
}

func fromComponents(comps []parser.ParsedComponent) models.ParsedAddress {
	var p models.ParsedAddress
	for _, c := range comps {
		switch c.Label {
		case "house_number":
			p.Number = c.Value
		case "road":
			p.Prefix, p.Name, p.Type, p.Suffix = splitRoad(c.Value)
		case "city":
			p.City = c.Value
		case "state":
			p.State = c.Value
		case "postcode":
			p.Postal = c.Value
		}
	}
	return p
}
