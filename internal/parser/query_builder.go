package parser

import (
	"strings"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/normalizer"
)

// BuildQuery ghép ParsedAddress và dòng gốc thành NormalizedQuery
func BuildQuery(parsed models.ParsedAddress, rawLine string) models.NormalizedQuery {
	street := ComposeStreet(parsed)
	if street == "" {
		street = DeriveStreetFromLine(rawLine)
	}

	zip := normalizer.StripZIP4(strings.TrimSpace(parsed.Postal))
	if zip == "" {
		zip = strings.TrimSpace(parsed.ZIPCode)
	}

	return models.NormalizedQuery{
		StreetAddress: street,
		City:          strings.ToUpper(strings.TrimSpace(parsed.City)),
		State:         strings.ToUpper(strings.TrimSpace(parsed.State)),
		ZIPCode:       zip,
	}
}

// QueryFromFields chuẩn hoá input của luồng retry, không qua model
func QueryFromFields(streetAddress, city, state, zip string) models.NormalizedQuery {
	return models.NormalizedQuery{
		StreetAddress: strings.TrimSpace(streetAddress),
		City:          strings.ToUpper(strings.TrimSpace(city)),
		State:         strings.ToUpper(strings.TrimSpace(state)),
		ZIPCode:       strings.TrimSpace(zip),
	}
}

// ComposeStreet nối number/prefix/name/type/suffix khác rỗng bằng một dấu cách
func ComposeStreet(parsed models.ParsedAddress) string {
	parts := make([]string, 0, 5)
	for _, f := range parsed.StreetFields() {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// DeriveStreetFromLine lấy phần trước dấu phẩy đầu tiên của dòng đầu tiên
func DeriveStreetFromLine(line string) string {
	first, _, _ := strings.Cut(line, "\n")
	beforeComma, _, _ := strings.Cut(first, ",")
	return strings.TrimSpace(beforeComma)
}
