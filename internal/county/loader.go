package county

import (
	"embed"
	"fmt"
	"strings"

	"github.com/address-verifier/app/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/providers.yaml
var embeddedFS embed.FS

type providerFile struct {
	Providers []models.CountyProviderRecord `yaml:"providers"`
}

// LoadEmbedded đọc bảng provider nhúng trong binary
func LoadEmbedded() ([]models.CountyProviderRecord, error) {
	data, err := embeddedFS.ReadFile("data/providers.yaml")
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc providers.yaml: %w", err)
	}
	return Parse(data)
}

// Parse parse YAML dạng {providers: [...]}
func Parse(data []byte) ([]models.CountyProviderRecord, error) {
	var f providerFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("lỗi parse county providers: %w", err)
	}
	return f.Providers, nil
}

// Validate kiểm tra bảng provider: key duy nhất, có tên, có template,
// state code 2 ký tự, không có hai provider trùng (tên chuẩn hoá, bang)
func Validate(records []models.CountyProviderRecord) []string {
	var problems []string
	keys := make(map[string]bool, len(records))
	owners := make(map[string]string)

	for i, rec := range records {
		ref := rec.Key
		if ref == "" {
			ref = fmt.Sprintf("#%d", i)
			problems = append(problems, ref+": missing key")
		} else if keys[rec.Key] {
			problems = append(problems, ref+": duplicate key")
		}
		keys[rec.Key] = true

		if strings.TrimSpace(rec.CountyNameMatch) == "" {
			problems = append(problems, ref+": missing county_name_match")
		}
		if strings.TrimSpace(rec.URLTemplate) == "" {
			problems = append(problems, ref+": missing url_template")
		}
		if len(rec.StateCodes) == 0 {
			problems = append(problems, ref+": missing state_codes")
		}
		for _, st := range rec.StateCodes {
			if len(strings.TrimSpace(st)) != 2 {
				problems = append(problems, fmt.Sprintf("%s: invalid state code %q", ref, st))
			}
		}
		if rec.CanPrefillAddress && !strings.Contains(rec.URLTemplate, models.AddressPlaceholder) {
			problems = append(problems, ref+": can_prefill_address without "+models.AddressPlaceholder)
		}

		for _, name := range namesOf(&rec) {
			for _, st := range rec.StateCodes {
				slot := name + "|" + strings.ToUpper(strings.TrimSpace(st))
				if other, ok := owners[slot]; ok && other != ref {
					problems = append(problems, fmt.Sprintf("%s: %q in %s already served by %s", ref, name, st, other))
					continue
				}
				owners[slot] = ref
			}
		}
	}
	return problems
}
