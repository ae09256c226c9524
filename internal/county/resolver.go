package county

import (
	"net/url"
	"strings"

	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/normalizer"
)

// Resolver tra county provider theo tên county đã chuẩn hoá + mã bang.
// Bảng được dựng một lần trong NewResolver và chỉ đọc sau đó.
type Resolver struct {
	records []models.CountyProviderRecord
	byName  map[string][]*models.CountyProviderRecord
}

// NewResolver dựng bảng tra từ countyNameMatch và aliasNames của mỗi record
func NewResolver(records []models.CountyProviderRecord) *Resolver {
	r := &Resolver{
		records: append([]models.CountyProviderRecord(nil), records...),
		byName:  make(map[string][]*models.CountyProviderRecord),
	}
	for i := range r.records {
		rec := &r.records[i]
		for _, name := range namesOf(rec) {
			r.byName[name] = appendUnique(r.byName[name], rec)
		}
	}
	return r
}

// Resolve chỉ khớp chính xác tên chuẩn hoá; không có mã bang thì trả nil
func (r *Resolver) Resolve(countyName, stateCode string) *models.CountyProviderRecord {
	name := normalizer.NormalizeCountyName(countyName)
	state := strings.ToUpper(strings.TrimSpace(stateCode))
	if name == "" || state == "" {
		return nil
	}

	for _, rec := range r.byName[name] {
		if rec.HasState(state) {
			return rec
		}
	}
	return nil
}

// Records bản sao bảng provider đang nạp
func (r *Resolver) Records() []models.CountyProviderRecord {
	return append([]models.CountyProviderRecord(nil), r.records...)
}

// Len số provider
func (r *Resolver) Len() int {
	return len(r.records)
}

// BuildLink tạo link county. Provider không prefill được thì bỏ placeholder khỏi template.
func BuildLink(rec *models.CountyProviderRecord, shortAddress string) *models.CountyLink {
	if rec == nil {
		return nil
	}

	link := &models.CountyLink{Key: rec.Key, Label: rec.Label}
	shortAddress = strings.TrimSpace(shortAddress)
	if rec.CanPrefillAddress && shortAddress != "" {
		link.URL = strings.ReplaceAll(rec.URLTemplate, models.AddressPlaceholder, url.QueryEscape(shortAddress))
		link.Prefilled = true
	} else {
		link.URL = strings.ReplaceAll(rec.URLTemplate, models.AddressPlaceholder, "")
	}
	return link
}

func namesOf(rec *models.CountyProviderRecord) []string {
	names := make([]string, 0, 1+len(rec.AliasNames))
	seen := make(map[string]bool)
	for _, raw := range append([]string{rec.CountyNameMatch}, rec.AliasNames...) {
		n := normalizer.NormalizeCountyName(raw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

func appendUnique(list []*models.CountyProviderRecord, rec *models.CountyProviderRecord) []*models.CountyProviderRecord {
	for _, existing := range list {
		if existing == rec {
			return list
		}
	}
	return append(list, rec)
}
