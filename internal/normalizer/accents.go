package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics loại bỏ dấu một cách an toàn (NFD rồi bỏ ký tự Mn)
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

// isMn kiểm tra xem rune có phải là diacritic mark không
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// FoldASCII bỏ dấu rồi chuyển các ký tự còn lại về ASCII gần nhất
func FoldASCII(s string) string {
	stripped := StripDiacritics(s)
	if isASCII(stripped) {
		return stripped
	}
	return unidecode.Unidecode(stripped)
}

// RemoveAccentsAndLowercase loại bỏ dấu và chuyển về lowercase
func RemoveAccentsAndLowercase(s string) string {
	return strings.ToLower(FoldASCII(s))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
