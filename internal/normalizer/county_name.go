package normalizer

import "strings"

// countyTokenAliases các token được viết lại khi chuẩn hoá tên county
var countyTokenAliases = map[string]string{
	"saint": "st",
}

// NormalizeCountyName chuẩn hoá tên county để tra bảng:
// bỏ dấu, lowercase, bỏ dấu chấm, "saint" -> "st", gộp khoảng trắng,
// bỏ token "county" ở cuối.
//
//	"St. Louis County" -> "st louis"
//	"Saint Louis"      -> "st louis"
//	"Doña Ana"         -> "dona ana"
func NormalizeCountyName(name string) string {
	s := RemoveAccentsAndLowercase(name)
	s = strings.ReplaceAll(s, ".", "")

	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if alias, ok := countyTokenAliases[tok]; ok {
			tokens[i] = alias
		}
	}
	if n := len(tokens); n > 1 && tokens[n-1] == "county" {
		tokens = tokens[:n-1]
	}

	return strings.Join(tokens, " ")
}
