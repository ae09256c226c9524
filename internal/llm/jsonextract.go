package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/address-verifier/app/models"
	"github.com/rotisserie/eris"
)

// ErrNoJSON model trả về text không chứa object JSON nào
var ErrNoJSON = eris.New("no JSON found from LLM")

// ExtractJSONObject parse text của model thành object.
// Thử parse trực tiếp trước, sau đó lấy cặp {...} cân bằng đầu tiên.
func ExtractJSONObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, nil
	}

	candidate, ok := firstBalancedObject(text)
	if !ok {
		return nil, ErrNoJSON
	}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, eris.Wrap(err, "llm: parse embedded JSON")
	}
	return obj, nil
}

// firstBalancedObject quét tìm {...} cân bằng đầu tiên, bỏ qua ngoặc nằm trong chuỗi
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		depth := 0
		inString, escaped := false, false
		for i := start; i < len(text); i++ {
			ch := text[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case ch == '\\':
					escaped = true
				case ch == '"':
					inString = false
				}
				continue
			}
			switch ch {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}

		// không đóng được, thử dấu { tiếp theo
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			return "", false
		}
		start += next + 1
	}
	return "", false
}

// ToParsedAddress ánh xạ object của model sang ParsedAddress, giá trị không phải string được ép về string
func ToParsedAddress(obj map[string]any) models.ParsedAddress {
	return models.ParsedAddress{
		Number: field(obj, "number"),
		Prefix: field(obj, "prefix"),
		Name:   field(obj, "name"),
		Type:   field(obj, "type"),
		Suffix: field(obj, "suffix"),
		City:   field(obj, "city"),
		State:  field(obj, "state"),
		Postal: field(obj, "postal"),
	}
}

func field(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// 1600 thay vì 1.6e+03
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
