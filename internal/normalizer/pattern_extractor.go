package normalizer

import (
	"regexp"
	"strings"
)

// zipPattern ZIP 5 số, có thể kèm +4. Lấy match đầu tiên trong dòng, nên số nhà
// 5 chữ số đứng trước ZIP thật sẽ bị nhận nhầm.
var zipPattern = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)

// ExtractZIP trả về token ZIP đầu tiên trong dòng (giữ nguyên phần -xxxx), "" nếu không có
func ExtractZIP(line string) string {
	return zipPattern.FindString(line)
}

// StripZIP4 bỏ phần từ dấu '-' đầu tiên trở đi ("20500-0003" -> "20500")
func StripZIP4(zip string) string {
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		return zip[:i]
	}
	return zip
}
