package sheets

import (
	"strconv"
	"strings"
)

// ParseLenientNumber reads numbers typed by people into spreadsheets, such as "$1,200" or
// "1 200 ft". Anything it cannot read is 0. It never fails.
func ParseLenientNumber(raw string) float64 {
	var b strings.Builder
	seenDigit := false
	negative := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && !seenDigit && b.Len() == 0:
			negative = true
		}
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	if negative {
		return -v
	}
	return v
}
