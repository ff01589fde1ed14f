package swapi

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// LeadingInt reads the integer that starts s. Leading space and one sign
// are skipped and reading stops at the first non-digit, so "2500ms" is 2500
// and "1.5" is 1. ok is false when s holds no leading digit. Values too
// large for a float64 come back as an infinity.
func LeadingInt(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == start {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return v, true
}
