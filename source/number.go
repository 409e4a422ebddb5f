package source

import (
	"sort"
	"strconv"
	"strings"
)

// ParseNumber extracts the chapter/episode number out of a raw label.
//
// Upstream labels are frequently noisy ("EP12", "Episode 12.5",
// "Ch.101"); the first numeric token is used, with anything before it
// stripped. When no numeric token exists at all the positional
// fallback index+1 is returned, so a single malformed item never
// breaks a whole chapter list.
func ParseNumber(raw string, index int) float32 {
	token := numericToken(raw)
	if token == "" {
		return float32(index + 1)
	}

	number, err := strconv.ParseFloat(token, 32)
	if err != nil {
		return float32(index + 1)
	}
	return float32(number)
}

// numericToken returns the first run of digits (with an optional
// single decimal point) found in s.
func numericToken(s string) string {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	end := start
	dot := false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			end++
		case c == '.' && !dot && end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9':
			dot = true
			end++
		default:
			return s[start:end]
		}
	}
	return s[start:end]
}

// FormatNumber renders a chapter number without a trailing ".0"
// for whole numbers.
func FormatNumber(number float32) string {
	return strings.TrimSuffix(strconv.FormatFloat(float64(number), 'f', -1, 32), ".0")
}

// SortChapters sorts chapters ascending by number, in place.
//
// Adapters already return their canonical ascending order, this is
// the defensive re-sort for callers. The sort is stable so chapters
// that fell back to positional numbering keep their relative order.
func SortChapters(chapters []Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})
}
