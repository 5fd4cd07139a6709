package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency renders a dollar value with thousands separators,
// e.g. 1234.5 -> "$1,234.50". Negative values keep the sign outside
// the symbol.
func FormatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "$" + b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatHours renders hours to two decimals.
func FormatHours(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// SanitizeFilename replaces characters that are invalid in filenames.
func SanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	return replacer.Replace(filename)
}
