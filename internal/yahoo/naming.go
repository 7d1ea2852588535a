package yahoo

import (
	"strings"
	"unicode"
)

// displayName converts a timeseries metric key into the display form
// used as a row label, e.g. "quarterlyTotalRevenue" becomes
// "Total Revenue" and "quarterlyDilutedEPS" becomes "Diluted EPS".
// Runs of capitals stay together so acronyms survive intact.
func displayName(key string) string {
	key = strings.TrimPrefix(key, "quarterly")
	key = strings.TrimPrefix(key, "annual")
	if key == "" {
		return key
	}

	runes := []rune(key)
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(runes[0]))
	for i := 1; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
