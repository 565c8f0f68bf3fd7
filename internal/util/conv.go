package util

import (
	"math"
	"strings"
)

// Round2 rounds to two decimal places, the precision scores and accuracy
// percentages are reported with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeEmail trims and lower-cases; submissions are deduplicated on the
// normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
