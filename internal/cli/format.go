// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatAmount formats a budget amount with separators, keeping cents only
// when the amount has them. e.g., 1250 -> "1,250", 12.5 -> "12.50"
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	whole := math.Trunc(v)
	cents := math.Round(math.Abs(v-whole) * 100)
	if cents == 100 {
		whole += math.Copysign(1, v)
		cents = 0
	}
	s := FormatNumber(int64(whole))
	if v < 0 && whole == 0 {
		s = "-0"
	}
	if cents == 0 {
		return s
	}
	return fmt.Sprintf("%s.%02d", s, int(cents))
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDegrees formats an angle already converted to degrees.
func FormatDegrees(deg float64) string {
	return fmt.Sprintf("%.1f°", deg)
}
