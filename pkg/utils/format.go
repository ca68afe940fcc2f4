// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatUSD formats a dollar amount with thousands separators.
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	return s + "," + strings.Join(groups, ",")
}

// FormatPercent renders a decimal ratio as a percentage, e.g. 0.25 -> "+25.0%".
func FormatPercent(ratio float64) string {
	if ratio >= 0 {
		return fmt.Sprintf("+%.1f%%", ratio*100)
	}
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatVolume renders a share volume compactly, e.g. 1.2M.
func FormatVolume(volume float64) string {
	switch {
	case volume >= 1e9:
		return fmt.Sprintf("%.1fB", volume/1e9)
	case volume >= 1e6:
		return fmt.Sprintf("%.1fM", volume/1e6)
	case volume >= 1e3:
		return fmt.Sprintf("%.1fK", volume/1e3)
	default:
		return fmt.Sprintf("%.0f", volume)
	}
}
