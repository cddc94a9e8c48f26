package views

import (
	"fmt"
	"math"
	"strconv"
)

// FormatCount renders a view count as a compact display string:
// exact digits below 1000, one-decimal thousands up to 9999 ("1.2k",
// with a whole-number "1k" when the decimal rounds away), truncated
// integer thousands up to 999999 ("15k"), and one-decimal millions
// beyond that ("1.5M").
func FormatCount(count uint64) string {
	switch {
	case count < 1000:
		return strconv.FormatUint(count, 10)
	case count < 10000:
		k := float64(count) / 1000
		rounded := math.Round(k*10) / 10
		if rem := rounded - math.Trunc(rounded); rem < 0.01 {
			return fmt.Sprintf("%dk", uint64(rounded))
		}
		return fmt.Sprintf("%.1fk", rounded)
	case count < 1000000:
		return fmt.Sprintf("%dk", count/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	}
}
