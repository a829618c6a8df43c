package views

import (
	"fmt"
	"strconv"
)

// FormatCount renders a view count for display: plain below a thousand,
// one decimal with a K suffix from a thousand, one decimal with an M
// suffix from a million.
func FormatCount(views int64) string {
	switch {
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	default:
		return strconv.FormatInt(views, 10)
	}
}
