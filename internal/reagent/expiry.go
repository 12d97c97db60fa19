package reagent

import (
	"strings"
	"time"
)

// EncodeExpiry rearranges a "YYYY-MM-DD" date into the layout mode asks for.
// Input that does not split into exactly three dash-separated parts is
// returned unchanged. Day and month are not range-checked.
func EncodeExpiry(date string, mode ExpiryFormat) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}

	year, month, day := parts[0], parts[1], parts[2]
	switch mode {
	case ExpiryZeroPadded:
		return "00" + day + month + year
	default:
		return day + month + year
	}
}

// DefaultExpiry is one calendar month after now, as "YYYY-MM-DD".
func DefaultExpiry(now time.Time) string {
	return now.AddDate(0, 1, 0).Format("2006-01-02")
}
