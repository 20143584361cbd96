package routing

import (
	"fmt"
	"math"
)

// FormatDuration renders a duration in seconds as "Xh Ym", "Xm Ys" or "Xs"
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))

	if total >= 3600 {
		return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
	}
	if total >= 60 {
		return fmt.Sprintf("%dm %ds", total/60, total%60)
	}
	return fmt.Sprintf("%ds", total)
}

// FormatDistance renders a distance in meters as "X.Y km" above 1km,
// otherwise as rounded meters
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%d m", int(math.Round(meters)))
}
