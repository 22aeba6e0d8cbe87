package catalog

import "math"

// Round2 rounds a non-negative monetary amount to two decimals using
// round-half-up. Aggregations sum unrounded values and apply this once
// at the display boundary.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
