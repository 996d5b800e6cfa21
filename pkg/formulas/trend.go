// Package formulas provides statistical helpers shared by the series
// pipeline and insight summaries.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// TrendSlope fits a least-squares line through (x, y) and returns its slope.
// Returns 0 for fewer than two points or for a degenerate fit (all x equal,
// or a non-finite result).
func TrendSlope(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}

	// All x identical would make the fit vertical.
	allEqual := true
	for i := 1; i < len(x); i++ {
		if x[i] != x[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return 0
	}

	_, slope := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}

// PercentChange returns the relative change from previous to current as a
// percentage. Returns 0 when previous is 0 to avoid a division blowup.
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}
