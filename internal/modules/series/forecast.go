package series

import (
	"time"

	"github.com/valyxo/valyxo/pkg/formulas"
)

// trendWindow is the maximum number of trailing observed points fed into the
// slope fit. A bounded window keeps old history from flattening recent trend.
const trendWindow = 6

// ExtendWithForecast appends monthsAhead projected points to a dense series.
// With two or more observed values the trailing trend is projected linearly
// from the last observed point; with fewer the last value is held flat. The
// input points are never mutated; appended points carry only a forecast
// value. A zero horizon or empty series is returned unchanged.
func ExtendWithForecast(series []ChartPoint, monthsAhead int) []ChartPoint {
	if len(series) == 0 || monthsAhead <= 0 {
		return series
	}

	anchorIdx := lastObservedIndex(series)

	out := make([]ChartPoint, len(series), len(series)+monthsAhead)
	copy(out, series)

	// No observed values at all: keep the month axis contiguous but leave
	// the projection empty. Nothing sensible can be extrapolated.
	if anchorIdx < 0 {
		base := parseLabel(series[len(series)-1].Label)
		for k := 1; k <= monthsAhead; k++ {
			out = append(out, ChartPoint{Label: base.AddDate(0, k, 0).Format(monthLayout)})
		}
		return out
	}

	slope := trailingSlope(series)
	anchorValue := *series[anchorIdx].Value

	base := parseLabel(series[len(series)-1].Label)
	for k := 1; k <= monthsAhead; k++ {
		monthIdx := len(series) - 1 + k
		projected := anchorValue + slope*float64(monthIdx-anchorIdx)
		out = append(out, ChartPoint{
			Label:    base.AddDate(0, k, 0).Format(monthLayout),
			Forecast: &projected,
		})
	}

	return out
}

// lastObservedIndex returns the index of the last point with a non-nil
// value, or -1 when the series has no observed values.
func lastObservedIndex(series []ChartPoint) int {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Value != nil {
			return i
		}
	}
	return -1
}

// trailingSlope fits a least-squares line through the trailing observed
// window, using month position as x so gaps weigh into the slope. Returns 0
// with fewer than two observed points (the flat-line fallback).
func trailingSlope(series []ChartPoint) float64 {
	var xs, ys []float64
	for i, p := range series {
		if p.Value != nil {
			xs = append(xs, float64(i))
			ys = append(ys, *p.Value)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	if len(xs) > trendWindow {
		xs = xs[len(xs)-trendWindow:]
		ys = ys[len(ys)-trendWindow:]
	}

	return formulas.TrendSlope(xs, ys)
}

// parseLabel converts a "Jan 2006" label back into its calendar month.
// Labels are produced by BuildDenseSeries so this should not fail; a zero
// time is returned for malformed input rather than an error.
func parseLabel(label string) time.Time {
	t, err := time.Parse(monthLayout, label)
	if err != nil {
		return time.Time{}
	}
	return t
}
