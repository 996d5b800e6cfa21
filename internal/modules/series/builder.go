package series

import (
	"sort"
	"time"

	"github.com/valyxo/valyxo/internal/modules/snapshots"
)

// monthLayout is the human-readable point label format, one per calendar month.
const monthLayout = "Jan 2006"

// ChartPoint is one point in a dense, month-aligned series. Value holds the
// observed number for that month (nil where no snapshot or metric exists);
// Forecast is populated only on points appended by ExtendWithForecast.
type ChartPoint struct {
	Label    string
	Value    *float64
	Forecast *float64
}

// BuildOptions controls value normalization when building a series.
type BuildOptions struct {
	// Percent scales raw fractions to percentages: a value strictly between
	// 0 and 1 is multiplied by 100, anything else is assumed to already be
	// a percentage. Known quirk: a legitimate sub-1% value stored as e.g.
	// 0.5 is indistinguishable from the fraction 50% and gets scaled.
	// Preserved as-is for compatibility with historical data.
	Percent bool

	// AllowNegative keeps negative values; when false they are treated as
	// invalid data and nulled rather than charted below zero.
	AllowNegative bool
}

// BuildOptions derives the normalization flags from a metric definition.
func (d MetricDefinition) BuildOptions() BuildOptions {
	return BuildOptions{Percent: d.Percent, AllowNegative: d.AllowNegative}
}

// BuildDenseSeries converts an unordered, sparse snapshot list into a
// contiguous month-by-month series for one metric. Months between the first
// and last observed value are always present; those without data carry a nil
// value. Never panics and never errors: malformed data degrades to nil points.
func BuildDenseSeries(snaps []snapshots.Snapshot, metric string, opts BuildOptions) []ChartPoint {
	if len(snaps) == 0 {
		return nil
	}

	sorted := make([]snapshots.Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PeriodDate.Before(sorted[j].PeriodDate)
	})

	// Bucket by calendar month. Ascending iteration means a later-dated
	// snapshot in the same month overwrites an earlier one, including with
	// a nil value: the later row is canonical for that month.
	byMonth := make(map[time.Time]*float64)
	for _, s := range sorted {
		byMonth[monthOf(s.PeriodDate)] = ExtractMetric(s.KPIs, metric)
	}

	// The series spans the first through last month with an observed value.
	// Snapshots whose metric is nil do not extend the range.
	var first, last time.Time
	found := false
	for month, v := range byMonth {
		if v == nil {
			continue
		}
		if !found || month.Before(first) {
			first = month
		}
		if !found || month.After(last) {
			last = month
		}
		found = true
	}
	if !found {
		return nil
	}

	var points []ChartPoint
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		points = append(points, ChartPoint{
			Label: month.Format(monthLayout),
			Value: normalizeValue(byMonth[month], opts),
		})
	}

	return points
}

// monthOf truncates a date to the first day of its calendar month in UTC.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// normalizeValue applies the percent heuristic and the negative clamp.
func normalizeValue(v *float64, opts BuildOptions) *float64 {
	if v == nil {
		return nil
	}

	value := *v
	if opts.Percent && value > 0 && value < 1 {
		value *= 100
	}
	if !opts.AllowNegative && value < 0 {
		return nil
	}

	return &value
}
