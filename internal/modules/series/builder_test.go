package series

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/valyxo/valyxo/internal/modules/snapshots"
)

func snap(t *testing.T, date string, kpis map[string]*float64) snapshots.Snapshot {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return snapshots.Snapshot{CompanyID: "test", PeriodDate: d, KPIs: kpis}
}

func labels(points []ChartPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}

func TestBuildDenseSeriesGapFill(t *testing.T) {
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-01", map[string]*float64{"mrr": fv(1000)}),
		snap(t, "2024-03-01", map[string]*float64{"mrr": fv(1200)}),
	}

	points := BuildDenseSeries(snaps, "mrr", BuildOptions{})

	wantLabels := []string{"Jan 2024", "Feb 2024", "Mar 2024"}
	if !reflect.DeepEqual(labels(points), wantLabels) {
		t.Fatalf("labels = %v, want %v", labels(points), wantLabels)
	}

	if points[0].Value == nil || *points[0].Value != 1000 {
		t.Errorf("Jan should be 1000, got %v", points[0].Value)
	}
	if points[1].Value != nil {
		t.Errorf("Feb should be a gap, got %v", *points[1].Value)
	}
	if points[2].Value == nil || *points[2].Value != 1200 {
		t.Errorf("Mar should be 1200, got %v", points[2].Value)
	}
}

func TestBuildDenseSeriesMonotonicContiguity(t *testing.T) {
	// Wide gaps and unsorted input still yield consecutive months
	snaps := []snapshots.Snapshot{
		snap(t, "2024-06-15", map[string]*float64{"mrr": fv(500)}),
		snap(t, "2023-11-01", map[string]*float64{"mrr": fv(100)}),
		snap(t, "2024-02-10", map[string]*float64{"mrr": fv(300)}),
	}

	points := BuildDenseSeries(snaps, "mrr", BuildOptions{})

	if len(points) != 8 { // Nov 2023 .. Jun 2024
		t.Fatalf("expected 8 points, got %d (%v)", len(points), labels(points))
	}

	prev, err := time.Parse(monthLayout, points[0].Label)
	if err != nil {
		t.Fatalf("bad label %q", points[0].Label)
	}
	for _, p := range points[1:] {
		cur, err := time.Parse(monthLayout, p.Label)
		if err != nil {
			t.Fatalf("bad label %q", p.Label)
		}
		if !cur.Equal(prev.AddDate(0, 1, 0)) {
			t.Fatalf("labels not consecutive: %q then %q", prev.Format(monthLayout), p.Label)
		}
		prev = cur
	}
}

func TestBuildDenseSeriesIdempotence(t *testing.T) {
	snaps := []snapshots.Snapshot{
		snap(t, "2024-03-01", map[string]*float64{"mrr": fv(1200)}),
		snap(t, "2024-01-01", map[string]*float64{"mrr": fv(1000)}),
		snap(t, "2024-02-01", map[string]*float64{"mrr": fv(1100)}),
	}
	reordered := []snapshots.Snapshot{snaps[1], snaps[2], snaps[0]}

	first := BuildDenseSeries(snaps, "mrr", BuildOptions{})
	second := BuildDenseSeries(reordered, "mrr", BuildOptions{})

	if !reflect.DeepEqual(labels(first), labels(second)) {
		t.Errorf("labels differ across reordered input: %v vs %v", labels(first), labels(second))
	}
	for i := range first {
		a, b := first[i].Value, second[i].Value
		if (a == nil) != (b == nil) || (a != nil && *a != *b) {
			t.Errorf("point %d differs across reordered input", i)
		}
	}
}

func TestBuildDenseSeriesPercentScaling(t *testing.T) {
	tests := []struct {
		name  string
		raw   float64
		wantV float64
	}{
		{"fraction scaled", 0.025, 2.5},
		{"already a percentage", 12, 12},
		{"exactly one not scaled", 1, 1},
		{"zero not scaled", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := []snapshots.Snapshot{
				snap(t, "2024-01-01", map[string]*float64{"churn": fv(tt.raw)}),
			}
			points := BuildDenseSeries(snaps, "churn", BuildOptions{Percent: true, AllowNegative: false})
			if len(points) != 1 || points[0].Value == nil {
				t.Fatalf("expected one valued point, got %v", points)
			}
			if *points[0].Value != tt.wantV {
				t.Errorf("value = %v, want %v", *points[0].Value, tt.wantV)
			}
		})
	}
}

func TestBuildDenseSeriesNegativeClamping(t *testing.T) {
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-01", map[string]*float64{"delta": fv(-3)}),
		snap(t, "2024-02-01", map[string]*float64{"delta": fv(5)}),
	}

	clamped := BuildDenseSeries(snaps, "delta", BuildOptions{AllowNegative: false})
	if len(clamped) != 2 {
		t.Fatalf("expected 2 points, got %d", len(clamped))
	}
	if clamped[0].Value != nil {
		t.Errorf("negative value should clamp to nil, got %v", *clamped[0].Value)
	}

	kept := BuildDenseSeries(snaps, "delta", BuildOptions{AllowNegative: true})
	if kept[0].Value == nil || *kept[0].Value != -3 {
		t.Errorf("negative value should survive with AllowNegative, got %v", kept[0].Value)
	}
}

func TestBuildDenseSeriesSameMonthLaterWins(t *testing.T) {
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-05", map[string]*float64{"mrr": fv(900)}),
		snap(t, "2024-01-20", map[string]*float64{"mrr": fv(950)}),
	}

	points := BuildDenseSeries(snaps, "mrr", BuildOptions{})
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Value == nil || *points[0].Value != 950 {
		t.Errorf("later snapshot in the month should win, got %v", points[0].Value)
	}
}

func TestBuildDenseSeriesNullOnlySnapshotsIgnoredForRange(t *testing.T) {
	// The December row has no mrr value, so it must not stretch the series
	snaps := []snapshots.Snapshot{
		snap(t, "2023-12-01", map[string]*float64{"churn": fv(0.05)}),
		snap(t, "2024-02-01", map[string]*float64{"mrr": fv(1100)}),
		snap(t, "2024-03-01", map[string]*float64{"mrr": fv(1200)}),
	}

	points := BuildDenseSeries(snaps, "mrr", BuildOptions{})
	wantLabels := []string{"Feb 2024", "Mar 2024"}
	if !reflect.DeepEqual(labels(points), wantLabels) {
		t.Errorf("labels = %v, want %v", labels(points), wantLabels)
	}
}

func TestBuildDenseSeriesSinglePoint(t *testing.T) {
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-01", map[string]*float64{"mrr": fv(100)}),
	}

	points := BuildDenseSeries(snaps, "mrr", BuildOptions{})
	if len(points) != 1 {
		t.Fatalf("expected a length-1 series, got %d", len(points))
	}
	if points[0].Label != "Jan 2024" {
		t.Errorf("label = %q", points[0].Label)
	}
}

func TestBuildDenseSeriesEmptyCases(t *testing.T) {
	if points := BuildDenseSeries(nil, "mrr", BuildOptions{}); len(points) != 0 {
		t.Errorf("nil input should yield empty output, got %v", points)
	}
	if points := BuildDenseSeries([]snapshots.Snapshot{}, "mrr", BuildOptions{}); len(points) != 0 {
		t.Errorf("empty input should yield empty output, got %v", points)
	}

	// Snapshots exist but none carries the metric
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-01", map[string]*float64{"churn": fv(0.05)}),
		snap(t, "2024-02-01", map[string]*float64{"mrr": nil}),
	}
	if points := BuildDenseSeries(snaps, "mrr", BuildOptions{}); len(points) != 0 {
		t.Errorf("all-null metric should yield empty output, got %v", points)
	}
}

func TestBuildDenseSeriesMalformedValuesDegrade(t *testing.T) {
	// A NaN row must not blank the whole chart
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-01", map[string]*float64{"mrr": fv(1000)}),
		snap(t, "2024-02-01", map[string]*float64{"mrr": fv(math.NaN())}),
		snap(t, "2024-03-01", map[string]*float64{"mrr": fv(1200)}),
	}

	points := BuildDenseSeries(snaps, "mrr", BuildOptions{})
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[1].Value != nil {
		t.Errorf("NaN month should be nil, got %v", *points[1].Value)
	}
	if points[0].Value == nil || points[2].Value == nil {
		t.Error("valid months must survive a malformed neighbor")
	}
}

func TestBuildDenseSeriesAliasAcrossRows(t *testing.T) {
	// Different key spellings for the same concept across periods
	snaps := []snapshots.Snapshot{
		snap(t, "2024-01-01", map[string]*float64{"customer_churn_rate": fv(0.04)}),
		snap(t, "2024-02-01", map[string]*float64{"churn": fv(0.03)}),
	}

	points := BuildDenseSeries(snaps, "churn", BuildOptions{Percent: true})
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Value == nil || *points[0].Value != 4 {
		t.Errorf("Jan = %v, want 4", points[0].Value)
	}
	if points[1].Value == nil || *points[1].Value != 3 {
		t.Errorf("Feb = %v, want 3", points[1].Value)
	}
}
