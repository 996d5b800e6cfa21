package series

import (
	"math"
	"testing"
)

func TestExtendWithForecastLinearTrend(t *testing.T) {
	// Jan=1000, Feb=gap, Mar=1200 -> slope 100/month
	series := []ChartPoint{
		{Label: "Jan 2024", Value: fv(1000)},
		{Label: "Feb 2024"},
		{Label: "Mar 2024", Value: fv(1200)},
	}

	extended := ExtendWithForecast(series, 2)
	if len(extended) != 5 {
		t.Fatalf("expected 5 points, got %d", len(extended))
	}

	apr, may := extended[3], extended[4]
	if apr.Label != "Apr 2024" || may.Label != "May 2024" {
		t.Errorf("labels = %q, %q", apr.Label, may.Label)
	}
	if apr.Value != nil || may.Value != nil {
		t.Error("forecast points must not carry observed values")
	}
	if apr.Forecast == nil || math.Abs(*apr.Forecast-1300) > 1e-9 {
		t.Errorf("Apr forecast = %v, want 1300", apr.Forecast)
	}
	if may.Forecast == nil || math.Abs(*may.Forecast-1400) > 1e-9 {
		t.Errorf("May forecast = %v, want 1400", may.Forecast)
	}
}

func TestExtendWithForecastSinglePointFlatline(t *testing.T) {
	series := []ChartPoint{{Label: "Jan 2024", Value: fv(100)}}

	extended := ExtendWithForecast(series, 3)
	if len(extended) != 4 {
		t.Fatalf("expected 4 points, got %d", len(extended))
	}

	for i, p := range extended[1:] {
		if p.Forecast == nil || *p.Forecast != 100 {
			t.Errorf("forecast point %d = %v, want flat 100", i, p.Forecast)
		}
		if p.Value != nil {
			t.Errorf("forecast point %d must have nil value", i)
		}
	}

	wantLabels := []string{"Feb 2024", "Mar 2024", "Apr 2024"}
	for i, p := range extended[1:] {
		if p.Label != wantLabels[i] {
			t.Errorf("label %d = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
}

func TestExtendWithForecastTrailingGap(t *testing.T) {
	// Anchor sits before trailing nil months; projection starts one month
	// after the series end but is computed from the anchor's position
	series := []ChartPoint{
		{Label: "Jan 2024", Value: fv(100)},
		{Label: "Feb 2024", Value: fv(110)},
		{Label: "Mar 2024"},
		{Label: "Apr 2024"},
	}

	extended := ExtendWithForecast(series, 1)
	if len(extended) != 5 {
		t.Fatalf("expected 5 points, got %d", len(extended))
	}

	// Anchor at index 1 (value 110), slope 10/month, May is index 4
	may := extended[4]
	if may.Label != "May 2024" {
		t.Errorf("label = %q, want May 2024", may.Label)
	}
	if may.Forecast == nil || math.Abs(*may.Forecast-140) > 1e-9 {
		t.Errorf("forecast = %v, want 140", may.Forecast)
	}
}

func TestExtendWithForecastYearBoundary(t *testing.T) {
	series := []ChartPoint{{Label: "Nov 2024", Value: fv(50)}}

	extended := ExtendWithForecast(series, 3)
	wantLabels := []string{"Dec 2024", "Jan 2025", "Feb 2025"}
	for i, p := range extended[1:] {
		if p.Label != wantLabels[i] {
			t.Errorf("label %d = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
}

func TestExtendWithForecastNoOpCases(t *testing.T) {
	if got := ExtendWithForecast(nil, 6); len(got) != 0 {
		t.Errorf("empty series should pass through, got %v", got)
	}

	series := []ChartPoint{{Label: "Jan 2024", Value: fv(10)}}
	if got := ExtendWithForecast(series, 0); len(got) != 1 {
		t.Errorf("zero horizon should pass through, got %d points", len(got))
	}
	if got := ExtendWithForecast(series, -2); len(got) != 1 {
		t.Errorf("negative horizon should pass through, got %d points", len(got))
	}
}

func TestExtendWithForecastAllNullSeries(t *testing.T) {
	series := []ChartPoint{
		{Label: "Jan 2024"},
		{Label: "Feb 2024"},
	}

	extended := ExtendWithForecast(series, 2)
	if len(extended) != 4 {
		t.Fatalf("expected 4 points, got %d", len(extended))
	}
	for i, p := range extended[2:] {
		if p.Forecast != nil || p.Value != nil {
			t.Errorf("point %d should be fully null, got %+v", i, p)
		}
	}
	if extended[2].Label != "Mar 2024" || extended[3].Label != "Apr 2024" {
		t.Errorf("labels should continue: %q, %q", extended[2].Label, extended[3].Label)
	}
}

func TestExtendWithForecastDoesNotMutateInput(t *testing.T) {
	series := []ChartPoint{
		{Label: "Jan 2024", Value: fv(100)},
		{Label: "Feb 2024", Value: fv(110)},
	}

	extended := ExtendWithForecast(series, 2)

	if len(series) != 2 {
		t.Fatalf("input length changed to %d", len(series))
	}
	if series[1].Forecast != nil {
		t.Error("anchor point in the input must not be mutated")
	}
	if extended[1].Forecast != nil {
		t.Error("anchor point in the output must not carry a forecast; continuity is the chart adapter's job")
	}
}

func TestExtendWithForecastNeverNaN(t *testing.T) {
	// Declining series projecting below zero is still finite
	series := []ChartPoint{
		{Label: "Jan 2024", Value: fv(30)},
		{Label: "Feb 2024", Value: fv(10)},
	}

	extended := ExtendWithForecast(series, 4)
	for i, p := range extended[2:] {
		if p.Forecast == nil {
			t.Fatalf("point %d missing forecast", i)
		}
		if math.IsNaN(*p.Forecast) || math.IsInf(*p.Forecast, 0) {
			t.Errorf("point %d forecast is not finite: %v", i, *p.Forecast)
		}
	}
	// -20/month from 10: Mar=-10, Jun=-70
	if *extended[2].Forecast != -10 {
		t.Errorf("Mar forecast = %v, want -10", *extended[2].Forecast)
	}
	if *extended[5].Forecast != -70 {
		t.Errorf("Jun forecast = %v, want -70", *extended[5].Forecast)
	}
}
