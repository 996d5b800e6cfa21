package series

// ChartDataPoint is the point shape the dashboard's dual-series chart
// renders: an observed line over value and a forecast line over
// valueForecast.
type ChartDataPoint struct {
	Month         string   `json:"month"`
	Value         *float64 `json:"value"`
	ValueForecast *float64 `json:"valueForecast,omitempty"`
}

// ToChartData reshapes a dense (possibly forecast-extended) series for the
// chart renderer. The last observed point doubles as the first forecast
// point: its value is copied onto valueForecast so the two line segments
// join without a gap. With no observed points at all the chart renders
// empty; no forecast is surfaced either.
func ToChartData(series []ChartPoint) []ChartDataPoint {
	if len(series) == 0 {
		return nil
	}

	anchorIdx := lastObservedIndex(series)

	out := make([]ChartDataPoint, 0, len(series))
	for i, p := range series {
		point := ChartDataPoint{
			Month: p.Label,
			Value: p.Value,
		}

		switch {
		case anchorIdx < 0:
			// No anchor: observed-only nils, no forecast line.
		case i == anchorIdx:
			point.ValueForecast = p.Value
		case i > anchorIdx:
			point.ValueForecast = p.Forecast
		}

		out = append(out, point)
	}

	return out
}
