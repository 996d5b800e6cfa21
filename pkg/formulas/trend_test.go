package formulas

import (
	"math"
	"testing"
)

func TestTrendSlope(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
		want float64
	}{
		{
			name: "perfect linear trend",
			x:    []float64{0, 1, 2, 3},
			y:    []float64{100, 110, 120, 130},
			want: 10,
		},
		{
			name: "two points with a gap in x",
			x:    []float64{0, 2},
			y:    []float64{1000, 1200},
			want: 100,
		},
		{
			name: "flat series",
			x:    []float64{0, 1, 2},
			y:    []float64{50, 50, 50},
			want: 0,
		},
		{
			name: "declining trend",
			x:    []float64{0, 1, 2},
			y:    []float64{30, 20, 10},
			want: -10,
		},
		{
			name: "single point",
			x:    []float64{0},
			y:    []float64{42},
			want: 0,
		},
		{
			name: "empty input",
			x:    []float64{},
			y:    []float64{},
			want: 0,
		},
		{
			name: "all x identical",
			x:    []float64{3, 3, 3},
			y:    []float64{1, 2, 3},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendSlope(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TrendSlope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		want     float64
	}{
		{"growth", 100, 125, 25},
		{"decline", 200, 150, -25},
		{"zero previous", 0, 50, 0},
		{"negative previous", -100, -50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.previous, tt.current)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.previous, tt.current, got, tt.want)
			}
		})
	}
}

func TestMeanEmpty(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}
