// Package insights generates and stores short narrative insights about a
// company's KPI history. The text itself comes from an external generator
// service; this module owns the metric summaries sent to it and the
// persistence of what comes back.
package insights

import "time"

// Insight is one stored narrative line for a company.
type Insight struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricSummary is the compact per-metric digest sent to the generator.
type MetricSummary struct {
	Metric      string   `json:"metric"`
	Latest      *float64 `json:"latest"`
	MoMChange   *float64 `json:"mom_change_percent,omitempty"`
	TrendSlope  *float64 `json:"trend_slope,omitempty"`
	MonthsKnown int      `json:"months_known"`
}

// maxInsightsPerRun caps how many lines from one generator response are kept.
const maxInsightsPerRun = 3
