// Package series implements the KPI time-series pipeline: metric extraction
// from open-ended snapshot key bags, dense month-aligned series building,
// forward projection, and the chart adapter consumed by the dashboard.
package series

import "math"

// MetricDefinition describes one canonical metric: the accepted legacy key
// spellings and the display rules applied when building its series.
type MetricDefinition struct {
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases,omitempty"`
	Percent       bool     `json:"percent"`
	AllowNegative bool     `json:"allow_negative"`
}

// metricDefinitions is the enumerated alias table. Historical snapshot rows
// used renamed keys for the same concept; new aliases are added here, never
// resolved dynamically.
var metricDefinitions = []MetricDefinition{
	{Name: "mrr", AllowNegative: false},
	{Name: "arr", AllowNegative: false},
	{Name: "mrr_growth_mom", Aliases: []string{"growth_percent"}, Percent: true, AllowNegative: true},
	{Name: "churn", Aliases: []string{"customer_churn_rate"}, Percent: true, AllowNegative: false},
	{Name: "nrr", Aliases: []string{"net_revenue_retention"}, Percent: true, AllowNegative: false},
	{Name: "burn_rate", AllowNegative: true},
	{Name: "runway_months", AllowNegative: false},
	{Name: "active_customers", Aliases: []string{"customers"}, AllowNegative: false},
	{Name: "cac", AllowNegative: false},
}

var definitionsByName = func() map[string]MetricDefinition {
	m := make(map[string]MetricDefinition, len(metricDefinitions))
	for _, def := range metricDefinitions {
		m[def.Name] = def
	}
	return m
}()

// Definitions returns all known metric definitions in declaration order.
func Definitions() []MetricDefinition {
	out := make([]MetricDefinition, len(metricDefinitions))
	copy(out, metricDefinitions)
	return out
}

// DefinitionFor returns the definition for a canonical metric name. Unknown
// metrics get a permissive default so ad hoc keys still chart: no aliases,
// no percent scaling, negatives allowed.
func DefinitionFor(name string) MetricDefinition {
	if def, ok := definitionsByName[name]; ok {
		return def
	}
	return MetricDefinition{Name: name, AllowNegative: true}
}

// ExtractMetric resolves a canonical metric value from a snapshot's kpis
// mapping. The canonical key is tried first, then the known legacy aliases.
// A missing metric or a non-finite value yields nil, never an error: one
// sparse snapshot must not halt series processing.
func ExtractMetric(kpis map[string]*float64, metric string) *float64 {
	if len(kpis) == 0 {
		return nil
	}

	keys := append([]string{metric}, DefinitionFor(metric).Aliases...)
	for _, key := range keys {
		v, ok := kpis[key]
		if !ok || v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		value := *v
		return &value
	}

	return nil
}
