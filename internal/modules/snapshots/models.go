// Package snapshots provides storage for per-company KPI snapshot rows.
package snapshots

import "time"

// Snapshot is one persisted KPI observation for a company at a period.
// KPI keys are open-ended: historical rows may use renamed keys for the same
// concept (e.g. both "churn" and "customer_churn_rate"). Resolution of keys
// to canonical metrics happens in the series module, not here.
type Snapshot struct {
	CompanyID  string
	PeriodDate time.Time
	KPIs       map[string]*float64
	CreatedAt  time.Time
}

// PeriodLayout is the storage and wire format for period dates.
const PeriodLayout = "2006-01-02"
