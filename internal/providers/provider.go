// Package providers contains the upstream sources KPI snapshot rows are
// pulled from. Each provider turns one external system's data into snapshot
// rows keyed by company and period.
package providers

import (
	"context"

	"github.com/valyxo/valyxo/internal/modules/snapshots"
)

// Provider fetches KPI snapshot rows for one company from an upstream source.
type Provider interface {
	// Name identifies the provider in logs and events.
	Name() string

	// FetchSnapshots returns all snapshot rows the source has for a company.
	FetchSnapshots(ctx context.Context, companyID string) ([]snapshots.Snapshot, error)
}
