// Package agent contains the scheduled jobs that keep snapshot data and
// insights current without manual intervention.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/events"
	"github.com/valyxo/valyxo/internal/modules/snapshots"
	"github.com/valyxo/valyxo/internal/providers"
	"github.com/valyxo/valyxo/pkg/metrics"
)

// refreshTimeout bounds one full refresh sweep across all companies.
const refreshTimeout = 5 * time.Minute

// SnapshotStore is the slice of the snapshot repository the refresh needs.
type SnapshotStore interface {
	Upsert(row snapshots.Snapshot) error
	ListCompanies() ([]string, error)
}

// RefreshJob pulls fresh snapshot rows from the provider for every tracked
// company and upserts them into the local store.
type RefreshJob struct {
	store      SnapshotStore
	provider   providers.Provider
	eventBus   *events.Bus
	companyIDs []string
	log        zerolog.Logger
}

// NewRefreshJob creates a new snapshot refresh job. companyIDs may be empty,
// in which case the sweep covers every company already present in the store.
func NewRefreshJob(store SnapshotStore, provider providers.Provider, eventBus *events.Bus, companyIDs []string, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		store:      store,
		provider:   provider,
		eventBus:   eventBus,
		companyIDs: companyIDs,
		log:        log.With().Str("job", "snapshot_refresh").Logger(),
	}
}

// Run sweeps all tracked companies. A failure for one company is logged and
// counted but does not stop the sweep; the job only errors when every
// company failed or the company list itself could not be resolved.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	companies, err := j.resolveCompanies()
	if err != nil {
		metrics.RefreshRuns.WithLabelValues("error").Inc()
		return err
	}
	if len(companies) == 0 {
		j.log.Debug().Msg("No companies to refresh")
		metrics.RefreshRuns.WithLabelValues("empty").Inc()
		return nil
	}

	var failed int
	for _, companyID := range companies {
		if err := j.refreshCompany(ctx, companyID); err != nil {
			failed++
			j.log.Error().Err(err).Str("company_id", companyID).Msg("Failed to refresh company")
		}
	}

	if failed == len(companies) {
		metrics.RefreshRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh failed for all %d companies", failed)
	}

	if failed > 0 {
		metrics.RefreshRuns.WithLabelValues("partial").Inc()
	} else {
		metrics.RefreshRuns.WithLabelValues("success").Inc()
	}

	j.log.Info().
		Int("companies", len(companies)).
		Int("failed", failed).
		Msg("Snapshot refresh completed")

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *RefreshJob) Name() string {
	return "snapshot_refresh"
}

// resolveCompanies returns the configured company list, falling back to the
// companies already present in the store.
func (j *RefreshJob) resolveCompanies() ([]string, error) {
	if len(j.companyIDs) > 0 {
		return j.companyIDs, nil
	}

	companies, err := j.store.ListCompanies()
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (j *RefreshJob) refreshCompany(ctx context.Context, companyID string) error {
	rows, err := j.provider.FetchSnapshots(ctx, companyID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := j.store.Upsert(row); err != nil {
			return fmt.Errorf("failed to store snapshot for %s: %w", companyID, err)
		}
	}

	if j.eventBus != nil {
		j.eventBus.Publish(events.SnapshotsRefreshed, events.SnapshotsRefreshedData{
			CompanyID: companyID,
			RowCount:  len(rows),
			Provider:  j.provider.Name(),
		})
	}

	j.log.Debug().
		Str("company_id", companyID).
		Int("rows", len(rows)).
		Msg("Refreshed company snapshots")

	return nil
}
