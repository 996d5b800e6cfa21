package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/modules/insights"
	"github.com/valyxo/valyxo/pkg/metrics"
)

// insightsTimeout bounds one full generation sweep across all companies.
// Generator calls are slow, so this is generous.
const insightsTimeout = 10 * time.Minute

// InsightGenerator is the slice of the insight service the job needs.
type InsightGenerator interface {
	GenerateForCompany(ctx context.Context, companyID string) ([]insights.Insight, error)
}

// CompanyLister resolves which companies the sweep covers.
type CompanyLister interface {
	ListCompanies() ([]string, error)
}

// InsightsJob regenerates narrative insights for every tracked company.
// Scheduled nightly, after the refresh sweeps have settled.
type InsightsJob struct {
	generator  InsightGenerator
	lister     CompanyLister
	companyIDs []string
	log        zerolog.Logger
}

// NewInsightsJob creates a new insight generation job. companyIDs may be
// empty, in which case the sweep covers every company in the store.
func NewInsightsJob(generator InsightGenerator, lister CompanyLister, companyIDs []string, log zerolog.Logger) *InsightsJob {
	return &InsightsJob{
		generator:  generator,
		lister:     lister,
		companyIDs: companyIDs,
		log:        log.With().Str("job", "insight_generation").Logger(),
	}
}

// Run regenerates insights for all tracked companies. Per-company failures
// are logged and counted but do not stop the sweep.
func (j *InsightsJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), insightsTimeout)
	defer cancel()

	companies := j.companyIDs
	if len(companies) == 0 {
		var err error
		companies, err = j.lister.ListCompanies()
		if err != nil {
			metrics.InsightGenerations.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to list companies: %w", err)
		}
	}
	if len(companies) == 0 {
		j.log.Debug().Msg("No companies to generate insights for")
		return nil
	}

	var failed int
	for _, companyID := range companies {
		if _, err := j.generator.GenerateForCompany(ctx, companyID); err != nil {
			failed++
			metrics.InsightGenerations.WithLabelValues("error").Inc()
			j.log.Error().Err(err).Str("company_id", companyID).Msg("Failed to generate insights")
			continue
		}
		metrics.InsightGenerations.WithLabelValues("success").Inc()
	}

	if failed == len(companies) {
		return fmt.Errorf("insight generation failed for all %d companies", failed)
	}

	j.log.Info().
		Int("companies", len(companies)).
		Int("failed", failed).
		Msg("Insight generation completed")

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *InsightsJob) Name() string {
	return "insight_generation"
}
