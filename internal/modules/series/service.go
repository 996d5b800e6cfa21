package series

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/modules/snapshots"
	"github.com/valyxo/valyxo/pkg/metrics"
)

// SnapshotSource supplies the snapshot rows a series is built from.
type SnapshotSource interface {
	ListByCompany(companyID string) ([]snapshots.Snapshot, error)
}

// Service orchestrates the full pipeline for one chart request: fetch rows,
// build the dense series, extend with the forecast, adapt for the renderer.
// Each call is independent and idempotent; the service holds no per-request
// state.
type Service struct {
	source SnapshotSource
	log    zerolog.Logger
}

// NewService creates a new series service
func NewService(source SnapshotSource, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "series").Logger(),
	}
}

// BuildChart returns chart-ready points for one (company, metric) pair,
// with monthsAhead forecast months appended. The only error surface is the
// snapshot fetch; the pipeline itself degrades to empty output.
func (s *Service) BuildChart(companyID, metric string, monthsAhead int) ([]ChartDataPoint, error) {
	rows, err := s.source.ListByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots for %s: %w", companyID, err)
	}

	def := DefinitionFor(metric)
	dense := BuildDenseSeries(rows, metric, def.BuildOptions())
	extended := ExtendWithForecast(dense, monthsAhead)

	metrics.SeriesBuilds.WithLabelValues(metric).Inc()

	s.log.Debug().
		Str("company_id", companyID).
		Str("metric", metric).
		Int("observed_points", len(dense)).
		Int("months_ahead", monthsAhead).
		Msg("Built chart series")

	return ToChartData(extended), nil
}

// DenseSeries returns the observed (non-extended) series for one metric.
// Used by the insight summaries, which look at history only.
func (s *Service) DenseSeries(companyID, metric string) ([]ChartPoint, error) {
	rows, err := s.source.ListByCompany(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots for %s: %w", companyID, err)
	}

	def := DefinitionFor(metric)
	return BuildDenseSeries(rows, metric, def.BuildOptions()), nil
}
