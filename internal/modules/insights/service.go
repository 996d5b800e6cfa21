package insights

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/events"
	"github.com/valyxo/valyxo/internal/modules/series"
	"github.com/valyxo/valyxo/pkg/formulas"
)

// SeriesSource supplies the observed metric history a summary is built from.
type SeriesSource interface {
	DenseSeries(companyID, metric string) ([]series.ChartPoint, error)
}

// Generator produces narrative lines from metric summaries.
type Generator interface {
	Generate(ctx context.Context, companyID string, summaries []MetricSummary) ([]string, error)
}

// Service generates and stores insights for companies
type Service struct {
	repo      *Repository
	source    SeriesSource
	generator Generator
	eventBus  *events.Bus
	log       zerolog.Logger
}

// NewService creates a new insight service
func NewService(repo *Repository, source SeriesSource, generator Generator, eventBus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		source:    source,
		generator: generator,
		eventBus:  eventBus,
		log:       log.With().Str("service", "insights").Logger(),
	}
}

// ListByCompany returns the stored insights for a company, newest first.
func (s *Service) ListByCompany(companyID string, limit int) ([]Insight, error) {
	return s.repo.ListByCompany(companyID, limit)
}

// GenerateForCompany builds metric summaries from the company's KPI history,
// asks the generator for narrative lines, and replaces the stored set.
// Companies with no usable history get their stored insights cleared rather
// than a generator call about nothing.
func (s *Service) GenerateForCompany(ctx context.Context, companyID string) ([]Insight, error) {
	summaries, err := s.buildSummaries(companyID)
	if err != nil {
		return nil, err
	}

	if len(summaries) == 0 {
		s.log.Debug().Str("company_id", companyID).Msg("No metric history, clearing insights")
		return s.repo.ReplaceForCompany(companyID, nil)
	}

	lines, err := s.generator.Generate(ctx, companyID, summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights for %s: %w", companyID, err)
	}
	if len(lines) > maxInsightsPerRun {
		lines = lines[:maxInsightsPerRun]
	}

	stored, err := s.repo.ReplaceForCompany(companyID, lines)
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(events.InsightsGenerated, events.InsightsGeneratedData{
			CompanyID: companyID,
			Count:     len(stored),
		})
	}

	s.log.Info().
		Str("company_id", companyID).
		Int("count", len(stored)).
		Msg("Generated insights")

	return stored, nil
}

// buildSummaries digests each known metric's observed series into the compact
// form the generator consumes. Metrics with no observed values are omitted.
func (s *Service) buildSummaries(companyID string) ([]MetricSummary, error) {
	var summaries []MetricSummary
	for _, def := range series.Definitions() {
		points, err := s.source.DenseSeries(companyID, def.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build series for %s: %w", def.Name, err)
		}

		if summary, ok := summarize(def.Name, points); ok {
			summaries = append(summaries, summary)
		}
	}
	return summaries, nil
}

// summarize reduces one observed series to its latest value, month-over-month
// change, and trend slope. ok is false when the series has no observed values.
func summarize(metric string, points []series.ChartPoint) (MetricSummary, bool) {
	var (
		xs, ys   []float64
		latest   *float64
		previous *float64
	)

	for i, p := range points {
		if p.Value == nil {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, *p.Value)
		previous = latest
		latest = p.Value
	}

	if latest == nil {
		return MetricSummary{}, false
	}

	summary := MetricSummary{
		Metric:      metric,
		Latest:      latest,
		MonthsKnown: len(ys),
	}

	if previous != nil {
		change := formulas.PercentChange(*previous, *latest)
		summary.MoMChange = &change
	}
	if len(ys) >= 2 {
		slope := formulas.TrendSlope(xs, ys)
		summary.TrendSlope = &slope
	}

	return summary, true
}
