package insights

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository handles insight database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new insight repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "insights").Logger(),
	}
}

// ListByCompany returns the most recent insights for a company, newest first.
func (r *Repository) ListByCompany(companyID string, limit int) ([]Insight, error) {
	if limit <= 0 {
		limit = maxInsightsPerRun
	}

	query := `
		SELECT id, company_id, body, created_at
		FROM insights
		WHERE company_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	var out []Insight
	for rows.Next() {
		var insight Insight
		var createdAt string
		if err := rows.Scan(&insight.ID, &insight.CompanyID, &insight.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			insight.CreatedAt = ts
		}
		out = append(out, insight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insights: %w", err)
	}

	return out, nil
}

// ReplaceForCompany deletes a company's stored insights and writes the new
// set in one transaction, so readers never see a half-replaced list.
func (r *Repository) ReplaceForCompany(companyID string, bodies []string) ([]Insight, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM insights WHERE company_id = ?", companyID); err != nil {
		return nil, fmt.Errorf("failed to clear insights: %w", err)
	}

	now := time.Now()
	stored := make([]Insight, 0, len(bodies))
	for _, body := range bodies {
		insight := Insight{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Body:      body,
			CreatedAt: now,
		}

		_, err := tx.Exec(
			"INSERT INTO insights (id, company_id, body, created_at) VALUES (?, ?, ?, ?)",
			insight.ID, insight.CompanyID, insight.Body, insight.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert insight: %w", err)
		}
		stored = append(stored, insight)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit insights: %w", err)
	}

	return stored, nil
}
