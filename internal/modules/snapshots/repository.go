package snapshots

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles snapshot database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// ListByCompany returns all snapshot rows for a company ordered by period
// date ascending. A company with no rows yields an empty slice, not an error.
func (r *Repository) ListByCompany(companyID string) ([]Snapshot, error) {
	query := `
		SELECT company_id, period_date, kpis, created_at
		FROM kpi_snapshots
		WHERE company_id = ?
		ORDER BY period_date ASC
	`

	rows, err := r.db.Query(query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		snapshot, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// ListCompanies returns the distinct company IDs with at least one snapshot.
func (r *Repository) ListCompanies() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT company_id FROM kpi_snapshots ORDER BY company_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		companies = append(companies, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return companies, nil
}

// Upsert writes a snapshot row, replacing any existing row for the same
// (company, period). Last write wins, matching the ingestion contract.
func (r *Repository) Upsert(snapshot Snapshot) error {
	kpisJSON, err := json.Marshal(snapshot.KPIs)
	if err != nil {
		return fmt.Errorf("failed to marshal kpis: %w", err)
	}

	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT OR REPLACE INTO kpi_snapshots (company_id, period_date, kpis, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		snapshot.CompanyID,
		snapshot.PeriodDate.Format(PeriodLayout),
		string(kpisJSON),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// Delete removes the snapshot row for a (company, period). Deleting a
// missing row is not an error.
func (r *Repository) Delete(companyID string, periodDate time.Time) error {
	query := "DELETE FROM kpi_snapshots WHERE company_id = ? AND period_date = ?"

	_, err := r.db.Exec(query, companyID, periodDate.Format(PeriodLayout))
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

// scanSnapshot scans a single snapshot row. Rows with an unparseable kpis
// blob are returned with empty KPIs rather than failing the whole listing.
func (r *Repository) scanSnapshot(rows *sql.Rows) (Snapshot, error) {
	var snapshot Snapshot
	var periodDate, kpisJSON, createdAt string

	if err := rows.Scan(&snapshot.CompanyID, &periodDate, &kpisJSON, &createdAt); err != nil {
		return Snapshot{}, err
	}

	parsed, err := time.Parse(PeriodLayout, periodDate)
	if err != nil {
		return Snapshot{}, fmt.Errorf("invalid period_date %q: %w", periodDate, err)
	}
	snapshot.PeriodDate = parsed

	if err := json.Unmarshal([]byte(kpisJSON), &snapshot.KPIs); err != nil {
		r.log.Warn().
			Str("company_id", snapshot.CompanyID).
			Str("period_date", periodDate).
			Err(err).
			Msg("Unparseable kpis blob, treating as empty")
		snapshot.KPIs = map[string]*float64{}
	}

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		snapshot.CreatedAt = ts
	}

	return snapshot, nil
}
