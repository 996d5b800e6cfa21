package database

// schemaStatements is executed in order by Migrate. Every statement must be
// idempotent (IF NOT EXISTS) so restarts are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS kpi_snapshots (
		company_id  TEXT NOT NULL,
		period_date TEXT NOT NULL,
		kpis        TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		PRIMARY KEY (company_id, period_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_company ON kpi_snapshots(company_id)`,

	`CREATE TABLE IF NOT EXISTS insights (
		id         TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insights_company ON insights(company_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS connector_rows (
		company_id TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_connector_rows_expires ON connector_rows(expires_at)`,

	`CREATE TABLE IF NOT EXISTS insight_payloads (
		company_id TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_insight_payloads_expires ON insight_payloads(expires_at)`,
}
