package clientcache

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Connector rows back the agent refresh sweep; a short TTL keeps the
	// dashboard close to the source without hammering connectors.
	TTLConnectorRows = time.Hour

	// Narrative insights change at most daily.
	TTLInsightPayload = 24 * time.Hour
)

// Table names matching the schema in internal/database.
const (
	TableConnectorRows   = "connector_rows"
	TableInsightPayloads = "insight_payloads"
)
