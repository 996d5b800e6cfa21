package events

// SnapshotsRefreshedData contains data for SnapshotsRefreshed events
type SnapshotsRefreshedData struct {
	CompanyID string `json:"company_id"`
	RowCount  int    `json:"row_count"`
	Provider  string `json:"provider"`
}

// InsightsGeneratedData contains data for InsightsGenerated events
type InsightsGeneratedData struct {
	CompanyID string `json:"company_id"`
	Count     int    `json:"count"`
}
