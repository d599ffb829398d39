package client

import "time"

// LegalCase mirrors the server's legal case representation.
type LegalCase struct {
	ID           string    `json:"id"`
	CaseNumber   string    `json:"case_number"`
	Title        string    `json:"title"`
	Court        string    `json:"court"`
	Jurisdiction string    `json:"jurisdiction"`
	DecisionDate time.Time `json:"decision_date"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	DocumentURL  *string   `json:"document_url,omitempty"`
	ImpactLevel  string    `json:"impact_level"`
	Keywords     []string  `json:"keywords"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegulatoryUpdate mirrors the server's regulatory update representation.
type RegulatoryUpdate struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SourceID      string    `json:"source_id"`
	Region        string    `json:"region"`
	UpdateType    string    `json:"update_type"`
	Priority      string    `json:"priority"`
	DeviceClasses []string  `json:"device_classes"`
	Content       string    `json:"content"`
	PublishedAt   time.Time `json:"published_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// DataSource mirrors the server's data source representation.
type DataSource struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Jurisdiction string     `json:"jurisdiction"`
	IsActive     bool       `json:"is_active"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DataSourcePatch carries a partial data-source update. Nil fields are
// left unchanged by the server.
type DataSourcePatch struct {
	Name         *string `json:"name,omitempty"`
	Jurisdiction *string `json:"jurisdiction,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// SourceResult is one source's outcome within a sync run.
type SourceResult struct {
	SourceID        string `json:"source_id"`
	Jurisdiction    string `json:"jurisdiction"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
	RecordsAffected int    `json:"records_affected"`
}

// SyncSummary is the aggregate result of a sync run.
type SyncSummary struct {
	RunID        string         `json:"run_id"`
	Success      bool           `json:"success"`
	SuccessCount int            `json:"success_count"`
	TotalSources int            `json:"total_sources"`
	Results      []SourceResult `json:"results"`
}

// SyncStats summarizes synchronization state.
type SyncStats struct {
	LastSync      *time.Time `json:"last_sync,omitempty"`
	ActiveSources int        `json:"active_sources"`
	NewUpdates    int        `json:"new_updates"`
	RunningSyncs  int        `json:"running_syncs"`
}

// DashboardStats summarizes store contents.
type DashboardStats struct {
	TotalUpdates      int `json:"total_updates"`
	TotalLegalCases   int `json:"total_legal_cases"`
	TotalDataSources  int `json:"total_data_sources"`
	ActiveDataSources int `json:"active_data_sources"`
	RecentUpdates     int `json:"recent_updates"`
}
