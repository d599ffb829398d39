package models

import "time"

// DashboardStats summarizes store contents for the dashboard header.
type DashboardStats struct {
	TotalUpdates      int `json:"total_updates"`
	TotalLegalCases   int `json:"total_legal_cases"`
	TotalDataSources  int `json:"total_data_sources"`
	ActiveDataSources int `json:"active_data_sources"`
	RecentUpdates     int `json:"recent_updates"` // published within the last 30 days
}

// SyncStats summarizes synchronization state for the sync panel.
type SyncStats struct {
	LastSync      *time.Time `json:"last_sync,omitempty"`
	ActiveSources int        `json:"active_sources"`
	NewUpdates    int        `json:"new_updates"` // created within the last 24 hours
	RunningSyncs  int        `json:"running_syncs"`
}

// HealthReport describes overall store health for the admin endpoint.
type HealthReport struct {
	LegalCases        int       `json:"legal_cases"`
	RegulatoryUpdates int       `json:"regulatory_updates"`
	ActiveDataSources int       `json:"active_data_sources"`
	Status            string    `json:"status"` // "degraded", "healthy", "optimal"
	Timestamp         time.Time `json:"timestamp"`
}
