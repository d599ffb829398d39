package models

import "time"

// DataSource represents an external regulatory data provider stored in
// the 'data_sources' table.
type DataSource struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Jurisdiction string     `db:"jurisdiction" json:"jurisdiction"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastSyncAt   *time.Time `db:"last_sync_at" json:"last_sync_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// DataSourcePatch carries the fields of a partial data-source update.
// Nil fields are left unchanged.
type DataSourcePatch struct {
	Name         *string `json:"name,omitempty"`
	Jurisdiction *string `json:"jurisdiction,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
