package models

import (
	"time"

	"github.com/lib/pq"
)

// RegulatoryUpdate represents a published regulatory change stored in the
// 'regulatory_updates' table.
type RegulatoryUpdate struct {
	ID            string         `db:"id" json:"id"`
	Title         string         `db:"title" json:"title"`
	Description   string         `db:"description" json:"description"`
	SourceID      string         `db:"source_id" json:"source_id"`
	Region        string         `db:"region" json:"region"`
	UpdateType    string         `db:"update_type" json:"update_type"` // "regulation", "guidance", "clearance"
	Priority      Priority       `db:"priority" json:"priority"`
	DeviceClasses pq.StringArray `db:"device_classes" json:"device_classes"`
	Content       string         `db:"content" json:"content"`
	PublishedAt   time.Time      `db:"published_at" json:"published_at"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
