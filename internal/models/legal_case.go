package models

import (
	"time"

	"github.com/lib/pq"
)

// LegalCase represents a court decision stored in the 'legal_cases' table.
type LegalCase struct {
	ID           string         `db:"id" json:"id"`
	CaseNumber   string         `db:"case_number" json:"case_number"`
	Title        string         `db:"title" json:"title"`
	Court        string         `db:"court" json:"court"`
	Jurisdiction string         `db:"jurisdiction" json:"jurisdiction"`
	DecisionDate time.Time      `db:"decision_date" json:"decision_date"`
	Summary      string         `db:"summary" json:"summary"`
	Content      string         `db:"content" json:"content"`
	DocumentURL  *string        `db:"document_url" json:"document_url,omitempty"`
	ImpactLevel  ImpactLevel    `db:"impact_level" json:"impact_level"`
	Keywords     pq.StringArray `db:"keywords" json:"keywords"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
