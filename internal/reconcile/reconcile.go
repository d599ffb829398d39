// Package reconcile computes and applies the writes needed to bring a
// jurisdiction's stored case count up to a desired target.
package reconcile

import (
	"errors"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
)

// Jurisdiction describes one legal jurisdiction the engine reconciles:
// its short code, display name, issuing court, and the target number of
// cases the store should hold for it.
type Jurisdiction struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Court   string `json:"court"`
	Desired int    `json:"desired"`
}

// CaseFactory produces the legal case for a given jurisdiction and
// sequence number. Implementations must be deterministic: the same
// (jurisdiction, seq) pair always yields the same record, so a rerun
// from the same store state writes identical data.
type CaseFactory interface {
	NewCase(jur Jurisdiction, seq int) models.LegalCase
}

var (
	// ErrInvalidJurisdiction is returned when a jurisdiction spec is missing
	// its code or court.
	ErrInvalidJurisdiction = errors.New("reconcile: jurisdiction code and court are required")

	// ErrNegativeDesired is returned when the desired count is below zero.
	ErrNegativeDesired = errors.New("reconcile: desired count must be >= 0")
)

// Result reports what a reconciliation run did. Inserted is valid even
// when the run failed partway through: it counts the records committed
// before the failure.
type Result struct {
	Jurisdiction string `json:"jurisdiction"`
	Existing     int    `json:"existing"`
	Inserted     int    `json:"inserted"`
	Deleted      int    `json:"deleted,omitempty"`
}
