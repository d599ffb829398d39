package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
)

type LegalCaseRepository interface {
	GetAll(ctx context.Context) ([]*models.LegalCase, error)
	GetByID(ctx context.Context, id string) (*models.LegalCase, error)
	GetByJurisdiction(ctx context.Context, jurisdiction string) ([]*models.LegalCase, error)
	Create(ctx context.Context, legalCase *models.LegalCase) error
	Count(ctx context.Context) (int, error)
	CountByJurisdiction(ctx context.Context, jurisdiction string) (int, error)
	MaxSequence(ctx context.Context, jurisdiction string) (int, error)
	DeleteByJurisdiction(ctx context.Context, jurisdiction string) (int, error)
}

type legalCaseRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLegalCaseRepository(db *sqlx.DB, logger *zap.Logger) LegalCaseRepository {
	return &legalCaseRepository{db: db, logger: logger}
}

const legalCaseColumns = `id, case_number, title, court, jurisdiction, decision_date, summary, content, document_url, impact_level, keywords, created_at, updated_at`

func (r *legalCaseRepository) GetAll(ctx context.Context) ([]*models.LegalCase, error) {
	var cases []*models.LegalCase
	query := `SELECT ` + legalCaseColumns + ` FROM legal_cases ORDER BY decision_date DESC`
	if err := r.db.SelectContext(ctx, &cases, query); err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *legalCaseRepository) GetByID(ctx context.Context, id string) (*models.LegalCase, error) {
	var legalCase models.LegalCase
	query := `SELECT ` + legalCaseColumns + ` FROM legal_cases WHERE id = $1`
	err := r.db.GetContext(ctx, &legalCase, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &legalCase, nil
}

func (r *legalCaseRepository) GetByJurisdiction(ctx context.Context, jurisdiction string) ([]*models.LegalCase, error) {
	var cases []*models.LegalCase
	query := `SELECT ` + legalCaseColumns + ` FROM legal_cases WHERE jurisdiction = $1 ORDER BY decision_date DESC`
	if err := r.db.SelectContext(ctx, &cases, query, jurisdiction); err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *legalCaseRepository) Create(ctx context.Context, legalCase *models.LegalCase) error {
	query := `INSERT INTO legal_cases (id, case_number, title, court, jurisdiction, decision_date, summary, content, document_url, impact_level, keywords)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING ` + legalCaseColumns
	err := r.db.QueryRowxContext(ctx, query,
		legalCase.ID, legalCase.CaseNumber, legalCase.Title, legalCase.Court,
		legalCase.Jurisdiction, legalCase.DecisionDate, legalCase.Summary, legalCase.Content,
		legalCase.DocumentURL, legalCase.ImpactLevel, legalCase.Keywords,
	).StructScan(legalCase)
	return translateCreateError(err)
}

func (r *legalCaseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM legal_cases`)
	return count, err
}

func (r *legalCaseRepository) CountByJurisdiction(ctx context.Context, jurisdiction string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM legal_cases WHERE jurisdiction = $1`, jurisdiction)
	return count, err
}

// MaxSequence returns the highest numeric suffix among the jurisdiction's
// case ids (ids follow the "{code}-case-{seq}" scheme), or 0 when none exist.
func (r *legalCaseRepository) MaxSequence(ctx context.Context, jurisdiction string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(NULLIF(substring(id from '[0-9]+$'), '')::int), 0) FROM legal_cases WHERE jurisdiction = $1`
	err := r.db.GetContext(ctx, &max, query, jurisdiction)
	return max, err
}

func (r *legalCaseRepository) DeleteByJurisdiction(ctx context.Context, jurisdiction string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM legal_cases WHERE jurisdiction = $1`, jurisdiction)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	return int(deleted), err
}
