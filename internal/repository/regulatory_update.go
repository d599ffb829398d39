package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
)

type RegulatoryUpdateRepository interface {
	GetAll(ctx context.Context) ([]*models.RegulatoryUpdate, error)
	GetRecent(ctx context.Context, limit int) ([]*models.RegulatoryUpdate, error)
	GetByID(ctx context.Context, id string) (*models.RegulatoryUpdate, error)
	Create(ctx context.Context, update *models.RegulatoryUpdate) error
	Count(ctx context.Context) (int, error)
	CountPublishedSince(ctx context.Context, since time.Time) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type regulatoryUpdateRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRegulatoryUpdateRepository(db *sqlx.DB, logger *zap.Logger) RegulatoryUpdateRepository {
	return &regulatoryUpdateRepository{db: db, logger: logger}
}

const regulatoryUpdateColumns = `id, title, description, source_id, region, update_type, priority, device_classes, content, published_at, created_at`

func (r *regulatoryUpdateRepository) GetAll(ctx context.Context) ([]*models.RegulatoryUpdate, error) {
	var updates []*models.RegulatoryUpdate
	query := `SELECT ` + regulatoryUpdateColumns + ` FROM regulatory_updates ORDER BY published_at DESC`
	if err := r.db.SelectContext(ctx, &updates, query); err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *regulatoryUpdateRepository) GetRecent(ctx context.Context, limit int) ([]*models.RegulatoryUpdate, error) {
	var updates []*models.RegulatoryUpdate
	query := `SELECT ` + regulatoryUpdateColumns + ` FROM regulatory_updates ORDER BY published_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &updates, query, limit); err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *regulatoryUpdateRepository) GetByID(ctx context.Context, id string) (*models.RegulatoryUpdate, error) {
	var update models.RegulatoryUpdate
	query := `SELECT ` + regulatoryUpdateColumns + ` FROM regulatory_updates WHERE id = $1`
	err := r.db.GetContext(ctx, &update, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &update, nil
}

func (r *regulatoryUpdateRepository) Create(ctx context.Context, update *models.RegulatoryUpdate) error {
	query := `INSERT INTO regulatory_updates (id, title, description, source_id, region, update_type, priority, device_classes, content, published_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING ` + regulatoryUpdateColumns
	err := r.db.QueryRowxContext(ctx, query,
		update.ID, update.Title, update.Description, update.SourceID, update.Region,
		update.UpdateType, update.Priority, update.DeviceClasses, update.Content, update.PublishedAt,
	).StructScan(update)
	return translateCreateError(err)
}

func (r *regulatoryUpdateRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM regulatory_updates`)
	return count, err
}

func (r *regulatoryUpdateRepository) CountPublishedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM regulatory_updates WHERE published_at > $1`, since)
	return count, err
}

func (r *regulatoryUpdateRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM regulatory_updates WHERE created_at > $1`, since)
	return count, err
}
