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

type DataSourceRepository interface {
	GetAll(ctx context.Context) ([]*models.DataSource, error)
	GetActive(ctx context.Context) ([]*models.DataSource, error)
	GetByID(ctx context.Context, id string) (*models.DataSource, error)
	Create(ctx context.Context, source *models.DataSource) error
	Update(ctx context.Context, id string, patch models.DataSourcePatch) (*models.DataSource, error)
	UpdateLastSync(ctx context.Context, id string, syncedAt time.Time) error
}

type dataSourceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDataSourceRepository(db *sqlx.DB, logger *zap.Logger) DataSourceRepository {
	return &dataSourceRepository{db: db, logger: logger}
}

const dataSourceColumns = `id, name, jurisdiction, is_active, last_sync_at, created_at`

func (r *dataSourceRepository) GetAll(ctx context.Context) ([]*models.DataSource, error) {
	var sources []*models.DataSource
	query := `SELECT ` + dataSourceColumns + ` FROM data_sources ORDER BY id`
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *dataSourceRepository) GetActive(ctx context.Context) ([]*models.DataSource, error) {
	var sources []*models.DataSource
	query := `SELECT ` + dataSourceColumns + ` FROM data_sources WHERE is_active = TRUE ORDER BY id`
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *dataSourceRepository) GetByID(ctx context.Context, id string) (*models.DataSource, error) {
	var source models.DataSource
	query := `SELECT ` + dataSourceColumns + ` FROM data_sources WHERE id = $1`
	err := r.db.GetContext(ctx, &source, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}

func (r *dataSourceRepository) Create(ctx context.Context, source *models.DataSource) error {
	query := `INSERT INTO data_sources (id, name, jurisdiction, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + dataSourceColumns
	err := r.db.QueryRowxContext(ctx, query,
		source.ID, source.Name, source.Jurisdiction, source.IsActive,
	).StructScan(source)
	return translateCreateError(err)
}

func (r *dataSourceRepository) Update(ctx context.Context, id string, patch models.DataSourcePatch) (*models.DataSource, error) {
	var source models.DataSource
	query := `UPDATE data_sources SET
	            name = COALESCE($2, name),
	            jurisdiction = COALESCE($3, jurisdiction),
	            is_active = COALESCE($4, is_active)
	          WHERE id = $1
	          RETURNING ` + dataSourceColumns
	err := r.db.QueryRowxContext(ctx, query, id, patch.Name, patch.Jurisdiction, patch.IsActive).StructScan(&source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}

// UpdateLastSync advances the source's last-sync timestamp. GREATEST keeps
// the column monotonically non-decreasing even if runs complete out of order.
func (r *dataSourceRepository) UpdateLastSync(ctx context.Context, id string, syncedAt time.Time) error {
	query := `UPDATE data_sources SET last_sync_at = GREATEST(COALESCE(last_sync_at, 'epoch'::timestamptz), $2) WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, syncedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
