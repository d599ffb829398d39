// Package syncer coordinates reconciliation across the configured data
// sources and aggregates a per-run summary.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/reconcile"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

// Mode selects how a run treats existing records.
type Mode string

const (
	// ModeIncremental tops jurisdictions up to their desired counts and
	// never deletes anything.
	ModeIncremental Mode = "incremental"
	// ModeRebuild clears each source's jurisdiction first, then
	// repopulates it to exactly the desired count.
	ModeRebuild Mode = "rebuild"
)

// ParseMode validates a mode string. Empty input defaults to incremental.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeIncremental, nil
	case ModeIncremental, ModeRebuild:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown sync mode %q", s)
	}
}

// Per-source outcome statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// SourceResult records the outcome of one source's reconciliation.
type SourceResult struct {
	SourceID        string `json:"source_id"`
	Jurisdiction    string `json:"jurisdiction"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
	RecordsAffected int    `json:"records_affected"`
}

// Summary aggregates one orchestrator run.
type Summary struct {
	RunID        string         `json:"run_id"`
	Success      bool           `json:"success"`
	SuccessCount int            `json:"success_count"`
	TotalSources int            `json:"total_sources"`
	Results      []SourceResult `json:"results"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
}

// UpdateFactory produces the regulatory update recorded after a
// source's reconciliation inserts records.
type UpdateFactory interface {
	NewUpdate(sourceID, region string, seq int) models.RegulatoryUpdate
}

// Orchestrator runs the reconciliation engine once per data source. A
// failing source never aborts the remaining ones; its error is recorded
// in the run summary and iteration continues.
type Orchestrator struct {
	sources       repository.DataSourceRepository
	updates       repository.RegulatoryUpdateRepository
	engine        *reconcile.Engine
	updateFactory UpdateFactory
	jurisdictions map[string]reconcile.Jurisdiction
	logger        *zap.Logger

	// group guarantees at most one in-flight reconciliation per
	// jurisdiction across concurrently triggered runs.
	group   singleflight.Group
	running atomic.Int32

	now func() time.Time
}

func NewOrchestrator(sources repository.DataSourceRepository, updates repository.RegulatoryUpdateRepository, engine *reconcile.Engine, updateFactory UpdateFactory, jurisdictions []reconcile.Jurisdiction, logger *zap.Logger) *Orchestrator {
	byCode := make(map[string]reconcile.Jurisdiction, len(jurisdictions))
	for _, jur := range jurisdictions {
		byCode[jur.Code] = jur
	}
	return &Orchestrator{
		sources:       sources,
		updates:       updates,
		engine:        engine,
		updateFactory: updateFactory,
		jurisdictions: byCode,
		logger:        logger,
		now:           time.Now,
	}
}

// Running reports how many orchestrator runs are currently in flight.
func (o *Orchestrator) Running() int {
	return int(o.running.Load())
}

// SyncAll reconciles every active data source.
func (o *Orchestrator) SyncAll(ctx context.Context, mode Mode) (*Summary, error) {
	active, err := o.sources.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active sources: %w", err)
	}
	return o.syncSources(ctx, active, mode), nil
}

// SyncSource reconciles a single source by id, active or not.
func (o *Orchestrator) SyncSource(ctx context.Context, sourceID string, mode Mode) (*Summary, error) {
	source, err := o.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return o.syncSources(ctx, []*models.DataSource{source}, mode), nil
}

// syncSources runs sources strictly in order: source N+1 does not start
// until source N's result is recorded. Once the context's deadline
// passes, sources not yet started are reported as skipped.
func (o *Orchestrator) syncSources(ctx context.Context, sources []*models.DataSource, mode Mode) *Summary {
	o.running.Add(1)
	defer o.running.Add(-1)

	summary := &Summary{
		RunID:        uuid.NewString(),
		TotalSources: len(sources),
		Results:      make([]SourceResult, 0, len(sources)),
		StartedAt:    o.now(),
	}

	o.logger.Info("Sync run started",
		zap.String("run_id", summary.RunID),
		zap.String("mode", string(mode)),
		zap.Int("sources", len(sources)))

	for _, source := range sources {
		result := SourceResult{SourceID: source.ID, Jurisdiction: source.Jurisdiction}

		if ctx.Err() != nil {
			result.Status = StatusSkipped
			result.Error = ctx.Err().Error()
			summary.Results = append(summary.Results, result)
			continue
		}

		affected, err := o.syncOne(ctx, source, mode)
		result.RecordsAffected = affected
		if err != nil {
			result.Status = StatusError
			result.Error = err.Error()
			summary.Results = append(summary.Results, result)
			o.logger.Error("Source sync failed",
				zap.String("run_id", summary.RunID),
				zap.String("source_id", source.ID),
				zap.Error(err))
			continue
		}

		if affected > 0 {
			o.recordUpdate(ctx, source)
		}

		if err := o.sources.UpdateLastSync(ctx, source.ID, o.now()); err != nil {
			o.logger.Warn("Failed to update last sync time",
				zap.String("source_id", source.ID),
				zap.Error(err))
		}

		result.Status = StatusSuccess
		summary.Results = append(summary.Results, result)
		summary.SuccessCount++
	}

	summary.FinishedAt = o.now()
	summary.Success = summary.SuccessCount == summary.TotalSources

	o.logger.Info("Sync run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("success_count", summary.SuccessCount),
		zap.Int("total_sources", summary.TotalSources))

	return summary
}

func (o *Orchestrator) syncOne(ctx context.Context, source *models.DataSource, mode Mode) (int, error) {
	jur, ok := o.jurisdictions[source.Jurisdiction]
	if !ok {
		return 0, fmt.Errorf("source %s references unknown jurisdiction %q", source.ID, source.Jurisdiction)
	}

	// Single-flight per jurisdiction: two delta computations reading the
	// same stale count would mint colliding ids. The key is the code
	// alone, not code+mode, so a rebuild and an incremental run arriving
	// together share whichever reconciliation started first.
	value, err, _ := o.group.Do(jur.Code, func() (interface{}, error) {
		if mode == ModeRebuild {
			return o.engine.Rebuild(ctx, jur)
		}
		return o.engine.Reconcile(ctx, jur)
	})

	var affected int
	if res, ok := value.(reconcile.Result); ok {
		affected = res.Inserted
	}
	if err != nil {
		return affected, err
	}
	return affected, nil
}

// recordUpdate stores one regulatory update noting the source's
// reconciliation. Updates are never deleted, so the store's total count
// gives a monotone sequence; a collision from a racing run is benign and
// skipped. A failure here never fails the source: the cases are already
// committed.
func (o *Orchestrator) recordUpdate(ctx context.Context, source *models.DataSource) {
	total, err := o.updates.Count(ctx)
	if err != nil {
		o.logger.Warn("Failed to count regulatory updates",
			zap.String("source_id", source.ID),
			zap.Error(err))
		return
	}

	update := o.updateFactory.NewUpdate(source.ID, source.Jurisdiction, total+1)
	if err := o.updates.Create(ctx, &update); err != nil && !errors.Is(err, repository.ErrDuplicateID) {
		o.logger.Warn("Failed to record sync update",
			zap.String("source_id", source.ID),
			zap.String("update_id", update.ID),
			zap.Error(err))
	}
}

// IsNotFound reports whether err means the requested source id does not
// exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
