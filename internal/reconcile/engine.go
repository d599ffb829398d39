package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

// Engine tops a jurisdiction's stored cases up to a desired count. It is
// additive only: existing records are never mutated or deleted except by
// an explicit Rebuild.
type Engine struct {
	cases   repository.LegalCaseRepository
	factory CaseFactory
	logger  *zap.Logger
}

func NewEngine(cases repository.LegalCaseRepository, factory CaseFactory, logger *zap.Logger) *Engine {
	return &Engine{cases: cases, factory: factory, logger: logger}
}

// Reconcile inserts exactly max(0, jur.Desired - current) cases for the
// jurisdiction, continuing the id sequence from the store's current
// maximum so ids never collide or get reused. When the store fails
// mid-batch the returned Result still carries the number of records
// committed before the failure.
func (e *Engine) Reconcile(ctx context.Context, jur Jurisdiction) (Result, error) {
	res := Result{Jurisdiction: jur.Code}

	if err := validate(jur); err != nil {
		return res, err
	}

	current, err := e.cases.CountByJurisdiction(ctx, jur.Code)
	if err != nil {
		return res, fmt.Errorf("counting cases for %s: %w", jur.Code, err)
	}
	res.Existing = current

	missing := jur.Desired - current
	if missing <= 0 {
		e.logger.Debug("Jurisdiction already at desired count",
			zap.String("jurisdiction", jur.Code),
			zap.Int("current", current),
			zap.Int("desired", jur.Desired))
		return res, nil
	}

	seq, err := e.cases.MaxSequence(ctx, jur.Code)
	if err != nil {
		return res, fmt.Errorf("reading max sequence for %s: %w", jur.Code, err)
	}

	e.logger.Info("Reconciling jurisdiction",
		zap.String("jurisdiction", jur.Code),
		zap.Int("current", current),
		zap.Int("desired", jur.Desired),
		zap.Int("missing", missing))

	inserted, err := e.insertBatch(ctx, jur, seq, missing)
	res.Inserted = inserted
	return res, err
}

// Rebuild clears the jurisdiction and repopulates it to exactly
// jur.Desired cases, restarting the id sequence at 1. This is the only
// operation allowed to delete records.
func (e *Engine) Rebuild(ctx context.Context, jur Jurisdiction) (Result, error) {
	res := Result{Jurisdiction: jur.Code}

	if err := validate(jur); err != nil {
		return res, err
	}

	deleted, err := e.cases.DeleteByJurisdiction(ctx, jur.Code)
	if err != nil {
		return res, fmt.Errorf("clearing cases for %s: %w", jur.Code, err)
	}
	res.Deleted = deleted

	e.logger.Info("Rebuilding jurisdiction",
		zap.String("jurisdiction", jur.Code),
		zap.Int("deleted", deleted),
		zap.Int("desired", jur.Desired))

	inserted, err := e.insertBatch(ctx, jur, 0, jur.Desired)
	res.Inserted = inserted
	return res, err
}

func (e *Engine) insertBatch(ctx context.Context, jur Jurisdiction, startSeq, count int) (int, error) {
	inserted := 0
	seq := startSeq
	for i := 0; i < count; i++ {
		// An in-flight insert is never interrupted; the deadline is only
		// checked between records so no partial record is written.
		if err := ctx.Err(); err != nil {
			return inserted, fmt.Errorf("reconcile interrupted after %d of %d inserts for %s: %w", inserted, count, jur.Code, err)
		}

		seq++
		legalCase := e.factory.NewCase(jur, seq)
		if err := e.cases.Create(ctx, &legalCase); err != nil {
			return inserted, fmt.Errorf("inserting case %s (%d of %d committed): %w", legalCase.ID, inserted, count, err)
		}
		inserted++
	}
	return inserted, nil
}

func validate(jur Jurisdiction) error {
	if jur.Code == "" || jur.Court == "" {
		return ErrInvalidJurisdiction
	}
	if jur.Desired < 0 {
		return ErrNegativeDesired
	}
	return nil
}
