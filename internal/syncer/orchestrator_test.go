package syncer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/reconcile"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/syncer"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/synthetic"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/testutil"
)

func testJurisdictions(desired int) []reconcile.Jurisdiction {
	return []reconcile.Jurisdiction{
		{Code: "US", Name: "United States", Court: "U.S. District Court", Desired: desired},
		{Code: "EU", Name: "European Union", Court: "European Court of Justice", Desired: desired},
		{Code: "DE", Name: "Germany", Court: "Bundesgerichtshof", Desired: desired},
	}
}

func newOrchestrator(cases *testutil.MemLegalCases, sources *testutil.MemDataSources, jurisdictions []reconcile.Jurisdiction) *syncer.Orchestrator {
	engine := reconcile.NewEngine(cases, synthetic.Factory{}, zap.NewNop())
	return syncer.NewOrchestrator(sources, testutil.NewMemRegulatoryUpdates(), engine, synthetic.Factory{}, jurisdictions, zap.NewNop())
}

func TestSyncAllTwoSources(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
		&models.DataSource{ID: "ema", Name: "EMA", Jurisdiction: "EU", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(10))

	summary, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 2, summary.TotalSources)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.NotEmpty(t, summary.RunID)

	total, err := cases.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, total)

	for _, code := range []string{"US", "EU"} {
		count, err := cases.CountByJurisdiction(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, 10, count, "jurisdiction %s", code)
	}
}

func TestSyncAllIdempotent(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(10))

	_, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	summary, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, 0, summary.Results[0].RecordsAffected, "second run must not insert")

	total, err := cases.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestSyncRecordsRegulatoryUpdates(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
		&models.DataSource{ID: "ema", Name: "EMA", Jurisdiction: "EU", IsActive: true},
	)
	updates := testutil.NewMemRegulatoryUpdates()
	engine := reconcile.NewEngine(cases, synthetic.Factory{}, zap.NewNop())
	orch := syncer.NewOrchestrator(sources, updates, engine, synthetic.Factory{}, testJurisdictions(5), zap.NewNop())

	_, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	// one update per source that inserted records
	count, err := updates.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	first, err := updates.GetByID(context.Background(), "fda-update-0001")
	require.NoError(t, err)
	assert.Equal(t, "fda", first.SourceID)
	assert.Equal(t, "US", first.Region)

	// a run that inserts nothing records nothing
	_, err = orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)
	count, err = updates.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPartialFailureIsolation(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	cases.FailJurisdiction = "EU"
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
		&models.DataSource{ID: "ema", Name: "EMA", Jurisdiction: "EU", IsActive: true},
		&models.DataSource{ID: "bfarm", Name: "BfArM", Jurisdiction: "DE", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(5))

	summary, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	assert.False(t, summary.Success)
	assert.Equal(t, 3, summary.TotalSources)
	assert.Equal(t, 2, summary.SuccessCount)
	require.Len(t, summary.Results, 3)

	assert.Equal(t, syncer.StatusSuccess, summary.Results[0].Status)
	assert.Equal(t, syncer.StatusError, summary.Results[1].Status)
	assert.NotEmpty(t, summary.Results[1].Error)
	assert.Equal(t, syncer.StatusSuccess, summary.Results[2].Status)

	// lastSync updated only for the two successful sources
	fda, err := sources.GetByID(context.Background(), "fda")
	require.NoError(t, err)
	assert.NotNil(t, fda.LastSyncAt)

	ema, err := sources.GetByID(context.Background(), "ema")
	require.NoError(t, err)
	assert.Nil(t, ema.LastSyncAt)

	bfarm, err := sources.GetByID(context.Background(), "bfarm")
	require.NoError(t, err)
	assert.NotNil(t, bfarm.LastSyncAt)
}

func TestLastSyncNeverMovesBackwards(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(5))

	_, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	fda, err := sources.GetByID(context.Background(), "fda")
	require.NoError(t, err)
	require.NotNil(t, fda.LastSyncAt)
	stamped := *fda.LastSyncAt

	// a run completing with an earlier clock must not rewind the stamp
	syncer.SetNow(orch, func() time.Time { return stamped.Add(-time.Hour) })
	_, err = orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	fda, err = sources.GetByID(context.Background(), "fda")
	require.NoError(t, err)
	require.NotNil(t, fda.LastSyncAt)
	assert.Equal(t, stamped, *fda.LastSyncAt)

	// the store-level guard refuses an older stamp on its own too
	require.NoError(t, sources.UpdateLastSync(context.Background(), "fda", stamped.Add(-time.Minute)))
	fda, err = sources.GetByID(context.Background(), "fda")
	require.NoError(t, err)
	assert.Equal(t, stamped, *fda.LastSyncAt)
}

func TestUnknownJurisdictionIsolated(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "mystery", Name: "Mystery", Jurisdiction: "XX", IsActive: true},
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(3))

	summary, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, syncer.StatusError, summary.Results[0].Status)
	assert.Contains(t, summary.Results[0].Error, "unknown jurisdiction")
	assert.Equal(t, syncer.StatusSuccess, summary.Results[1].Status)
}

func TestRebuildMode(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(10))

	_, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
	require.NoError(t, err)

	// shrink the target and rebuild
	smaller := newOrchestrator(cases, sources, testJurisdictions(4))
	summary, err := smaller.SyncAll(context.Background(), syncer.ModeRebuild)
	require.NoError(t, err)
	assert.True(t, summary.Success)

	count, err := cases.CountByJurisdiction(context.Background(), "US")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "rebuild ends at exactly the desired count")
}

func TestExpiredDeadlineSkipsAllSources(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
		&models.DataSource{ID: "ema", Name: "EMA", Jurisdiction: "EU", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := orch.SyncAll(ctx, syncer.ModeIncremental)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.SuccessCount)
	require.Len(t, summary.Results, 2)
	for _, result := range summary.Results {
		assert.Equal(t, syncer.StatusSkipped, result.Status)
	}

	total, err := cases.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	fda, err := sources.GetByID(context.Background(), "fda")
	require.NoError(t, err)
	assert.Nil(t, fda.LastSyncAt, "skipped sources keep their last sync time")
}

func TestDeadlineSkipsRemainingSources(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	cases.CreateDelay = 15 * time.Millisecond
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
		&models.DataSource{ID: "ema", Name: "EMA", Jurisdiction: "EU", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(10))

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	summary, err := orch.SyncAll(ctx, syncer.ModeIncremental)
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	assert.Equal(t, syncer.StatusError, summary.Results[0].Status, "in-flight source reports partial progress")
	assert.Equal(t, syncer.StatusSkipped, summary.Results[1].Status, "unstarted source is skipped")
}

func TestConcurrentRunsDoNotDuplicate(t *testing.T) {
	cases := testutil.NewMemLegalCases()
	cases.CreateDelay = time.Millisecond
	sources := testutil.NewMemDataSources(
		&models.DataSource{ID: "fda", Name: "FDA", Jurisdiction: "US", IsActive: true},
	)
	orch := newOrchestrator(cases, sources, testJurisdictions(50))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orch.SyncAll(context.Background(), syncer.ModeIncremental)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := cases.CountByJurisdiction(context.Background(), "US")
	require.NoError(t, err)
	assert.Equal(t, 50, count, "single-flight must prevent duplicate inserts")
}

func TestSyncSourceNotFound(t *testing.T) {
	orch := newOrchestrator(testutil.NewMemLegalCases(), testutil.NewMemDataSources(), testJurisdictions(3))

	_, err := orch.SyncSource(context.Background(), "missing", syncer.ModeIncremental)
	require.Error(t, err)
	assert.True(t, syncer.IsNotFound(err))
}

func TestParseMode(t *testing.T) {
	mode, err := syncer.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, syncer.ModeIncremental, mode)

	mode, err = syncer.ParseMode("rebuild")
	require.NoError(t, err)
	assert.Equal(t, syncer.ModeRebuild, mode)

	_, err = syncer.ParseMode("truncate")
	assert.Error(t, err)
}
