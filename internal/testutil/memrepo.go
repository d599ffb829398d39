// Package testutil provides in-memory repository implementations for
// tests that exercise the engine, orchestrator, and handlers without a
// database.
package testutil

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/MarcoDeltaways/Perpl-Helix/internal/models"
	"github.com/MarcoDeltaways/Perpl-Helix/internal/repository"
)

var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// ErrStoreFailure is the default error injected by the fakes.
var ErrStoreFailure = errors.New("testutil: store connection lost")

// MemLegalCases is an in-memory repository.LegalCaseRepository.
// CreateErr/CreateErrAfter inject a store failure after a number of
// successful creates to test partial-progress accounting.
type MemLegalCases struct {
	mu    sync.Mutex
	cases []*models.LegalCase
	byID  map[string]*models.LegalCase

	CreateErr      error
	CreateErrAfter int // creates that succeed before CreateErr fires
	created        int

	// FailJurisdiction makes every create for that jurisdiction fail,
	// leaving other jurisdictions untouched.
	FailJurisdiction string

	// CreateDelay, when set, slows each insert down; used to force
	// overlap in concurrency tests.
	CreateDelay time.Duration
}

func NewMemLegalCases() *MemLegalCases {
	return &MemLegalCases{byID: make(map[string]*models.LegalCase)}
}

func (m *MemLegalCases) GetAll(ctx context.Context) ([]*models.LegalCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.LegalCase, len(m.cases))
	copy(out, m.cases)
	return out, nil
}

func (m *MemLegalCases) GetByID(ctx context.Context, id string) (*models.LegalCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if legalCase, ok := m.byID[id]; ok {
		copied := *legalCase
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemLegalCases) GetByJurisdiction(ctx context.Context, jurisdiction string) ([]*models.LegalCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.LegalCase
	for _, legalCase := range m.cases {
		if legalCase.Jurisdiction == jurisdiction {
			out = append(out, legalCase)
		}
	}
	return out, nil
}

func (m *MemLegalCases) Create(ctx context.Context, legalCase *models.LegalCase) error {
	if m.CreateDelay > 0 {
		time.Sleep(m.CreateDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailJurisdiction != "" && legalCase.Jurisdiction == m.FailJurisdiction {
		return m.failErr()
	}
	if m.CreateErr != nil && m.created >= m.CreateErrAfter {
		return m.CreateErr
	}
	if _, exists := m.byID[legalCase.ID]; exists {
		return repository.ErrDuplicateID
	}
	now := time.Now().UTC()
	legalCase.CreatedAt = now
	legalCase.UpdatedAt = now
	copied := *legalCase
	m.cases = append(m.cases, &copied)
	m.byID[copied.ID] = &copied
	m.created++
	return nil
}

func (m *MemLegalCases) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cases), nil
}

func (m *MemLegalCases) CountByJurisdiction(ctx context.Context, jurisdiction string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, legalCase := range m.cases {
		if legalCase.Jurisdiction == jurisdiction {
			count++
		}
	}
	return count, nil
}

func (m *MemLegalCases) MaxSequence(ctx context.Context, jurisdiction string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, legalCase := range m.cases {
		if legalCase.Jurisdiction != jurisdiction {
			continue
		}
		match := trailingDigits.FindString(legalCase.ID)
		if match == "" {
			continue
		}
		seq, err := strconv.Atoi(match)
		if err == nil && seq > max {
			max = seq
		}
	}
	return max, nil
}

func (m *MemLegalCases) DeleteByJurisdiction(ctx context.Context, jurisdiction string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*models.LegalCase
	deleted := 0
	for _, legalCase := range m.cases {
		if legalCase.Jurisdiction == jurisdiction {
			delete(m.byID, legalCase.ID)
			deleted++
			continue
		}
		kept = append(kept, legalCase)
	}
	m.cases = kept
	return deleted, nil
}

func (m *MemLegalCases) failErr() error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	return ErrStoreFailure
}

var _ repository.LegalCaseRepository = (*MemLegalCases)(nil)

// MemDataSources is an in-memory repository.DataSourceRepository.
type MemDataSources struct {
	mu      sync.Mutex
	sources []*models.DataSource
	byID    map[string]*models.DataSource
}

func NewMemDataSources(sources ...*models.DataSource) *MemDataSources {
	m := &MemDataSources{byID: make(map[string]*models.DataSource)}
	for _, source := range sources {
		copied := *source
		m.sources = append(m.sources, &copied)
		m.byID[copied.ID] = &copied
	}
	return m
}

func (m *MemDataSources) GetAll(ctx context.Context) ([]*models.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.DataSource, len(m.sources))
	copy(out, m.sources)
	return out, nil
}

func (m *MemDataSources) GetActive(ctx context.Context) ([]*models.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.DataSource
	for _, source := range m.sources {
		if source.IsActive {
			out = append(out, source)
		}
	}
	return out, nil
}

func (m *MemDataSources) GetByID(ctx context.Context, id string) (*models.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if source, ok := m.byID[id]; ok {
		copied := *source
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemDataSources) Create(ctx context.Context, source *models.DataSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[source.ID]; exists {
		return repository.ErrDuplicateID
	}
	source.CreatedAt = time.Now().UTC()
	copied := *source
	m.sources = append(m.sources, &copied)
	m.byID[copied.ID] = &copied
	return nil
}

func (m *MemDataSources) Update(ctx context.Context, id string, patch models.DataSourcePatch) (*models.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		source.Name = *patch.Name
	}
	if patch.Jurisdiction != nil {
		source.Jurisdiction = *patch.Jurisdiction
	}
	if patch.IsActive != nil {
		source.IsActive = *patch.IsActive
	}
	copied := *source
	return &copied, nil
}

func (m *MemDataSources) UpdateLastSync(ctx context.Context, id string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	// last_sync_at only moves forward
	if source.LastSyncAt == nil || syncedAt.After(*source.LastSyncAt) {
		copied := syncedAt
		source.LastSyncAt = &copied
	}
	return nil
}

var _ repository.DataSourceRepository = (*MemDataSources)(nil)

// MemRegulatoryUpdates is an in-memory repository.RegulatoryUpdateRepository.
type MemRegulatoryUpdates struct {
	mu      sync.Mutex
	updates []*models.RegulatoryUpdate
	byID    map[string]*models.RegulatoryUpdate
}

func NewMemRegulatoryUpdates() *MemRegulatoryUpdates {
	return &MemRegulatoryUpdates{byID: make(map[string]*models.RegulatoryUpdate)}
}

func (m *MemRegulatoryUpdates) GetAll(ctx context.Context) ([]*models.RegulatoryUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.RegulatoryUpdate, len(m.updates))
	copy(out, m.updates)
	return out, nil
}

func (m *MemRegulatoryUpdates) GetRecent(ctx context.Context, limit int) ([]*models.RegulatoryUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := make([]*models.RegulatoryUpdate, len(m.updates))
	copy(sorted, m.updates)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].PublishedAt.After(sorted[i].PublishedAt) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *MemRegulatoryUpdates) GetByID(ctx context.Context, id string) (*models.RegulatoryUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if update, ok := m.byID[id]; ok {
		copied := *update
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemRegulatoryUpdates) Create(ctx context.Context, update *models.RegulatoryUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[update.ID]; exists {
		return repository.ErrDuplicateID
	}
	update.CreatedAt = time.Now().UTC()
	copied := *update
	m.updates = append(m.updates, &copied)
	m.byID[copied.ID] = &copied
	return nil
}

func (m *MemRegulatoryUpdates) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates), nil
}

func (m *MemRegulatoryUpdates) CountPublishedSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, update := range m.updates {
		if update.PublishedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *MemRegulatoryUpdates) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, update := range m.updates {
		if update.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

var _ repository.RegulatoryUpdateRepository = (*MemRegulatoryUpdates)(nil)
