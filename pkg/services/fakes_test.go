package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/cache"
	"github.com/Ramsey-B/fern/pkg/convergence"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/resolver"
	"github.com/Ramsey-B/fern/pkg/stores"
)

// memoryStore is an in-memory register: every record carries a row handle and
// lookup is sequential scan, like the real thing.
type memoryStore struct {
	mu      sync.Mutex
	rows    map[models.Collection][]stores.RawRecord
	nextRow map[models.Collection]int64
	nextID  int

	updates   []targetedWrite
	deletes   []targetedWrite
	deleteErr error
}

type targetedWrite struct {
	collection models.Collection
	row        int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rows:    map[models.Collection][]stores.RawRecord{},
		nextRow: map[models.Collection]int64{},
	}
}

func (m *memoryStore) seed(collection models.Collection, recs ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, data := range recs {
		rec := stores.RawRecord{}
		for k, v := range data {
			rec[k] = v
		}
		m.nextRow[collection]++
		rec.SetRow(m.nextRow[collection])
		m.rows[collection] = append(m.rows[collection], rec)
	}
}

func (m *memoryStore) GetCollection(_ context.Context, collection models.Collection) ([]stores.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]stores.RawRecord, 0, len(m.rows[collection]))
	for _, rec := range m.rows[collection] {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (m *memoryStore) Create(_ context.Context, collection models.Collection, data map[string]any, _ string) (stores.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := stores.RawRecord{}
	for k, v := range data {
		rec[k] = v
	}
	if id, _ := rec["id"].(string); id == "" {
		m.nextID++
		rec["id"] = fmt.Sprintf("gen-%d", m.nextID)
	}
	if created, _ := rec["created_at"].(string); created == "" {
		rec["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}

	m.nextRow[collection]++
	rec.SetRow(m.nextRow[collection])
	m.rows[collection] = append(m.rows[collection], rec)
	return rec.Clone(), nil
}

func (m *memoryStore) UpdateAt(_ context.Context, collection models.Collection, row int64, data map[string]any, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates = append(m.updates, targetedWrite{collection: collection, row: row})
	for i, rec := range m.rows[collection] {
		if r, ok := rec.Row(); ok && r == row {
			next := stores.RawRecord{}
			for k, v := range data {
				next[k] = v
			}
			next.SetRow(row)
			m.rows[collection][i] = next
			return nil
		}
	}
	return fmt.Errorf("no %s row at handle %d", collection, row)
}

func (m *memoryStore) DeleteAt(_ context.Context, collection models.Collection, row int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.deletes = append(m.deletes, targetedWrite{collection: collection, row: row})
	for i, rec := range m.rows[collection] {
		if r, ok := rec.Row(); ok && r == row {
			m.rows[collection] = append(m.rows[collection][:i], m.rows[collection][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no %s row at handle %d", collection, row)
}

// downFederated simulates an unavailable directory, forcing the register
// fallback on every read-preferred fetch.
type downFederated struct{}

func (downFederated) FindAll(context.Context, models.Collection) ([]stores.RawRecord, error) {
	return nil, errors.New("directory unavailable")
}

// recordingAuditor captures audit entries for assertions.
type recordingAuditor struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (r *recordingAuditor) Record(_ context.Context, entry models.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingAuditor) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type harness struct {
	store   *memoryStore
	auditor *recordingAuditor
	fetcher *convergence.Fetcher
	locator *resolver.Resolver
}

func newHarness() *harness {
	store := newMemoryStore()
	logger := testLogger()
	fetcher := convergence.NewFetcher(store, downFederated{}, cache.New(time.Minute), logger)
	return &harness{
		store:   store,
		auditor: &recordingAuditor{},
		fetcher: fetcher,
		locator: resolver.New(fetcher, logger),
	}
}

func (h *harness) companies(pageSize int, regions ...string) *CompanyService {
	return NewCompanyService(h.fetcher, h.locator, h.store, h.auditor, testLogger(), pageSize, regions)
}

func (h *harness) contacts(pageSize int) *ContactService {
	return NewContactService(h.fetcher, h.locator, h.store, h.auditor, testLogger(), pageSize)
}

func (h *harness) opportunities(pageSize int, stages ...string) *OpportunityService {
	return NewOpportunityService(h.fetcher, h.locator, h.store, h.auditor, testLogger(), pageSize, stages)
}

func (h *harness) activity(pageSize int) *ActivityService {
	return NewActivityService(h.fetcher, WeekdayCalendar{}, testLogger(), pageSize)
}
