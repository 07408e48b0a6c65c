package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in a map, making tests fast and isolated.
type MockRepository struct {
	mu      sync.Mutex
	records map[string]*AllocationRecord

	// Hooks for test assertions
	SaveAllocationCalled bool
	LastSavedAllocation  *AllocationRecord

	// Error injection for testing error paths
	SaveAllocationErr  error
	GetAllocationErr   error
	ListAllocationsErr error
	GetStatsErr        error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		records: make(map[string]*AllocationRecord),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// AddRecord seeds a record directly (test helper)
func (m *MockRepository) AddRecord(record *AllocationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record.Clone()
}

// SaveAllocation saves a record to the in-memory map
func (m *MockRepository) SaveAllocation(_ context.Context, record *AllocationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveAllocationCalled = true
	m.LastSavedAllocation = record
	if m.SaveAllocationErr != nil {
		return m.SaveAllocationErr
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.Source == "" {
		record.Source = SourceAPI
	}

	// Copy to avoid test mutations
	m.records[record.ID] = record.Clone()
	return nil
}

// GetAllocation retrieves a record from the in-memory map
func (m *MockRepository) GetAllocation(_ context.Context, id string) (*AllocationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetAllocationErr != nil {
		return nil, m.GetAllocationErr
	}
	record, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// ListAllocations filters and paginates the in-memory records
func (m *MockRepository) ListAllocations(_ context.Context, filters AllocationFilters) (*AllocationListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListAllocationsErr != nil {
		return nil, m.ListAllocationsErr
	}
	filters = filters.normalize()

	matched := make([]*AllocationRecord, 0, len(m.records))
	for _, record := range m.records {
		if filters.Fulfilled != nil && record.Fulfilled != *filters.Fulfilled {
			continue
		}
		if filters.Source != "" && record.Source != filters.Source {
			continue
		}
		matched = append(matched, record.Clone())
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result := &AllocationListResult{
		Records:    make([]*AllocationRecord, 0),
		TotalCount: len(matched),
		Limit:      filters.Limit,
		Offset:     filters.Offset,
	}

	if filters.Offset < len(matched) {
		end := min(filters.Offset+filters.Limit, len(matched))
		result.Records = append(result.Records, matched[filters.Offset:end]...)
	}

	return result, nil
}

// GetStats computes statistics over the in-memory records
func (m *MockRepository) GetStats(_ context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}

	stats := &Stats{
		SourceCounts: make(map[string]int),
	}
	for _, record := range m.records {
		stats.TotalAllocations++
		if record.Fulfilled {
			stats.FulfilledCount++
		} else {
			stats.UnfulfilledCount++
		}
		stats.UnitsRequested += record.UnitsRequested
		stats.UnitsShipped += record.UnitsShipped
		stats.SourceCounts[record.Source]++
	}

	return stats, nil
}
