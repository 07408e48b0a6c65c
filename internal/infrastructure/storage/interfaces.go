package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested allocation does not exist.
var ErrNotFound = errors.New("allocation not found")

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	AllocationRepository
	Close() error
}

// AllocationRepository handles allocation history
type AllocationRepository interface {
	// SaveAllocation stores a record; an empty ID is filled in
	SaveAllocation(ctx context.Context, record *AllocationRecord) error

	// GetAllocation retrieves a record by ID (ErrNotFound if missing)
	GetAllocation(ctx context.Context, id string) (*AllocationRecord, error)

	// ListAllocations returns records matching the filters, newest first
	ListAllocations(ctx context.Context, filters AllocationFilters) (*AllocationListResult, error)

	// GetStats returns aggregate statistics
	GetStats(ctx context.Context) (*Stats, error)
}

// AllocationFilters defines filters for listing allocations
type AllocationFilters struct {
	Fulfilled *bool  // nil = both
	Source    string // "api", "cli" (empty = all)
	Limit     int    // Max results (0 = default 50)
	Offset    int    // Pagination offset
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// normalize clamps Limit and Offset into their valid ranges
func (f AllocationFilters) normalize() AllocationFilters {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// AllocationListResult contains paginated results
type AllocationListResult struct {
	Records    []*AllocationRecord `json:"records"`
	TotalCount int                 `json:"total_count"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}
