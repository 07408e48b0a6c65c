package storage

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
)

// CachedRepository keeps recently saved or fetched allocations in memory.
// Records are never modified after they are saved, so GetAllocation can be
// served from the cache without going back to the database. The cache holds
// its own deep copies, so callers may modify what they pass in or get back.
// Lists and stats always hit the underlying repository.
type CachedRepository struct {
	Repository
	cache *lru.Cache
}

// Compile-time check that CachedRepository implements Repository
var _ Repository = (*CachedRepository)(nil)

// NewCachedRepository wraps repo with an LRU cache holding up to size records.
func NewCachedRepository(repo Repository, size int) (*CachedRepository, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedRepository{Repository: repo, cache: cache}, nil
}

// SaveAllocation saves through to the repository and caches the record
func (r *CachedRepository) SaveAllocation(ctx context.Context, record *AllocationRecord) error {
	if err := r.Repository.SaveAllocation(ctx, record); err != nil {
		r.cache.Remove(record.ID)
		return err
	}
	r.cache.Add(record.ID, record.Clone())
	return nil
}

// GetAllocation returns a cached record or loads it from the repository
func (r *CachedRepository) GetAllocation(ctx context.Context, id string) (*AllocationRecord, error) {
	if v, ok := r.cache.Get(id); ok {
		return v.(*AllocationRecord).Clone(), nil
	}

	record, err := r.Repository.GetAllocation(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, record.Clone())
	return record, nil
}

// Len returns the number of cached records
func (r *CachedRepository) Len() int {
	return r.cache.Len()
}
