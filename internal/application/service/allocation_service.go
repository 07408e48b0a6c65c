// Package service exposes allocation use cases to the API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
	"github.com/eshaffer321/inventory-allocator/internal/domain/validator"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/metrics"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/storage"
)

var (
	// ErrInvalidRequest marks requests that cannot be allocated (blank names, negative order quantities).
	ErrInvalidRequest = errors.New("invalid allocation request")

	// ErrHistoryDisabled is returned by history queries when no repository is configured.
	ErrHistoryDisabled = errors.New("allocation history is not enabled")
)

// Request holds the inputs of one allocation.
type Request struct {
	Order      allocator.ItemQuantities
	Warehouses []allocator.Warehouse // sorted cheapest first
	Compact    bool                  // drop shipments with no items
	Record     bool                  // persist to the history store
	Source     string                // storage.SourceAPI or storage.SourceCLI
}

// Result is the outcome of an allocation.
type Result struct {
	ID        string // set only when the allocation was recorded
	Fulfilled bool
	Shipments []allocator.Shipment
}

// AllocationService runs the allocator and keeps its history.
type AllocationService struct {
	repo   storage.Repository
	logger *slog.Logger
}

// NewAllocationService creates a new allocation service.
// repo may be nil, in which case nothing is recorded.
func NewAllocationService(repo storage.Repository, logger *slog.Logger) *AllocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationService{
		repo:   repo,
		logger: logger,
	}
}

// Allocate computes the shipments for req and optionally records them.
// An order that cannot be fulfilled is not an error: Result.Fulfilled is
// false and Result.Shipments is empty.
func (s *AllocationService) Allocate(ctx context.Context, req Request) (*Result, error) {
	validation := validator.ValidateRequest(req.Order, req.Warehouses)
	if !validation.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, validation.Reason)
	}
	for _, warning := range validation.Warnings {
		s.logger.Warn("suspicious allocation request", "warning", warning)
	}

	shipments := allocator.Allocate(req.Order, req.Warehouses)
	// Validated input always verifies
	if err := allocator.Verify(req.Order, req.Warehouses, shipments); err != nil {
		s.logger.Error("allocation failed verification", "error", err)
		return nil, fmt.Errorf("allocation failed verification: %w", err)
	}
	if req.Compact {
		shipments = allocator.Compact(shipments)
	}

	result := &Result{
		Fulfilled: len(shipments) > 0,
		Shipments: shipments,
	}

	metrics.ObserveAllocation(result.Fulfilled, req.Order.Total(),
		allocator.ShippedQuantities(shipments).Total(), len(shipments))

	s.logger.Info("allocated order",
		"items", len(req.Order),
		"units", req.Order.Total(),
		"warehouses", len(req.Warehouses),
		"shipments", len(shipments),
		"fulfilled", result.Fulfilled)
	if s.logger.Enabled(ctx, slog.LevelDebug) {
		s.logger.Debug("order detail", "order", req.Order)
		for _, shipment := range shipments {
			s.logger.Debug("shipment", "shipment", shipment)
		}
	}

	if req.Record && s.repo != nil {
		record := storage.NewAllocationRecord(req.Source, req.Order, req.Warehouses, shipments)
		if err := s.repo.SaveAllocation(ctx, record); err != nil {
			s.logger.Error("failed to record allocation", "error", err)
			return nil, fmt.Errorf("failed to record allocation: %w", err)
		}
		result.ID = record.ID
		s.logger.Debug("recorded allocation", "id", record.ID)
	}

	return result, nil
}

// Get returns a recorded allocation.
func (s *AllocationService) Get(ctx context.Context, id string) (*storage.AllocationRecord, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.GetAllocation(ctx, id)
}

// List returns recorded allocations, newest first.
func (s *AllocationService) List(ctx context.Context, filters storage.AllocationFilters) (*storage.AllocationListResult, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.ListAllocations(ctx, filters)
}

// Stats returns aggregate statistics over recorded allocations.
func (s *AllocationService) Stats(ctx context.Context) (*storage.Stats, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.GetStats(ctx)
}
