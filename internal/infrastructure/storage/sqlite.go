// Package storage persists allocation history.
//
// Only requests and their results are stored. Warehouse stock is never
// decremented here; every allocation is computed from the inventory the
// caller supplied.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for allocation records.
// It implements the Repository interface.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database.
// A nil logger falls back to slog.Default().
func NewStorage(dbPath string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; avoid "database is locked" under concurrent requests
	db.SetMaxOpenConns(1)

	s := &Storage{db: db, logger: logger}

	if err := s.runMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveAllocation inserts or replaces an allocation record
func (s *Storage) SaveAllocation(ctx context.Context, record *AllocationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.Source == "" {
		record.Source = SourceAPI
	}

	orderJSON, err := json.Marshal(record.Order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	warehousesJSON, err := json.Marshal(record.Warehouses)
	if err != nil {
		return fmt.Errorf("failed to encode warehouses: %w", err)
	}
	shipmentsJSON, err := json.Marshal(record.Shipments)
	if err != nil {
		return fmt.Errorf("failed to encode shipments: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO allocations
	(id, created_at, source, fulfilled, warehouse_count, shipment_count,
	 units_requested, units_shipped, order_json, warehouses_json, shipments_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.CreatedAt.UTC(),
		record.Source,
		record.Fulfilled,
		record.WarehouseCount,
		record.ShipmentCount,
		record.UnitsRequested,
		record.UnitsShipped,
		string(orderJSON),
		string(warehousesJSON),
		string(shipmentsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save allocation %s: %w", record.ID, err)
	}

	return nil
}

const selectColumns = `
	SELECT id, created_at, source, fulfilled, warehouse_count, shipment_count,
	       units_requested, units_shipped, order_json, warehouses_json, shipments_json
	FROM allocations`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row in selectColumns order
func scanRecord(row rowScanner) (*AllocationRecord, error) {
	record := &AllocationRecord{}
	var orderJSON, warehousesJSON, shipmentsJSON string

	err := row.Scan(
		&record.ID,
		&record.CreatedAt,
		&record.Source,
		&record.Fulfilled,
		&record.WarehouseCount,
		&record.ShipmentCount,
		&record.UnitsRequested,
		&record.UnitsShipped,
		&orderJSON,
		&warehousesJSON,
		&shipmentsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(orderJSON), &record.Order); err != nil {
		return nil, fmt.Errorf("failed to decode order of %s: %w", record.ID, err)
	}
	if err := json.Unmarshal([]byte(warehousesJSON), &record.Warehouses); err != nil {
		return nil, fmt.Errorf("failed to decode warehouses of %s: %w", record.ID, err)
	}
	if err := json.Unmarshal([]byte(shipmentsJSON), &record.Shipments); err != nil {
		return nil, fmt.Errorf("failed to decode shipments of %s: %w", record.ID, err)
	}

	return record, nil
}

// GetAllocation retrieves a record by ID
func (s *Storage) GetAllocation(ctx context.Context, id string) (*AllocationRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListAllocations returns records matching the filters, newest first
func (s *Storage) ListAllocations(ctx context.Context, filters AllocationFilters) (*AllocationListResult, error) {
	filters = filters.normalize()

	var conditions []string
	var args []any
	if filters.Fulfilled != nil {
		conditions = append(conditions, "fulfilled = ?")
		args = append(args, *filters.Fulfilled)
	}
	if filters.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filters.Source)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	result := &AllocationListResult{
		Records: make([]*AllocationRecord, 0),
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM allocations`+where, args...).Scan(&result.TotalCount); err != nil {
		return nil, fmt.Errorf("failed to count allocations: %w", err)
	}

	query := selectColumns + where + ` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, filters.Limit, filters.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, record)
	}

	return result, rows.Err()
}

// GetStats returns aggregate statistics over all stored allocations
func (s *Storage) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		SourceCounts: make(map[string]int),
	}

	query := `
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN fulfilled = 1 THEN 1 END) as fulfilled,
		COALESCE(SUM(units_requested), 0) as units_requested,
		COALESCE(SUM(units_shipped), 0) as units_shipped
	FROM allocations
	`

	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalAllocations,
		&stats.FulfilledCount,
		&stats.UnitsRequested,
		&stats.UnitsShipped,
	)
	if err != nil {
		return nil, err
	}
	stats.UnfulfilledCount = stats.TotalAllocations - stats.FulfilledCount

	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM allocations GROUP BY source`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		stats.SourceCounts[source] = count
	}

	return stats, rows.Err()
}
