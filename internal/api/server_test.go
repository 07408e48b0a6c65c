package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/inventory-allocator/internal/api"
	"github.com/eshaffer321/inventory-allocator/internal/api/dto"
	"github.com/eshaffer321/inventory-allocator/internal/application/service"
	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/config"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/logging"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/metrics"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/storage"
)

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	svc := service.NewAllocationService(repo, logging.Discard())
	server := api.NewServer(api.DefaultConfig(), svc, logging.Discard())
	return server, repo
}

func doJSON(t *testing.T, server *api.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Timestamp)
}

func TestServer_CreateAllocation(t *testing.T) {
	t.Run("splits across warehouses and records", func(t *testing.T) {
		server, repo := newTestServer(t)

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order": map[string]int{"apple": 2, "banana": 1},
			"warehouses": []map[string]any{
				{"name": "owd", "inventory": map[string]int{"apple": 1, "banana": 2}},
				{"name": "dw", "inventory": map[string]int{"apple": 1}},
			},
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var response dto.AllocateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.True(t, response.Fulfilled)
		assert.NotEmpty(t, response.ID)
		assert.Equal(t, []dto.ShipmentResponse{
			{Warehouse: "owd", Items: map[string]int{"apple": 1, "banana": 1}},
			{Warehouse: "dw", Items: map[string]int{"apple": 1}},
		}, response.Shipments)

		assert.True(t, repo.SaveAllocationCalled)
		assert.Equal(t, response.ID, repo.LastSavedAllocation.ID)
		assert.Equal(t, storage.SourceAPI, repo.LastSavedAllocation.Source)
	})

	t.Run("unfulfillable order is not an error", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order": map[string]int{"apple": 100, "banana": 2},
			"warehouses": []map[string]any{
				{"name": "owd", "inventory": map[string]int{"apple": 1, "banana": 2}},
				{"name": "dw", "inventory": map[string]int{"apple": 1, "banana": 20}},
			},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `false`, mustField(t, rec.Body.Bytes(), "fulfilled"))
		assert.JSONEq(t, `[]`, mustField(t, rec.Body.Bytes(), "shipments"))
	})

	t.Run("record false skips history", func(t *testing.T) {
		server, repo := newTestServer(t)

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order":      map[string]int{"apple": 1},
			"warehouses": []map[string]any{{"name": "owd", "inventory": map[string]int{"apple": 1}}},
			"record":     false,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, repo.SaveAllocationCalled)

		var response dto.AllocateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.ID)
	})

	t.Run("compact drops empty shipments", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order": map[string]int{"apple": 1},
			"warehouses": []map[string]any{
				{"name": "owd", "inventory": map[string]int{"banana": 1}},
				{"name": "dw", "inventory": map[string]int{"apple": 1}},
			},
			"compact": true,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var response dto.AllocateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Shipments, 1)
		assert.Equal(t, "dw", response.Shipments[0].Warehouse)
	})

	t.Run("empty shipment items serialize as an object", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order": map[string]int{"apple": 1},
			"warehouses": []map[string]any{
				{"name": "owd", "inventory": map[string]int{"banana": 1}},
				{"name": "dw", "inventory": map[string]int{"apple": 1}},
			},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`[{"warehouse":"owd","items":{}},{"warehouse":"dw","items":{"apple":1}}]`,
			mustField(t, rec.Body.Bytes(), "shipments"))
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		server, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/allocations", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeBadRequest, apiErr.Code)
	})

	t.Run("blank warehouse name returns 400", func(t *testing.T) {
		server, _ := newTestServer(t)

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order":      map[string]int{"apple": 1},
			"warehouses": []map[string]any{{"name": "", "inventory": map[string]int{"apple": 1}}},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeValidation, apiErr.Code)
	})

	t.Run("storage failure returns 500", func(t *testing.T) {
		server, repo := newTestServer(t)
		repo.SaveAllocationErr = errors.New("disk full")

		rec := doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
			"order":      map[string]int{"apple": 1},
			"warehouses": []map[string]any{{"name": "owd", "inventory": map[string]int{"apple": 1}}},
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_AllocationHistory(t *testing.T) {
	server, repo := newTestServer(t)

	order := allocator.ItemQuantities{"apple": 1}
	warehouses := []allocator.Warehouse{{Name: "owd", Inventory: allocator.ItemQuantities{"apple": 1}}}
	fulfilled := storage.NewAllocationRecord(storage.SourceAPI, order, warehouses, allocator.Allocate(order, warehouses))
	fulfilled.CreatedAt = time.Now().Add(-time.Minute)
	repo.AddRecord(fulfilled)

	bigOrder := allocator.ItemQuantities{"apple": 5}
	failed := storage.NewAllocationRecord(storage.SourceCLI, bigOrder, warehouses, allocator.Allocate(bigOrder, warehouses))
	repo.AddRecord(failed)

	t.Run("GET /api/allocations lists newest first", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/allocations", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var response dto.AllocationListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.TotalCount)
		require.Len(t, response.Allocations, 2)
		assert.Equal(t, failed.ID, response.Allocations[0].ID)
	})

	t.Run("GET /api/allocations filters by fulfilled", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/allocations?fulfilled=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var response dto.AllocationListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Allocations, 1)
		assert.Equal(t, fulfilled.ID, response.Allocations[0].ID)
	})

	t.Run("GET /api/allocations/:id returns single allocation", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/allocations/"+fulfilled.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var response dto.AllocationResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, fulfilled.ID, response.ID)
		assert.True(t, response.Fulfilled)
		assert.Equal(t, map[string]int{"apple": 1}, response.Order)
		require.Len(t, response.Warehouses, 1)
		assert.Equal(t, "owd", response.Warehouses[0].Name)
	})

	t.Run("GET /api/allocations/:id returns 404 for missing", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/allocations/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GET /api/stats", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var response dto.StatsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.TotalAllocations)
		assert.Equal(t, 1, response.FulfilledCount)
		assert.InDelta(t, 50.0, response.FulfillmentRate, 0.001)
	})
}

func TestServer_HistoryDisabled(t *testing.T) {
	svc := service.NewAllocationService(nil, logging.Discard())
	server := api.NewServer(api.DefaultConfig(), svc, logging.Discard())

	rec := doJSON(t, server, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
		"order":      map[string]int{"apple": 1},
		"warehouses": []map[string]any{{"name": "owd", "inventory": map[string]int{"apple": 1}}},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	doJSON(t, server, http.MethodPost, "/api/allocations", map[string]any{
		"order":      map[string]int{"apple": 1},
		"warehouses": []map[string]any{{"name": "owd", "inventory": map[string]int{"apple": 1}}},
	})

	rec := doJSON(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `allocator_allocations_total{outcome="fulfilled"}`)
	assert.Contains(t, rec.Body.String(), `route="/api/allocations"`)
}

func TestServer_PanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "text"})
	// A nil service makes every history handler panic
	server := api.NewServer(api.DefaultConfig(), nil, logger)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/stats", "500")
	before := testutil.ToFloat64(counter)

	var rec *httptest.ResponseRecorder
	require.NotPanics(t, func() {
		rec = doJSON(t, server, http.MethodGet, "/api/stats", nil)
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "handler panicked")
	assert.Contains(t, buf.String(), "request failed")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestServer_Shutdown(t *testing.T) {
	server, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(ctx))
}

// mustField extracts a raw top-level JSON field.
func mustField(t *testing.T, body []byte, name string) string {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	raw, ok := fields[name]
	require.True(t, ok, "missing field %q", name)
	return string(raw)
}
