package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAllocation(t *testing.T) {
	fulfilled := testutil.ToFloat64(AllocationsTotal.WithLabelValues(Fulfilled))
	unfulfilled := testutil.ToFloat64(AllocationsTotal.WithLabelValues(Unfulfilled))
	requested := testutil.ToFloat64(UnitsRequestedTotal)
	shipped := testutil.ToFloat64(UnitsShippedTotal)

	ObserveAllocation(true, 3, 3, 2)
	ObserveAllocation(false, 102, 0, 0)

	assert.Equal(t, fulfilled+1, testutil.ToFloat64(AllocationsTotal.WithLabelValues(Fulfilled)))
	assert.Equal(t, unfulfilled+1, testutil.ToFloat64(AllocationsTotal.WithLabelValues(Unfulfilled)))
	assert.Equal(t, requested+105, testutil.ToFloat64(UnitsRequestedTotal))
	assert.Equal(t, shipped+3, testutil.ToFloat64(UnitsShippedTotal))
}

func TestObserveAllocation_NegativeUnits(t *testing.T) {
	requested := testutil.ToFloat64(UnitsRequestedTotal)
	shipped := testutil.ToFloat64(UnitsShippedTotal)

	// A wrapped unit count must not panic the counter
	require.NotPanics(t, func() {
		ObserveAllocation(false, -4, -1, 0)
	})

	assert.Equal(t, requested, testutil.ToFloat64(UnitsRequestedTotal))
	assert.Equal(t, shipped, testutil.ToFloat64(UnitsShippedTotal))
}

func TestObserveRequest(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("POST", "/api/allocations", "200")
	before := testutil.ToFloat64(counter)

	ObserveRequest("POST", "/api/allocations", 200, 5*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandler(t *testing.T) {
	ObserveAllocation(true, 1, 1, 1)

	// Calling Handler twice must not register twice
	_ = Handler()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "allocator_allocations_total")
	assert.Contains(t, body, "allocator_units_shipped_total")
	assert.Contains(t, body, "go_goroutines")
}
