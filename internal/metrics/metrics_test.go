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

func TestObserveHTTPRequest(t *testing.T) {
	m := NewManager()

	m.ObserveHTTPRequest("/api/friends/{id}", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	m.ObserveHTTPRequest("/api/friends/{id}", http.MethodGet, http.StatusOK, 7*time.Millisecond)
	m.ObserveHTTPRequest("/api/friends/{id}", http.MethodGet, http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/friends/{id}", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/friends/{id}", "GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequestDuration))
}

func TestObserveStoreOperation(t *testing.T) {
	m := NewManager(WithBuckets([]float64{0.01, 0.1, 1}))

	m.ObserveStoreOperation("create", "ok", time.Millisecond)
	m.ObserveStoreOperation("get", "not_found", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("get", "not_found")))
}

func TestManagersAreIndependent(t *testing.T) {
	a, b := NewManager(), NewManager()
	a.ObserveStoreOperation("list", "ok", time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.storeOperations.WithLabelValues("list", "ok")))
}

func TestHandlerServesExposition(t *testing.T) {
	m := NewManager()
	m.ObserveStoreOperation("delete", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `friends_api_store_operations_total{operation="delete",result="ok"} 1`)
}
