package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/friends-api/internal/metrics"
	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/storage/memory"
	"github.com/aanand-mishra/friends-api/internal/types"
)

func newTestServer(t *testing.T, store storage.Storage) *httptest.Server {
	t.Helper()
	m := metrics.NewManager()
	srv := httptest.NewServer(NewRouter(storage.Instrument(store, m), m))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestFriendLifecycle(t *testing.T) {
	srv := newTestServer(t, memory.New())

	resp, body := call(t, srv, http.MethodPost, "/api/friends", `{"firstName":"Ann","lastName":"Lee","age":30}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ann types.Friend
	require.NoError(t, json.Unmarshal(body, &ann))
	require.NotEmpty(t, ann.ID)
	assert.Equal(t, types.Friend{ID: ann.ID, FirstName: "Ann", LastName: "Lee", Age: 30}, ann)

	resp, body = call(t, srv, http.MethodGet, "/api/friends/"+ann.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched types.Friend
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, ann, fetched)

	resp, body = call(t, srv, http.MethodGet, "/api/friends", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []types.Friend
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Contains(t, all, ann)

	resp, body = call(t, srv, http.MethodDelete, "/api/friends/"+ann.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var removed types.Friend
	require.NoError(t, json.Unmarshal(body, &removed))
	assert.Equal(t, ann, removed)

	resp, body = call(t, srv, http.MethodDelete, "/api/friends/"+ann.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"The friend with the specified ID does not exist."}`, string(body))

	resp, body = call(t, srv, http.MethodPut, "/api/friends/"+ann.ID, `{"firstName":"Ann","lastName":"Lee","age":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"errorMessage":"Age must be a whole number between 1 and 120"}`, string(body))
}

func TestListIsEmptyArray(t *testing.T) {
	srv := newTestServer(t, memory.New())

	resp, body := call(t, srv, http.MethodGet, "/api/friends", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestCreatedIDsAreUnique(t *testing.T) {
	srv := newTestServer(t, memory.New())

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		resp, body := call(t, srv, http.MethodPost, "/api/friends", `{"firstName":"Ann","lastName":"Lee","age":30}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var f types.Friend
		require.NoError(t, json.Unmarshal(body, &f))
		assert.False(t, seen[f.ID])
		seen[f.ID] = true
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	srv := newTestServer(t, memory.New())

	_, body := call(t, srv, http.MethodPost, "/api/friends", `{"firstName":"Ann","lastName":"Lee","age":30}`)
	var ann types.Friend
	require.NoError(t, json.Unmarshal(body, &ann))

	resp, body := call(t, srv, http.MethodPut, "/api/friends/"+ann.ID, `{"firstName":"Anne","lastName":"Li","age":31}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"`+ann.ID+`","firstName":"Anne","lastName":"Li","age":31}`, string(body))

	_, body = call(t, srv, http.MethodGet, "/api/friends/"+ann.ID, "")
	assert.JSONEq(t, `{"id":"`+ann.ID+`","firstName":"Anne","lastName":"Li","age":31}`, string(body))
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	srv := newTestServer(t, memory.New())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/friends", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", resp.Header.Get("X-XSS-Protection"))
	assert.Equal(t, "off", resp.Header.Get("X-DNS-Prefetch-Control"))
	assert.Equal(t, "noopen", resp.Header.Get("X-Download-Options"))
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(t, memory.New())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/friends/abc", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

type downStore struct{ *memory.Memory }

func (downStore) Ping(context.Context) error { return errors.New("no reachable servers") }

func TestHealth(t *testing.T) {
	resp, body := call(t, newTestServer(t, memory.New()), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, _ = call(t, newTestServer(t, downStore{memory.New()}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, memory.New())

	call(t, srv, http.MethodGet, "/api/friends/missing", "")

	resp, body := call(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `friends_api_http_requests_total{method="GET",route="/api/friends/{id}",status="404"} 1`)
	assert.Contains(t, string(body), `friends_api_store_operations_total{operation="get",result="not_found"} 1`)
}

func TestPanicIsCountedAs500(t *testing.T) {
	m := metrics.NewManager()
	router := NewRouter(memory.New(), m).(*chi.Mux)
	router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, _ := call(t, srv, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	_, body := call(t, srv, http.MethodGet, "/metrics", "")
	assert.Contains(t, string(body), `friends_api_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}
