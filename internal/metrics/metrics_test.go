package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware())
	r.HandleFunc("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods("GET")

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/items/{id}"))

	req := httptest.NewRequest(http.MethodGet, "/api/items/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/items/{id}"))
	assert.Equal(t, before+1, after, "requests are labelled with the route template, not the raw path")
}

func TestObserveCalDav(t *testing.T) {
	before := testutil.ToFloat64(caldavRequestsTotal.WithLabelValues("probe", "ok"))

	ObserveCalDav("probe", "ok", time.Now().Add(-50*time.Millisecond))

	assert.Equal(t, before+1, testutil.ToFloat64(caldavRequestsTotal.WithLabelValues("probe", "ok")))
}

func TestHandler(t *testing.T) {
	ObserveCalDav("publish", "publish_failed", time.Now())

	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `calgapt_caldav_operations_total{operation="publish",outcome="publish_failed"}`)
}
