package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/calgapt/calgapt/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarResponse = `<?xml version="1.0" encoding="utf-8"?>
<d:multistatus xmlns:d="DAV:" xmlns:cal="urn:ietf:params:xml:ns:caldav">
  <d:response>
    <d:href>/cal/</d:href>
    <d:propstat>
      <d:prop><d:resourcetype><d:collection/><cal:calendar/></d:resourcetype></d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

type fakeServer struct {
	mu   sync.Mutex
	puts map[string]string
}

func newCalendarServer(t *testing.T) (*httptest.Server, *fakeServer) {
	fake := &fakeServer{puts: map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, p, ok := r.BasicAuth(); !ok || u != "user" || p != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case "PROPFIND":
			w.WriteHeader(http.StatusMultiStatus)
			_, _ = w.Write([]byte(calendarResponse))
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			fake.mu.Lock()
			fake.puts[r.URL.Path] = string(body)
			fake.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(server.Close)
	return server, fake
}

func newTestApp(cfg config.Application) http.Handler {
	return New(cfg).Handler()
}

func TestApplication_Routes(t *testing.T) {
	server, fake := newCalendarServer(t)
	cfg := config.Defaults()
	cfg.CalDav.Timeout = 5 * time.Second
	handler := newTestApp(cfg)

	t.Run("should report missing settings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Missing configuration: OpenAI API key, CalDAV URL, CalDAV username, CalDAV password.")
	})

	t.Run("should reject saving before CalDAV is configured", func(t *testing.T) {
		body := `{"title":"Dentist","start":"2026-01-20T10:00:00","end":"2026-01-20T10:30:00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/event", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "CalDAV settings are missing")
	})

	t.Run("should store settings, test them and save an event", func(t *testing.T) {
		settingsBody := `{"url":"` + server.URL + `/cal","username":"user","password":"pass"}`
		req := httptest.NewRequest(http.MethodPut, "/api/settings/caldav", strings.NewReader(settingsBody))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/caldav/test", nil)
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		eventBody := `{"title":"Dentist","start":"2026-01-20T10:00:00","end":"2026-01-20T10:30:00","remindersMinutes":[30]}`
		req = httptest.NewRequest(http.MethodPost, "/api/event", strings.NewReader(eventBody))
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resource struct {
			URL  string `json:"url"`
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resource))
		assert.Equal(t, server.URL+"/cal/"+resource.Name, resource.URL)

		fake.mu.Lock()
		stored := fake.puts["/cal/"+resource.Name]
		fake.mu.Unlock()
		assert.Contains(t, stored, "SUMMARY:Dentist\r\n")
		assert.Contains(t, stored, "TRIGGER:-PT30M\r\n")
	})

	t.Run("should expose metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "calgapt_caldav_operations_total")
	})

	t.Run("should reject unknown methods", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/settings", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestApplication_MetricsDisabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Metrics.Enabled = false
	handler := newTestApp(cfg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
