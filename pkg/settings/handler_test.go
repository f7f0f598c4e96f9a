package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Get(t *testing.T) {
	store := NewMemoryStore(Settings{CalDavURL: "https://x/cal/", CalDavUsername: "u", CalDavPassword: "secret-password"})
	handler := NewHandler(store)
	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "https://x/cal/", body["calDavUrl"])
	assert.Equal(t, "****word", body["calDavPassword"])
	assert.Equal(t, []any{"OpenAI API key"}, body["missing"])
	assert.Contains(t, body["message"], "Missing configuration: OpenAI API key.")
}

func TestHandler_UpdateCalDav(t *testing.T) {
	t.Run("should store trimmed settings", func(t *testing.T) {
		store := NewMemoryStore(Settings{})
		handler := NewHandler(store)
		body := `{"url":" https://x/cal ","username":" u ","password":" p "}`
		req := httptest.NewRequest(http.MethodPut, "/api/settings/caldav", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.UpdateCalDav(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		s, err := store.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "https://x/cal", s.CalDavURL)
		assert.Equal(t, "u", s.CalDavUsername)
		assert.Equal(t, " p ", s.CalDavPassword, "passwords are stored verbatim")
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		handler := NewHandler(NewMemoryStore(Settings{}))
		req := httptest.NewRequest(http.MethodPut, "/api/settings/caldav", strings.NewReader("nope"))
		w := httptest.NewRecorder()

		handler.UpdateCalDav(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_UpdateOpenAi(t *testing.T) {
	store := NewMemoryStore(Settings{})
	handler := NewHandler(store)
	req := httptest.NewRequest(http.MethodPut, "/api/settings/openai", strings.NewReader(`{"apiKey":"sk-123"}`))
	w := httptest.NewRecorder()

	handler.UpdateOpenAi(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	s, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-123", s.OpenAiApiKey)
}
