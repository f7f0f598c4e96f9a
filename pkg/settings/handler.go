package settings

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/calgapt/calgapt/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store Store
}

type SettingsDTO struct {
	Settings
	Missing []string `json:"missing"`
	Message string   `json:"message,omitempty"`
}

type CalDavDTO struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type OpenAiDTO struct {
	ApiKey string `json:"apiKey"`
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Get returns the current settings with secrets masked and the list of
// settings that still have to be filled in.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Current(r.Context())
	if err != nil {
		log.Errorf("failed to read settings: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	missing := s.Missing()
	if missing == nil {
		missing = []string{}
	}
	rest.WriteJSON(w, http.StatusOK, SettingsDTO{
		Settings: s.Masked(),
		Missing:  missing,
		Message:  s.MissingMessage(),
	})
}

func (h *Handler) UpdateCalDav(w http.ResponseWriter, r *http.Request) {
	var dto CalDavDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	err := h.store.UpdateCalDav(r.Context(), strings.TrimSpace(dto.URL), strings.TrimSpace(dto.Username), dto.Password)
	if err != nil {
		log.Errorf("failed to update CalDAV settings: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateOpenAi(w http.ResponseWriter, r *http.Request) {
	var dto OpenAiDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.store.UpdateOpenAiApiKey(r.Context(), strings.TrimSpace(dto.ApiKey)); err != nil {
		log.Errorf("failed to update OpenAI API key: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
