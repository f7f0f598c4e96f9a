package caldav

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/calgapt/calgapt/internal/rest"
	"github.com/calgapt/calgapt/pkg/event"
	"github.com/calgapt/calgapt/pkg/ical"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	encoder *ical.Encoder
}

type ConnectionResultDTO struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func NewHandler(service *Service, encoder *ical.Encoder) *Handler {
	return &Handler{service: service, encoder: encoder}
}

// TestConnection probes the stored settings, or the settings in the request
// body when one is sent.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	override, err := decodeOptionalSettings(r)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if override != nil {
		_, err = h.service.TestConnectionWith(r.Context(), *override)
	} else {
		_, err = h.service.TestConnection(r.Context())
	}
	if err != nil {
		writeCalDavError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, ConnectionResultDTO{OK: true, Message: "Connection successful"})
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	calendars, err := h.service.DiscoverCalendars(r.Context(), nil)
	if err != nil {
		writeCalDavError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, calendars)
}

func (h *Handler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	var e event.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resource, err := h.service.SaveEvent(r.Context(), e)
	if err != nil {
		writeCalDavError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, resource)
}

// PreviewEvent returns the calendar object that SaveEvent would upload.
func (h *Handler) PreviewEvent(w http.ResponseWriter, r *http.Request) {
	var e event.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := e.Validate(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, h.encoder.Encode(e)); err != nil {
		log.Errorf("failed to write preview: %v", err)
	}
}

func decodeOptionalSettings(r *http.Request) (*Settings, error) {
	if r.Body == nil {
		return nil, nil
	}
	var s Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// StatusFor maps an error from this package onto an HTTP status code.
func StatusFor(err error) int {
	if errors.Is(err, event.ErrInvalidEvent) {
		return http.StatusBadRequest
	}
	switch KindOf(err) {
	case KindMissingCredentials:
		return http.StatusBadRequest
	case KindAuthenticationFailed:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindNotACalendarCollection:
		return http.StatusUnprocessableEntity
	case KindConnectionFailed, KindPublishFailed, KindTransportError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeCalDavError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := UserMessage(err)
	switch {
	case errors.Is(err, event.ErrInvalidEvent):
		message = "Invalid event"
	case status == http.StatusInternalServerError:
		log.Errorf("unexpected CalDAV error: %v", err)
		message = "Internal error"
	}
	rest.WriteError(w, status, message, err.Error())
}
