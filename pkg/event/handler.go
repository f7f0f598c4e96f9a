package event

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/calgapt/calgapt/internal/rest"
	"github.com/calgapt/calgapt/internal/utils"
)

const maxExtractedBody = 64 << 10

type Handler struct {
	clock utils.Clock
}

func NewHandler(clock utils.Clock) *Handler {
	return &Handler{clock: clock}
}

// DecodeExtracted accepts the raw text returned by the extraction model,
// fenced or not, and responds with the event it describes. Missing or
// unparseable times are filled in the same way the draft editor does.
func (h *Handler) DecodeExtracted(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxExtractedBody))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Failed to read request body", err.Error())
		return
	}

	e, err := DecodeJSON(string(raw))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid extraction payload", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, NewDraft(e, h.clock).Event())
}

// DraftEdit is a set of changes applied to an extracted event. Empty fields
// leave the draft as it is.
type DraftEdit struct {
	Event           CalendarEvent `json:"event"`
	Start           string        `json:"start,omitempty"`
	DurationMinutes *int          `json:"durationMinutes,omitempty"`
	AddReminders    []int         `json:"addReminders,omitempty"`
	RemoveReminders []int         `json:"removeReminders,omitempty"`
}

// EditDraft applies a DraftEdit and responds with the resulting event.
func (h *Handler) EditDraft(w http.ResponseWriter, r *http.Request) {
	var edit DraftEdit
	if err := json.NewDecoder(io.LimitReader(r.Body, maxExtractedBody)).Decode(&edit); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid draft edit", err.Error())
		return
	}

	draft := NewDraft(edit.Event, h.clock)
	if edit.Start != "" {
		start, err := ParseLocal(edit.Start)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid start time", err.Error())
			return
		}
		draft.SetStart(start)
	}
	if edit.DurationMinutes != nil {
		draft.SetDurationMinutes(*edit.DurationMinutes)
	}
	for _, m := range edit.RemoveReminders {
		draft.RemoveReminder(m)
	}
	for _, m := range edit.AddReminders {
		draft.AddReminder(m)
	}

	rest.WriteJSON(w, http.StatusOK, draft.Event())
}
