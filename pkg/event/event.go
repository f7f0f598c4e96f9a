package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalLayout is the naive local date-time format used for Start and End.
const LocalLayout = "2006-01-02T15:04:05"

const shortLocalLayout = "2006-01-02T15:04"

var ErrInvalidEvent = errors.New("invalid calendar event")

// CalendarEvent is the structured event produced by the extraction stage and
// reviewed by the user before it is published.
type CalendarEvent struct {
	Title            string `json:"title"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	RemindersMinutes []int  `json:"remindersMinutes"`
}

// ParseLocal parses a naive local date-time. Seconds are optional.
func ParseLocal(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(LocalLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(shortLocalLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a local date-time (expected %s)", value, LocalLayout)
	}
	return t, nil
}

// FormatLocal renders t in LocalLayout, ignoring its location.
func FormatLocal(t time.Time) string {
	return t.Format(LocalLayout)
}

// Validate checks the fields that must hold before an event is encoded.
// End is not required to be after Start.
func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if _, err := ParseLocal(e.Start); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidEvent, err)
	}
	if _, err := ParseLocal(e.End); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidEvent, err)
	}
	return nil
}

// DecodeJSON decodes the extraction payload. Language models sometimes wrap
// the object in a markdown code fence; it is stripped before decoding.
func DecodeJSON(raw string) (CalendarEvent, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var e CalendarEvent
	if err := json.Unmarshal([]byte(content), &e); err != nil {
		return CalendarEvent{}, fmt.Errorf("%w: decode payload: %v", ErrInvalidEvent, err)
	}
	if e.RemindersMinutes == nil {
		e.RemindersMinutes = []int{}
	}
	return e, nil
}
