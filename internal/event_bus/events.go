package event_bus

import "time"

const (
	EventTypeCalendarEventPublished EventType = "caldav.event.published"
	EventTypeConnectionTested       EventType = "caldav.connection.tested"
)

// CalendarEventPublished is emitted after the server accepted a new
// calendar object.
type CalendarEventPublished struct {
	// Resource is the object name, e.g. "0b6f...e1.ics".
	Resource string
	URL      string
	UID      string
	Title    string
	Start    time.Time
	End      time.Time
}

// ConnectionTested is emitted after every connection test, successful or not.
type ConnectionTested struct {
	URL string
	OK  bool
	// Kind is the error kind of a failed test, empty on success.
	Kind string
}
