package caldav

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a CalDAV failure so callers can tell an authentication
// problem from a wrong URL or a broken server.
type Kind int

const (
	KindMissingCredentials Kind = iota + 1
	KindAuthenticationFailed
	KindNotFound
	KindNotACalendarCollection
	KindConnectionFailed
	KindPublishFailed
	KindTransportError
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing_credentials"
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindNotFound:
		return "not_found"
	case KindNotACalendarCollection:
		return "not_a_calendar_collection"
	case KindConnectionFailed:
		return "connection_failed"
	case KindPublishFailed:
		return "publish_failed"
	case KindTransportError:
		return "transport_error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every CalDAV operation in this package.
type Error struct {
	Kind Kind
	// StatusCode and Status hold the HTTP status code and reason phrase of the
	// response that caused the failure, if there was one.
	StatusCode int
	Status     string
	// Body is a truncated copy of the response body for diagnostics.
	Body string
	// Redirected is set when the failing response came from the retry after a
	// redirect.
	Redirected bool
	// Missing names the blank settings for KindMissingCredentials.
	Missing []string
	// Hint is extra guidance appended to the message.
	Hint string
	Err  error
}

var (
	ErrMissingCredentials     = &Error{Kind: KindMissingCredentials}
	ErrAuthenticationFailed   = &Error{Kind: KindAuthenticationFailed}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrNotACalendarCollection = &Error{Kind: KindNotACalendarCollection}
	ErrConnectionFailed       = &Error{Kind: KindConnectionFailed}
	ErrPublishFailed          = &Error{Kind: KindPublishFailed}
	ErrTransport              = &Error{Kind: KindTransportError}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindMissingCredentials:
		msg = "missing CalDAV credentials"
		if len(e.Missing) > 0 {
			msg += " (" + strings.Join(e.Missing, ", ") + ")"
		}
	case KindAuthenticationFailed:
		msg = fmt.Sprintf("authentication failed%s (HTTP %d)", e.afterRedirect(), e.StatusCode)
	case KindNotFound:
		msg = fmt.Sprintf("no calendar was found at this URL%s (HTTP %d)", e.afterRedirect(), e.StatusCode)
	case KindNotACalendarCollection:
		msg = "connected, but this URL does not appear to be a calendar collection"
	case KindConnectionFailed:
		if e.StatusCode == 0 {
			msg = fmt.Sprintf("connection failed%s: %v", e.afterRedirect(), e.Err)
		} else {
			msg = fmt.Sprintf("connection failed%s: %d %s. Response: %s", e.afterRedirect(), e.StatusCode, e.Status, e.Body)
		}
	case KindPublishFailed:
		if e.StatusCode == 0 {
			msg = fmt.Sprintf("failed to save event: %v", e.Err)
		} else {
			msg = fmt.Sprintf("failed to save event: %d %s. Response: %s", e.StatusCode, e.Status, e.Body)
		}
	case KindTransportError:
		msg = fmt.Sprintf("CalDAV request failed: %v", e.Err)
	default:
		msg = "CalDAV error"
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *Error) afterRedirect() string {
	if e.Redirected {
		return " after redirect"
	}
	return ""
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, caldav.ErrNotFound) works for any not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of a CalDAV error, or 0 if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// UserMessage turns an error into guidance that can be shown to the user.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindMissingCredentials:
		return "CalDAV settings are missing. Please go to Settings, save them, then test the CalDAV connection."
	case KindAuthenticationFailed:
		return "CalDAV authentication failed. Please verify the username/password and use 'Test Connection' again."
	case KindNotFound:
		return "No calendar was found at this URL. Please paste the URL of a specific calendar collection."
	case KindNotACalendarCollection:
		return "Connected, but this URL does not appear to be a calendar collection. Please paste the URL of a specific calendar."
	case KindConnectionFailed, KindPublishFailed:
		return "CalDAV connection error. Please go to Settings and use 'Test Connection'."
	case KindTransportError:
		return "Network error. Please check your connection and try again."
	}
	return "Please go to Settings and test the CalDAV connection."
}
