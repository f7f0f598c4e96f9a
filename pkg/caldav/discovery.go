package caldav

import (
	"context"
	"fmt"
	"slices"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	webdavcaldav "github.com/emersion/go-webdav/caldav"
	log "github.com/sirupsen/logrus"
)

// Calendar is a calendar collection found on the server.
type Calendar struct {
	Path            string `json:"path"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	URL             string `json:"url"`
	SupportsEvents  bool   `json:"supportsEvents"`
	MaxResourceSize int64  `json:"maxResourceSize,omitempty"`
}

// Discoverer lists the calendars of the account behind a server or
// principal URL, so the user can pick a collection URL to save events to.
type Discoverer struct {
	client webdav.HTTPClient
}

// NewDiscoverer takes a client that follows redirects; servers commonly
// redirect discovery requests to the principal URL.
func NewDiscoverer(client webdav.HTTPClient) *Discoverer {
	return &Discoverer{client: client}
}

func (d *Discoverer) Discover(ctx context.Context, settings Settings) ([]Calendar, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	endpoint := NormalizeURL(settings.URL)
	httpClient := webdav.HTTPClientWithBasicAuth(d.client, settings.Username, settings.Password)
	client, err := webdavcaldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, &Error{Kind: KindConnectionFailed, Err: fmt.Errorf("create CalDAV client: %w", err)}
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, discoveryError(ctx, "find principal", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, discoveryError(ctx, "find calendar home set", err)
	}

	found, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, discoveryError(ctx, "find calendars", err)
	}
	log.Debugf("Discovered %d calendars under %s", len(found), homeSet)

	calendars := make([]Calendar, 0, len(found))
	for _, c := range found {
		calendarURL, ok := resolveRedirect(endpoint, c.Path)
		if !ok {
			calendarURL = c.Path
		}
		calendars = append(calendars, Calendar{
			Path:            c.Path,
			Name:            c.Name,
			Description:     c.Description,
			URL:             NormalizeURL(calendarURL),
			SupportsEvents:  supportsEvents(c.SupportedComponentSet),
			MaxResourceSize: c.MaxResourceSize,
		})
	}
	return calendars, nil
}

// supportsEvents treats a missing component set as "anything goes".
func supportsEvents(components []string) bool {
	return len(components) == 0 || slices.Contains(components, ical.CompEvent)
}

func discoveryError(ctx context.Context, step string, err error) error {
	if ctx.Err() != nil {
		return &Error{Kind: KindTransportError, Err: err}
	}
	log.Errorf("CalDAV discovery failed to %s: %v", step, err)
	return &Error{Kind: KindConnectionFailed, Err: fmt.Errorf("%s: %w", step, err)}
}
