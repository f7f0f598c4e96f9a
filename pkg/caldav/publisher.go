package caldav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/calgapt/calgapt/pkg/event"
	"github.com/calgapt/calgapt/pkg/ical"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxPublishDiagnosticBody = 800

const missingSettingsHint = "Please go to Settings and fill them in, then test the CalDAV connection"

// Resource describes a calendar object stored on the server.
type Resource struct {
	URL  string `json:"url"`
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// Publisher uploads events as new calendar objects.
type Publisher struct {
	client  HTTPClient
	encoder *ical.Encoder
	newName func() string
}

func NewPublisher(client HTTPClient, encoder *ical.Encoder) *Publisher {
	if encoder == nil {
		encoder = ical.NewEncoder(nil)
	}
	return &Publisher{
		client:  client,
		encoder: encoder,
		newName: func() string { return uuid.NewString() + ".ics" },
	}
}

// Publish stores e in the collection described by settings. It returns true
// when the server accepted the object.
func (p *Publisher) Publish(ctx context.Context, e event.CalendarEvent, settings Settings) (bool, error) {
	if _, err := p.Put(ctx, e, settings); err != nil {
		return false, err
	}
	return true, nil
}

// Put uploads e under a new random resource name with a single PUT and
// returns where it was stored. The request is not retried.
func (p *Publisher) Put(ctx context.Context, e event.CalendarEvent, settings Settings) (Resource, error) {
	if err := settings.Validate(); err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.Hint = missingSettingsHint
		}
		return Resource{}, err
	}

	credential := BasicAuth(settings.Username, settings.Password)
	object := p.encoder.EncodeObject(e)
	name := p.newName()
	target := JoinResource(strings.TrimSpace(settings.URL), name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, strings.NewReader(object.Data))
	if err != nil {
		return Resource{}, &Error{Kind: KindPublishFailed, Err: fmt.Errorf("invalid URL %q: %w", target, err)}
	}
	req.Header.Set("Authorization", credential)
	req.Header.Set("Content-Type", "text/calendar")

	resp, err := p.client.Do(req)
	if err != nil {
		log.Errorf("CalDAV PUT %s failed: %v", target, err)
		return Resource{}, &Error{Kind: KindTransportError, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := readLimited(resp.Body, maxPublishDiagnosticBody)
		err := &Error{
			Kind:       KindPublishFailed,
			StatusCode: resp.StatusCode,
			Status:     reasonPhrase(resp),
			Body:       body,
		}
		log.Errorf("CalDAV PUT %s rejected: %v", target, err)
		return Resource{}, err
	}

	log.Debugf("Stored event %q as %s (HTTP %d)", e.Title, target, resp.StatusCode)
	return Resource{URL: target, UID: object.UID, Name: name}, nil
}
