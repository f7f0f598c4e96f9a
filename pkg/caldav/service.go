package caldav

import (
	"context"
	"fmt"
	"time"

	"github.com/calgapt/calgapt/internal/event_bus"
	"github.com/calgapt/calgapt/internal/metrics"
	"github.com/calgapt/calgapt/pkg/event"
	log "github.com/sirupsen/logrus"
)

// SettingsProviderFunc returns the stored connection settings.
type SettingsProviderFunc func(ctx context.Context) (Settings, error)

// Service runs CalDAV operations against the stored settings and reports
// their outcome on the event bus.
type Service struct {
	settings   SettingsProviderFunc
	prober     *Prober
	publisher  *Publisher
	discoverer *Discoverer
	bus        *event_bus.EventBus
}

func NewService(
	settings SettingsProviderFunc,
	prober *Prober,
	publisher *Publisher,
	discoverer *Discoverer,
	bus *event_bus.EventBus,
) *Service {
	return &Service{
		settings:   settings,
		prober:     prober,
		publisher:  publisher,
		discoverer: discoverer,
		bus:        bus,
	}
}

// TestConnection probes the stored collection URL.
func (s *Service) TestConnection(ctx context.Context) (bool, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read settings: %w", err)
	}
	return s.TestConnectionWith(ctx, settings)
}

// TestConnectionWith probes the given settings without storing them.
func (s *Service) TestConnectionWith(ctx context.Context, settings Settings) (bool, error) {
	start := time.Now()
	ok, err := s.prober.Probe(ctx, settings)
	metrics.ObserveCalDav("probe", outcome(err), start)

	tested := event_bus.ConnectionTested{URL: NormalizeURL(settings.URL), OK: ok}
	if err != nil {
		tested.Kind = KindOf(err).String()
		log.Infof("CalDAV connection test for %s failed: %v", tested.URL, err)
	}
	s.emit(ctx, event_bus.EventTypeConnectionTested, tested)
	return ok, err
}

// SaveEvent validates e and publishes it to the stored collection.
func (s *Service) SaveEvent(ctx context.Context, e event.CalendarEvent) (Resource, error) {
	if err := e.Validate(); err != nil {
		return Resource{}, err
	}
	// Validate guarantees both parse.
	startAt, _ := event.ParseLocal(e.Start)
	endAt, _ := event.ParseLocal(e.End)
	e.Start = event.FormatLocal(startAt)
	e.End = event.FormatLocal(endAt)

	settings, err := s.settings(ctx)
	if err != nil {
		return Resource{}, fmt.Errorf("failed to read settings: %w", err)
	}

	start := time.Now()
	resource, err := s.publisher.Put(ctx, e, settings)
	metrics.ObserveCalDav("publish", outcome(err), start)
	if err != nil {
		return Resource{}, err
	}

	s.emit(ctx, event_bus.EventTypeCalendarEventPublished, event_bus.CalendarEventPublished{
		Resource: resource.Name,
		URL:      resource.URL,
		UID:      resource.UID,
		Title:    e.Title,
		Start:    startAt,
		End:      endAt,
	})

	return resource, nil
}

// DiscoverCalendars lists the calendars reachable with override, or with the
// stored settings when override is nil.
func (s *Service) DiscoverCalendars(ctx context.Context, override *Settings) ([]Calendar, error) {
	var settings Settings
	if override != nil {
		settings = *override
	} else {
		stored, err := s.settings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		settings = stored
	}

	start := time.Now()
	calendars, err := s.discoverer.Discover(ctx, settings)
	metrics.ObserveCalDav("discover", outcome(err), start)
	return calendars, err
}

func (s *Service) emit(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to deliver %s: %v", eventType, err)
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}
