package app

import (
	"net/http"

	"github.com/calgapt/calgapt/internal/config"
	"github.com/calgapt/calgapt/internal/event_bus"
	"github.com/calgapt/calgapt/internal/transport"
	"github.com/calgapt/calgapt/internal/utils"
	"github.com/calgapt/calgapt/pkg/caldav"
	"github.com/calgapt/calgapt/pkg/event"
	"github.com/calgapt/calgapt/pkg/ical"
	"github.com/calgapt/calgapt/pkg/settings"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	SettingsStore   settings.Store
	SettingsHandler *settings.Handler

	Encoder       *ical.Encoder
	CalDavService *caldav.Service
	CalDavHandler *caldav.Handler

	EventHandler *event.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	subscribeAuditLog(deps.EventBus)

	deps.SettingsStore = settings.NewMemoryStore(settings.Settings{
		OpenAiApiKey:   cfg.OpenAi.ApiKey,
		CalDavURL:      cfg.CalDav.URL,
		CalDavUsername: cfg.CalDav.Username,
		CalDavPassword: cfg.CalDav.Password,
	})
	deps.SettingsHandler = settings.NewHandler(deps.SettingsStore)

	// Prober and publisher set Authorization themselves; the transport only
	// fills it in for requests that come without one.
	settingsProvider := settings.CalDavProvider(deps.SettingsStore)
	storedCredential := func(req *http.Request) string {
		s, err := settingsProvider(req.Context())
		if err != nil || s.Validate() != nil {
			return ""
		}
		return caldav.BasicAuth(s.Username, s.Password)
	}
	caldavClient := transport.WithCredential(transport.NewHTTPClient(cfg.CalDav.Timeout), storedCredential)
	discoveryClient := &http.Client{
		Timeout:   cfg.CalDav.Timeout,
		Transport: &transport.LoggingTransport{},
	}

	deps.Encoder = ical.NewEncoder(deps.Clock)
	deps.CalDavService = caldav.NewService(
		settingsProvider,
		caldav.NewProber(caldavClient, caldav.RegexClassifier{}),
		caldav.NewPublisher(caldavClient, deps.Encoder),
		caldav.NewDiscoverer(discoveryClient),
		deps.EventBus,
	)
	deps.CalDavHandler = caldav.NewHandler(deps.CalDavService, deps.Encoder)

	deps.EventHandler = event.NewHandler(deps.Clock)

	return deps
}
