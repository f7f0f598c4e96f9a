package app

import (
	"github.com/calgapt/calgapt/internal/config"
	"github.com/calgapt/calgapt/internal/metrics"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings/caldav", deps.SettingsHandler.UpdateCalDav).Methods("PUT")
	r.HandleFunc("/api/settings/openai", deps.SettingsHandler.UpdateOpenAi).Methods("PUT")

	// CalDAV
	r.HandleFunc("/api/caldav/test", deps.CalDavHandler.TestConnection).Methods("POST")
	r.HandleFunc("/api/caldav/calendars", deps.CalDavHandler.ListCalendars).Methods("GET")

	// Events
	r.HandleFunc("/api/event", deps.CalDavHandler.SaveEvent).Methods("POST")
	r.HandleFunc("/api/event/preview", deps.CalDavHandler.PreviewEvent).Methods("POST")
	r.HandleFunc("/api/event/extracted", deps.EventHandler.DecodeExtracted).Methods("POST")
	r.HandleFunc("/api/event/draft", deps.EventHandler.EditDraft).Methods("POST")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
}
