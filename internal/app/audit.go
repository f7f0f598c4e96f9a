package app

import (
	"github.com/calgapt/calgapt/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

func subscribeAuditLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.EventTypeCalendarEventPublished,
		func(e event_bus.EventT[event_bus.CalendarEventPublished]) error {
			log.WithFields(log.Fields{
				"url":   e.Data.URL,
				"uid":   e.Data.UID,
				"start": e.Data.Start,
				"end":   e.Data.End,
			}).Infof("Event %q saved to calendar", e.Data.Title)
			return nil
		})

	event_bus.SubscribeTyped(bus, event_bus.EventTypeConnectionTested,
		func(e event_bus.EventT[event_bus.ConnectionTested]) error {
			entry := log.WithField("url", e.Data.URL)
			if e.Data.OK {
				entry.Info("CalDAV connection test succeeded")
			} else {
				entry.WithField("kind", e.Data.Kind).Warn("CalDAV connection test failed")
			}
			return nil
		})
}
