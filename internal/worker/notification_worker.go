package worker

import (
	"github.com/incidentia/helpdesk/internal/service"
)

// StartNotificationWorker registers event-observer handlers.
func StartNotificationWorker(notifier *service.EventNotifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
