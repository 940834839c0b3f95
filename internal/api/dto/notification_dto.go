package dto

import (
	"time"

	"github.com/incidentia/helpdesk/internal/domain"
)

// NotificationResponse is a notification joined with the caller's
// delivery state.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	TicketID  *string                 `json:"ticket_id,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	ReadAt    *time.Time              `json:"read_at"`
}
