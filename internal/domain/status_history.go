package domain

import "time"

// StatusHistory is an immutable audit entry for a ticket status transition.
type StatusHistory struct {
	ID              string
	TicketID        string
	OldStatus       TicketStatus
	NewStatus       TicketStatus
	ChangedByUserID string
	ChangedAt       time.Time
}
