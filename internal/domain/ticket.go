package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// ValidTicketStatus reports whether s is a known status value.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ValidTicketPriority reports whether p is a known priority value.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket is the aggregate for reported incidents.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Status         TicketStatus
	Priority       *TicketPriority
	DeviceID       *string
	AssignedUserID *string
	DepartmentID   string
	ParentTicketID *string
	CreatedByID    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}

// ShortID returns the first eight characters of the ticket id, the form
// embedded in notification messages.
func (t *Ticket) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// CheckClosedConsistency verifies closed_at is set exactly when the ticket
// is closed.
func (t *Ticket) CheckClosedConsistency() error {
	closed := t.Status == TicketStatusClosed
	if closed && t.ClosedAt == nil {
		return fmt.Errorf("ticket %s closed without closed_at", t.ID)
	}
	if !closed && t.ClosedAt != nil {
		return fmt.Errorf("ticket %s has closed_at while in status %s", t.ID, t.Status)
	}
	return nil
}
