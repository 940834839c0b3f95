package events

import (
	"time"

	"github.com/incidentia/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventCommentAdded        EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID string                 `json:"department_id"`
	Priority     *domain.TicketPriority `json:"priority,omitempty"`
	Title        string                 `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedUserID *string `json:"assigned_user_id,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID       string  `json:"comment_id"`
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
	TextPreview     string  `json:"text_preview"`
}
