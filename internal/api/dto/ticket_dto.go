package dto

import (
	"time"

	"github.com/incidentia/helpdesk/internal/domain"
)

// CreateTicketRequest is the ticket creation payload.
type CreateTicketRequest struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Status         domain.TicketStatus    `json:"status"`
	Priority       *domain.TicketPriority `json:"priority"`
	DeviceID       *string                `json:"device_id"`
	AssignedUserID *string                `json:"assigned_user_id"`
	DepartmentID   string                 `json:"department_id"`
	ParentTicketID *string                `json:"parent_ticket_id"`
}

// UpdateTicketRequest carries partial-update fields; absent fields stay
// unchanged.
type UpdateTicketRequest struct {
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Status         *domain.TicketStatus   `json:"status"`
	Priority       *domain.TicketPriority `json:"priority"`
	DeviceID       *string                `json:"device_id"`
	AssignedUserID *string                `json:"assigned_user_id"`
	DepartmentID   *string                `json:"department_id"`
	ParentTicketID *string                `json:"parent_ticket_id"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Status         domain.TicketStatus    `json:"status"`
	Priority       *domain.TicketPriority `json:"priority,omitempty"`
	DeviceID       *string                `json:"device_id,omitempty"`
	AssignedUserID *string                `json:"assigned_user_id,omitempty"`
	DepartmentID   string                 `json:"department_id"`
	ParentTicketID *string                `json:"parent_ticket_id,omitempty"`
	CreatedByID    string                 `json:"created_by_id"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	ClosedAt       *time.Time             `json:"closed_at"`
}

// StatusHistoryResponse is the wire form of an audit entry.
type StatusHistoryResponse struct {
	ID              string              `json:"id"`
	TicketID        string              `json:"ticket_id"`
	OldStatus       domain.TicketStatus `json:"old_status"`
	NewStatus       domain.TicketStatus `json:"new_status"`
	ChangedByUserID string              `json:"changed_by_user_id"`
	ChangedAt       time.Time           `json:"changed_at"`
}
