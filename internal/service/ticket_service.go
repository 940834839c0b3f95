package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/events"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

// ticketRefConstraints maps foreign-key constraint names to the request
// field that carried the invalid reference.
var ticketRefConstraints = map[string]string{
	"tickets_department_id_fkey":    "department_id",
	"tickets_device_id_fkey":        "device_id",
	"tickets_assigned_user_id_fkey": "assigned_user_id",
	"tickets_parent_ticket_id_fkey": "parent_ticket_id",
	"tickets_created_by_id_fkey":    "created_by_id",
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	db         repository.TxBeginner
	tickets    repository.TicketRepository
	history    *StatusHistoryService
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	DB         repository.TxBeginner
	TicketRepo repository.TicketRepository
	History    *StatusHistoryService
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		db:         deps.DB,
		tickets:    deps.TicketRepo,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes a ticket creation payload.
type TicketCreateInput struct {
	Title          string
	Description    string
	Status         domain.TicketStatus
	Priority       *domain.TicketPriority
	DeviceID       *string
	AssignedUserID *string
	DepartmentID   string
	ParentTicketID *string
}

// TicketPatch carries partial-update fields; nil means "leave unchanged".
type TicketPatch struct {
	Title          *string
	Description    *string
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	DeviceID       *string
	AssignedUserID *string
	DepartmentID   *string
	ParentTicketID *string
}

// TicketListFilter describes listing parameters.
type TicketListFilter struct {
	DepartmentID   *string
	AssignedUserID *string
	DeviceID       *string
	CreatedByID    *string
	Statuses       []domain.TicketStatus
	Priorities     []domain.TicketPriority
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	SortBy         string
	SortDesc       bool
	Limit          int
	Offset         int
}

// Create persists a new ticket. Creation directly into CLOSED is rejected.
func (s *TicketService) Create(ctx context.Context, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || input.DepartmentID == "" {
		return nil, util.NewValidationError("title, description and department_id are required", nil)
	}

	status := input.Status
	if status == "" {
		status = domain.TicketStatusOpen
	}
	if !domain.ValidTicketStatus(status) {
		return nil, util.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}
	if status == domain.TicketStatusClosed {
		return nil, util.NewValidationError("ticket cannot be created in CLOSED status", nil)
	}
	if input.Priority != nil && !domain.ValidTicketPriority(*input.Priority) {
		return nil, util.NewValidationError("invalid priority", map[string]any{"priority": string(*input.Priority)})
	}

	ticket := &domain.Ticket{
		Title:          title,
		Description:    description,
		Status:         status,
		Priority:       input.Priority,
		DeviceID:       input.DeviceID,
		AssignedUserID: input.AssignedUserID,
		DepartmentID:   input.DepartmentID,
		ParentTicketID: input.ParentTicketID,
		CreatedByID:    actorID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, mapTicketWriteError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// Get fetches a ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// List returns a page of tickets plus the total matching count.
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, int64, error) {
	for _, status := range filter.Statuses {
		if !domain.ValidTicketStatus(status) {
			return nil, 0, util.NewValidationError("invalid status filter", map[string]any{"status": string(status)})
		}
	}
	for _, priority := range filter.Priorities {
		if !domain.ValidTicketPriority(priority) {
			return nil, 0, util.NewValidationError("invalid priority filter", map[string]any{"priority": string(priority)})
		}
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		DepartmentID:   filter.DepartmentID,
		AssignedUserID: filter.AssignedUserID,
		DeviceID:       filter.DeviceID,
		CreatedByID:    filter.CreatedByID,
		Statuses:       filter.Statuses,
		Priorities:     filter.Priorities,
		SearchTerm:     filter.SearchTerm,
		CreatedFrom:    filter.CreatedFrom,
		CreatedTo:      filter.CreatedTo,
		SortBy:         filter.SortBy,
		SortDesc:       filter.SortDesc,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
}

// Update applies a partial patch. A transition into CLOSED stamps
// closed_at; a transition out of CLOSED clears it. Status changes append
// a history entry atomically with the ticket update.
func (s *TicketService) Update(ctx context.Context, actorID, id string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ParentTicketID != nil && *patch.ParentTicketID == ticket.ID {
		return nil, util.NewValidationError("ticket cannot be its own parent", nil)
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, util.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, util.NewValidationError("description cannot be empty", nil)
		}
		ticket.Description = description
	}
	if patch.Priority != nil {
		if !domain.ValidTicketPriority(*patch.Priority) {
			return nil, util.NewValidationError("invalid priority", map[string]any{"priority": string(*patch.Priority)})
		}
		ticket.Priority = patch.Priority
	}
	if patch.DeviceID != nil {
		ticket.DeviceID = patch.DeviceID
	}
	if patch.AssignedUserID != nil {
		ticket.AssignedUserID = patch.AssignedUserID
	}
	if patch.DepartmentID != nil {
		ticket.DepartmentID = *patch.DepartmentID
	}
	if patch.ParentTicketID != nil {
		ticket.ParentTicketID = patch.ParentTicketID
	}

	oldStatus := ticket.Status
	statusChanged := false
	if patch.Status != nil {
		if !domain.ValidTicketStatus(*patch.Status) {
			return nil, util.NewValidationError("invalid status", map[string]any{"status": string(*patch.Status)})
		}
		statusChanged = *patch.Status != oldStatus
		ticket.Status = *patch.Status
	}

	if statusChanged {
		if ticket.Status == domain.TicketStatusClosed {
			if ticket.ClosedAt == nil {
				now := time.Now()
				ticket.ClosedAt = &now
			}
		} else if ticket.ClosedAt != nil {
			ticket.ClosedAt = nil
		}

		err = repository.InTx(ctx, s.db, func(tx pgx.Tx) error {
			if err := s.tickets.WithTx(tx).Update(ctx, ticket); err != nil {
				return err
			}
			_, err := s.history.LogChangeInTx(ctx, tx, StatusChangeInput{
				TicketID:        ticket.ID,
				OldStatus:       oldStatus,
				NewStatus:       ticket.Status,
				ChangedByUserID: actorID,
			})
			return err
		})
	} else {
		err = s.tickets.Update(ctx, ticket)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, mapTicketWriteError(err)
	}

	if statusChanged {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  actorID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if patch.AssignedUserID != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  actorID,
			Payload: events.TicketAssignedPayload{
				AssignedUserID: ticket.AssignedUserID,
			},
		})
	}
	return ticket, nil
}

// Delete removes a ticket; its comments and history cascade in the store.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("ticket", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func mapTicketWriteError(err error) error {
	if constraint, ok := util.IsForeignKeyViolation(err); ok {
		field := ticketRefConstraints[constraint]
		if field == "" {
			field = constraint
		}
		return util.NewValidationError("invalid reference", map[string]any{"reference": field})
	}
	return err
}
