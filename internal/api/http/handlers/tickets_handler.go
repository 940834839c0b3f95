package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/incidentia/helpdesk/internal/api/dto"
	"github.com/incidentia/helpdesk/internal/auth"
	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/internal/service"
	apperrors "github.com/incidentia/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	history *service.StatusHistoryService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService, history *service.StatusHistoryService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, history: history}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), principal.User.ID, service.TicketCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DeviceID:       req.DeviceID,
		AssignedUserID: req.AssignedUserID,
		DepartmentID:   req.DepartmentID,
		ParentTicketID: req.ParentTicketID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, total, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Update(c.UserContext(), principal.User.ID, c.Params("id"), service.TicketPatch{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DeviceID:       req.DeviceID,
		AssignedUserID: req.AssignedUserID,
		DepartmentID:   req.DepartmentID,
		ParentTicketID: req.ParentTicketID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	if err := h.tickets.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	// existence check so missing tickets 404 instead of returning an
	// empty page
	if _, err := h.tickets.Get(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	ticketID := c.Params("id")
	limit, offset := parsePage(c)
	sortBy, desc := parseSort(c)
	filter := repository.StatusHistoryFilter{
		TicketID:        &ticketID,
		ChangedByUserID: optionalQuery(c, "changed_by"),
		ChangedFrom:     parseTime(c.Query("changed_from")),
		ChangedTo:       parseTime(c.Query("changed_to")),
		SortBy:          sortBy,
		SortDesc:        desc,
		Limit:           limit,
		Offset:          offset,
	}
	if val := c.Query("old_status"); val != "" {
		status := domain.TicketStatus(val)
		filter.OldStatus = &status
	}
	if val := c.Query("new_status"); val != "" {
		status := domain.TicketStatus(val)
		filter.NewStatus = &status
	}

	entries, total, err := h.history.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.StatusHistoryResponse{
			ID:              entry.ID,
			TicketID:        entry.TicketID,
			OldStatus:       entry.OldStatus,
			NewStatus:       entry.NewStatus,
			ChangedByUserID: entry.ChangedByUserID,
			ChangedAt:       entry.ChangedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	limit, offset := parsePage(c)
	sortBy, desc := parseSort(c)
	filter := service.TicketListFilter{
		DepartmentID:   optionalQuery(c, "department_id"),
		AssignedUserID: optionalQuery(c, "assigned_user_id"),
		DeviceID:       optionalQuery(c, "device_id"),
		CreatedByID:    optionalQuery(c, "created_by"),
		SearchTerm:     optionalQuery(c, "search"),
		CreatedFrom:    parseTime(c.Query("created_from")),
		CreatedTo:      parseTime(c.Query("created_to")),
		SortBy:         sortBy,
		SortDesc:       desc,
		Limit:          limit,
		Offset:         offset,
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	return filter
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             ticket.ID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		DeviceID:       ticket.DeviceID,
		AssignedUserID: ticket.AssignedUserID,
		DepartmentID:   ticket.DepartmentID,
		ParentTicketID: ticket.ParentTicketID,
		CreatedByID:    ticket.CreatedByID,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
		ClosedAt:       ticket.ClosedAt,
	}
}
