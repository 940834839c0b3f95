package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/incidentia/helpdesk/internal/api/dto"
	"github.com/incidentia/helpdesk/internal/auth"
	"github.com/incidentia/helpdesk/internal/service"
	apperrors "github.com/incidentia/helpdesk/pkg/util"
)

// NotificationsHandler serves the caller's notification inbox.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePage(c)
	notifications, total, err := h.notifications.ListForUser(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			TicketID:  n.TicketID,
			CreatedAt: n.CreatedAt,
			ReadAt:    n.ReadAt,
		})
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkRead PATCH /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.notifications.MarkRead(c.UserContext(), c.Params("id"), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MarkAllRead PATCH /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.notifications.MarkAllRead(c.UserContext(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Hide DELETE /notifications/:id.
func (h *NotificationsHandler) Hide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.notifications.Hide(c.UserContext(), c.Params("id"), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
