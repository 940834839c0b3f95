package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/incidentia/helpdesk/internal/api/dto"
	"github.com/incidentia/helpdesk/internal/auth"
	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/service"
	apperrors "github.com/incidentia/helpdesk/pkg/util"
)

// CommentsHandler manages ticket comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs the handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// Create POST /tickets/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Create(c.UserContext(), principal.User.ID, c.Params("id"), req.Text, req.ParentCommentID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// List GET /tickets/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	comments, total, err := h.comments.ListByTicket(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:              comment.ID,
		TicketID:        comment.TicketID,
		UserID:          comment.UserID,
		ParentCommentID: comment.ParentCommentID,
		Text:            comment.Text,
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
	}
}
