package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/events"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

const commentSnippetLength = 120

// CommentService manages threaded comments and triggers notification
// fan-out on creation.
type CommentService struct {
	tickets       repository.TicketRepository
	comments      repository.CommentRepository
	notifications *NotificationService
	dispatcher    events.Dispatcher
}

// CommentDependencies bundles requirements for the comment service.
type CommentDependencies struct {
	TicketRepo    repository.TicketRepository
	CommentRepo   repository.CommentRepository
	Notifications *NotificationService
	Dispatcher    events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		tickets:       deps.TicketRepo,
		comments:      deps.CommentRepo,
		notifications: deps.Notifications,
		dispatcher:    deps.Dispatcher,
	}
}

// Create persists a comment and fans a notification out to the ticket
// assignee and, for replies, the parent comment's author. The author
// never receives a notification for their own comment.
func (s *CommentService) Create(ctx context.Context, authorID, ticketID, text string, parentCommentID *string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.NewValidationError("text is required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	var parent *domain.Comment
	if parentCommentID != nil {
		parent, err = s.comments.GetByID(ctx, *parentCommentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, util.NewValidationError("parent comment does not exist", map[string]any{
					"parent_comment_id": *parentCommentID,
				})
			}
			return nil, err
		}
		if parent.TicketID != ticket.ID {
			return nil, util.NewValidationError("parent comment belongs to a different ticket", map[string]any{
				"parent_comment_id": parent.ID,
			})
		}
	}

	comment := &domain.Comment{
		TicketID:        ticket.ID,
		UserID:          authorID,
		ParentCommentID: parentCommentID,
		Text:            text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	recipients := commentRecipients(ticket, parent, authorID)
	if len(recipients) > 0 {
		input := fanOutForComment(ticket, comment, parent != nil)
		input.RecipientIDs = recipients
		if _, err := s.notifications.FanOut(ctx, input); err != nil {
			return nil, err
		}
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		ActorID:  authorID,
		Payload: events.CommentAddedPayload{
			CommentID:       comment.ID,
			ParentCommentID: comment.ParentCommentID,
			TextPreview:     snippet(comment.Text, commentSnippetLength),
		},
	})
	return comment, nil
}

// ListByTicket returns a ticket's comment thread in creation order.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.Comment, int64, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, util.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, 0, err
	}
	return s.comments.ListByTicket(ctx, ticketID, limit, offset)
}

// commentRecipients computes the notification recipient set: the ticket
// assignee and the parent comment's author, excluding the comment author.
func commentRecipients(ticket *domain.Ticket, parent *domain.Comment, authorID string) []string {
	var recipients []string
	if ticket.AssignedUserID != nil && *ticket.AssignedUserID != authorID {
		recipients = append(recipients, *ticket.AssignedUserID)
	}
	if parent != nil && parent.UserID != authorID {
		recipients = append(recipients, parent.UserID)
	}
	return recipients
}

func fanOutForComment(ticket *domain.Ticket, comment *domain.Comment, isReply bool) FanOutInput {
	ticketID := ticket.ID
	if isReply {
		return FanOutInput{
			Type:     domain.NotificationTypeNewReply,
			Message:  fmt.Sprintf("New reply on ticket %s: %s", ticket.ShortID(), snippet(comment.Text, commentSnippetLength)),
			TicketID: &ticketID,
		}
	}
	return FanOutInput{
		Type:     domain.NotificationTypeNewComment,
		Message:  fmt.Sprintf("New comment on ticket %s: %s", ticket.ShortID(), snippet(comment.Text, commentSnippetLength)),
		TicketID: &ticketID,
	}
}

// snippet truncates text to max characters, appending an ellipsis when
// content was cut.
func snippet(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
