package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/events"
	"github.com/incidentia/helpdesk/pkg/util"
)

func newCommentFixture() (*CommentService, *fakeTicketRepo, *fakeCommentRepo, *fakeNotificationRepo, *capturingDispatcher) {
	tickets := newFakeTicketRepo()
	comments := newFakeCommentRepo()
	notifications := newFakeNotificationRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewCommentService(CommentDependencies{
		TicketRepo:    tickets,
		CommentRepo:   comments,
		Notifications: NewNotificationService(&fakeTxBeginner{}, notifications),
		Dispatcher:    dispatcher,
	})
	return svc, tickets, comments, notifications, dispatcher
}

func TestCommentCreateNotifiesAssignee(t *testing.T) {
	svc, tickets, _, notifications, dispatcher := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:             "abcdef1234567890",
		Title:          "Title",
		Status:         domain.TicketStatusOpen,
		AssignedUserID: strPtr("tech-1"),
		DepartmentID:   "dept-1",
		CreatedByID:    "user-1",
	})

	comment, err := svc.Create(context.Background(), "user-1", "abcdef1234567890", "The printer is still broken", nil)
	require.NoError(t, err)
	assert.False(t, comment.IsReply())

	require.Len(t, notifications.notifications, 1)
	n := notifications.notifications[0]
	assert.Equal(t, domain.NotificationTypeNewComment, n.Type)
	assert.Equal(t, "New comment on ticket abcdef12: The printer is still broken", n.Message)
	require.NotNil(t, n.TicketID)
	assert.Equal(t, "abcdef1234567890", *n.TicketID)
	assert.Equal(t, []string{"tech-1"}, notifications.recipients[n.ID])

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventCommentAdded, dispatcher.published[0].Type)
}

func TestCommentCreateByAssigneeSkipsFanOut(t *testing.T) {
	svc, tickets, _, notifications, _ := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:             "ticket-1",
		Title:          "Title",
		Status:         domain.TicketStatusOpen,
		AssignedUserID: strPtr("tech-1"),
		DepartmentID:   "dept-1",
		CreatedByID:    "user-1",
	})

	// The author never gets notified about their own comment; with no
	// other recipient the fan-out is skipped entirely.
	_, err := svc.Create(context.Background(), "tech-1", "ticket-1", "Looking into it", nil)
	require.NoError(t, err)
	assert.Empty(t, notifications.notifications)
}

func TestCommentReplyNotifiesParentAuthor(t *testing.T) {
	svc, tickets, comments, notifications, _ := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Status:       domain.TicketStatusOpen,
		DepartmentID: "dept-1",
		CreatedByID:  "user-1",
	})
	comments.put(&domain.Comment{
		ID:       "comment-parent",
		TicketID: "ticket-1",
		UserID:   "user-2",
		Text:     "Original comment",
	})

	reply, err := svc.Create(context.Background(), "user-1", "ticket-1", "Thanks, fixed now", strPtr("comment-parent"))
	require.NoError(t, err)
	assert.True(t, reply.IsReply())

	require.Len(t, notifications.notifications, 1)
	n := notifications.notifications[0]
	assert.Equal(t, domain.NotificationTypeNewReply, n.Type)
	assert.Equal(t, "New reply on ticket ticket-1: Thanks, fixed now", n.Message)
	assert.Equal(t, []string{"user-2"}, notifications.recipients[n.ID])
}

func TestCommentReplyDedupesAssigneeAndParentAuthor(t *testing.T) {
	svc, tickets, comments, notifications, _ := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:             "ticket-1",
		Title:          "Title",
		Status:         domain.TicketStatusOpen,
		AssignedUserID: strPtr("tech-1"),
		DepartmentID:   "dept-1",
		CreatedByID:    "user-1",
	})
	comments.put(&domain.Comment{
		ID:       "comment-parent",
		TicketID: "ticket-1",
		UserID:   "tech-1",
		Text:     "Assignee comment",
	})

	_, err := svc.Create(context.Background(), "user-1", "ticket-1", "Replying to the assignee", strPtr("comment-parent"))
	require.NoError(t, err)

	require.Len(t, notifications.notifications, 1)
	assert.Equal(t, []string{"tech-1"}, notifications.recipients[notifications.notifications[0].ID])
}

func TestCommentCreateRejectsParentFromOtherTicket(t *testing.T) {
	svc, tickets, comments, notifications, _ := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Status:       domain.TicketStatusOpen,
		DepartmentID: "dept-1",
		CreatedByID:  "user-1",
	})
	comments.put(&domain.Comment{
		ID:       "comment-other",
		TicketID: "ticket-2",
		UserID:   "user-2",
		Text:     "Comment on another ticket",
	})

	_, err := svc.Create(context.Background(), "user-1", "ticket-1", "Bad reply", strPtr("comment-other"))
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
	assert.Empty(t, notifications.notifications)
}

func TestCommentCreateRejectsMissingParent(t *testing.T) {
	svc, tickets, _, _, _ := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Status:       domain.TicketStatusOpen,
		DepartmentID: "dept-1",
		CreatedByID:  "user-1",
	})

	_, err := svc.Create(context.Background(), "user-1", "ticket-1", "Reply to nothing", strPtr("missing"))
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}

func TestCommentCreateTicketNotFound(t *testing.T) {
	svc, _, _, _, _ := newCommentFixture()

	_, err := svc.Create(context.Background(), "user-1", "missing", "Hello", nil)
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}

func TestCommentCreateRejectsBlankText(t *testing.T) {
	svc, _, _, _, _ := newCommentFixture()

	_, err := svc.Create(context.Background(), "user-1", "ticket-1", "   \n ", nil)
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}

func TestCommentFanOutTruncatesLongText(t *testing.T) {
	svc, tickets, _, notifications, _ := newCommentFixture()
	tickets.put(&domain.Ticket{
		ID:             "ticket-1",
		Title:          "Title",
		Status:         domain.TicketStatusOpen,
		AssignedUserID: strPtr("tech-1"),
		DepartmentID:   "dept-1",
		CreatedByID:    "user-1",
	})

	long := strings.Repeat("x", 500)
	_, err := svc.Create(context.Background(), "user-1", "ticket-1", long, nil)
	require.NoError(t, err)

	require.Len(t, notifications.notifications, 1)
	message := notifications.notifications[0].Message
	assert.True(t, strings.HasSuffix(message, "..."))
	preview := strings.TrimPrefix(message, "New comment on ticket ticket-1: ")
	assert.Len(t, []rune(preview), commentSnippetLength)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 120))
	assert.Equal(t, "trimmed", snippet("  trimmed  ", 120))

	truncated := snippet(strings.Repeat("ă", 200), 120)
	runes := []rune(truncated)
	assert.Len(t, runes, 120)
	assert.Equal(t, "...", string(runes[117:]))
}

func TestCommentListByTicketRequiresTicket(t *testing.T) {
	svc, _, _, _, _ := newCommentFixture()

	_, _, err := svc.ListByTicket(context.Background(), "missing", 10, 0)
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}
