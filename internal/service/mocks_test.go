package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/events"
	"github.com/incidentia/helpdesk/internal/repository"
)

// fakeTx satisfies pgx.Tx for transaction plumbing and counts outcome
// calls; only Commit and Rollback are ever reached because the fakes
// ignore the tx handle.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit(context.Context) error   { t.commits++; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rollbacks++; return nil }

type fakeTxBeginner struct {
	beginErr error
	lastTx   *fakeTx
}

func (b *fakeTxBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	b.lastTx = &fakeTx{}
	return b.lastTx, nil
}

type fakeTicketRepo struct {
	tickets   map[string]*domain.Ticket
	created   []*domain.Ticket
	updated   []*domain.Ticket
	createErr error
	updateErr error
	deleteErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) put(t *domain.Ticket) {
	copied := *t
	r.tickets[t.ID] = &copied
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	if ticket.ID == "" {
		ticket.ID = fmt.Sprintf("ticket-%d", len(r.tickets)+1)
	}
	r.put(ticket)
	r.created = append(r.created, ticket)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.put(ticket)
	copied := *ticket
	r.updated = append(r.updated, &copied)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(context.Context, repository.TicketFilter) ([]domain.Ticket, int64, error) {
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		result = append(result, *t)
	}
	return result, int64(len(result)), nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) WithTx(pgx.Tx) repository.TicketRepository { return r }

type fakeHistoryRepo struct {
	entries   []*domain.StatusHistory
	createErr error
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.StatusHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	entry.ID = fmt.Sprintf("history-%d", len(r.entries)+1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHistoryRepo) ListWithFilter(context.Context, repository.StatusHistoryFilter) ([]domain.StatusHistory, int64, error) {
	result := make([]domain.StatusHistory, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (r *fakeHistoryRepo) WithTx(pgx.Tx) repository.StatusHistoryRepository { return r }

type fakeCommentRepo struct {
	comments  map[string]*domain.Comment
	createErr error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *fakeCommentRepo) put(c *domain.Comment) {
	copied := *c
	r.comments[c.ID] = &copied
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if comment.ID == "" {
		comment.ID = fmt.Sprintf("comment-%d", len(r.comments)+1)
	}
	r.put(comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string, _, _ int) ([]domain.Comment, int64, error) {
	var result []domain.Comment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			result = append(result, *c)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeCommentRepo) WithTx(pgx.Tx) repository.CommentRepository { return r }

type fakeNotificationRepo struct {
	notifications   []*domain.Notification
	recipients      map[string][]string
	createErr       error
	addRecipientErr error
	markReadErr     error
	hideErr         error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{recipients: make(map[string][]string)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	notification.ID = fmt.Sprintf("notification-%d", len(r.notifications)+1)
	copied := *notification
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) AddRecipient(_ context.Context, notificationID, userID string) error {
	if r.addRecipientErr != nil {
		return r.addRecipientErr
	}
	for _, existing := range r.recipients[notificationID] {
		if existing == userID {
			return nil
		}
	}
	r.recipients[notificationID] = append(r.recipients[notificationID], userID)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(context.Context, string, int, int) ([]domain.UserNotification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) UnreadCount(context.Context, string) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkRead(context.Context, string, string) error {
	return r.markReadErr
}

func (r *fakeNotificationRepo) MarkAllRead(context.Context, string) error { return nil }

func (r *fakeNotificationRepo) Hide(context.Context, string, string) error {
	return r.hideErr
}

func (r *fakeNotificationRepo) WithTx(pgx.Tx) repository.NotificationRepository { return r }

type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
