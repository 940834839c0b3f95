package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/pkg/util"
)

func TestFanOutCollapsesDuplicateRecipients(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(&fakeTxBeginner{}, repo)

	ticketID := "ticket-1"
	notification, err := svc.FanOut(context.Background(), FanOutInput{
		Type:         domain.NotificationTypeStatusChange,
		Message:      "Ticket closed",
		TicketID:     &ticketID,
		RecipientIDs: []string{"user-1", "user-2", "user-1", "", "user-2"},
	})
	require.NoError(t, err)
	require.Len(t, repo.notifications, 1)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, repo.recipients[notification.ID])
}

func TestFanOutCommitsOnSuccess(t *testing.T) {
	repo := newFakeNotificationRepo()
	db := &fakeTxBeginner{}
	svc := NewNotificationService(db, repo)

	_, err := svc.FanOut(context.Background(), FanOutInput{
		Type:         domain.NotificationTypeSystem,
		Message:      "Maintenance window",
		RecipientIDs: []string{"user-1"},
	})
	require.NoError(t, err)
	require.NotNil(t, db.lastTx)
	assert.Equal(t, 1, db.lastTx.commits)
}

func TestFanOutRollsBackWhenRecipientInsertFails(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.addRecipientErr = errors.New("insert recipient: connection reset")
	db := &fakeTxBeginner{}
	svc := NewNotificationService(db, repo)

	_, err := svc.FanOut(context.Background(), FanOutInput{
		Type:         domain.NotificationTypeStatusChange,
		Message:      "Ticket closed",
		RecipientIDs: []string{"user-1", "user-2"},
	})
	require.ErrorIs(t, err, repo.addRecipientErr)

	// The whole fan-out aborts: the transaction is rolled back, never
	// committed, so the notification row is not observable.
	require.NotNil(t, db.lastTx)
	assert.Equal(t, 0, db.lastTx.commits)
	assert.Equal(t, 1, db.lastTx.rollbacks)
	assert.Empty(t, repo.recipients)
}

func TestFanOutRequiresRecipients(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(&fakeTxBeginner{}, repo)

	_, err := svc.FanOut(context.Background(), FanOutInput{
		Type:         domain.NotificationTypeSystem,
		Message:      "Maintenance window",
		RecipientIDs: []string{"", ""},
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
	assert.Empty(t, repo.notifications)
}

func TestFanOutRequiresMessage(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(&fakeTxBeginner{}, repo)

	_, err := svc.FanOut(context.Background(), FanOutInput{
		Type:         domain.NotificationTypeSystem,
		RecipientIDs: []string{"user-1"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}

func TestMarkReadMapsMissingRecipient(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.markReadErr = pgx.ErrNoRows
	svc := NewNotificationService(&fakeTxBeginner{}, repo)

	err := svc.MarkRead(context.Background(), "notification-1", "user-1")
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}

func TestHideMapsMissingRecipient(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.hideErr = pgx.ErrNoRows
	svc := NewNotificationService(&fakeTxBeginner{}, repo)

	err := svc.Hide(context.Background(), "notification-1", "user-1")
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}
