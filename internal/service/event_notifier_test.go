package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/incidentia/helpdesk/internal/config"
	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/events"
)

func newObservedNotifier(cfg config.NotificationConfig) (*EventNotifier, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	notifier := NewEventNotifier(events.NewInMemoryDispatcher(), zap.New(core), cfg)
	return notifier, logs
}

func TestNotifierStatusChangeSummaryCarriesTransition(t *testing.T) {
	notifier, logs := newObservedNotifier(config.NotificationConfig{})

	err := notifier.handleTicketStatusChanged(context.Background(), events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "ticket-1",
		ActorID:  "user-1",
		Payload: events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusClosed,
		},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("ticket status changed: OPEN to CLOSED").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ticket-1", fields["ticket_id"])
	assert.Equal(t, "OPEN", fields["old_status"])
	assert.Equal(t, "CLOSED", fields["new_status"])
}

func TestNotifierCommentHandlerDistinguishesReplies(t *testing.T) {
	notifier, logs := newObservedNotifier(config.NotificationConfig{})
	parent := "comment-0"

	err := notifier.handleCommentAdded(context.Background(), events.Event{
		Type:     events.EventCommentAdded,
		TicketID: "ticket-1",
		Payload: events.CommentAddedPayload{
			CommentID:       "comment-1",
			ParentCommentID: &parent,
			TextPreview:     "still broken",
		},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("reply added").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "comment-0", fields["parent_comment_id"])
	assert.Equal(t, "still broken", fields["text_preview"])
}

func TestNotifierDeliverResetCodeGatedOnEmailChannel(t *testing.T) {
	notifier, logs := newObservedNotifier(config.NotificationConfig{})
	notifier.DeliverResetCode(context.Background(), "user@example.com", "123456")

	// Without an email channel the code is never logged.
	assert.Len(t, logs.FilterMessage("password reset requested").All(), 1)
	assert.Empty(t, logs.FilterMessage("deliver reset code").All())

	notifier, logs = newObservedNotifier(config.NotificationConfig{EmailFrom: "noreply@example.com"})
	notifier.DeliverResetCode(context.Background(), "user@example.com", "123456")

	entries := logs.FilterMessage("deliver reset code").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "user@example.com", fields["to"])
	assert.Equal(t, "123456", fields["code"])
}
