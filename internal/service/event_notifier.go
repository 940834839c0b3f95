package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/incidentia/helpdesk/internal/config"
	"github.com/incidentia/helpdesk/internal/events"
)

// EventNotifier observes domain events and emits side-channel deliveries
// (log lines, email/webhook stubs). Database fan-out stays in-band with
// comment creation; this observer never writes notification rows.
type EventNotifier struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewEventNotifier creates the observer.
func NewEventNotifier(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *EventNotifier {
	return &EventNotifier{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *EventNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

// DeliverResetCode pushes a password reset code over the email side
// channel. The request itself is logged at info; the code only ever
// appears at debug level so production logs never carry it.
func (n *EventNotifier) DeliverResetCode(_ context.Context, email, code string) {
	n.logger.Info("password reset requested", zap.String("email", email))
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("deliver reset code",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", email),
		zap.String("code", code))
}

func (n *EventNotifier) handleTicketCreated(_ context.Context, event events.Event) error {
	summary := "ticket created"
	fields := baseFields(event)
	if p, ok := event.Payload.(events.TicketCreatedPayload); ok {
		summary = fmt.Sprintf("ticket created: %s", p.Title)
		fields = append(fields, zap.String("department_id", p.DepartmentID))
		if p.Priority != nil {
			fields = append(fields, zap.String("priority", string(*p.Priority)))
		}
	}
	n.logger.Info(summary, fields...)
	n.sendEmailStub(event, summary)
	n.sendWebhookStub(event)
	return nil
}

func (n *EventNotifier) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	summary := "ticket status changed"
	fields := baseFields(event)
	if p, ok := event.Payload.(events.TicketStatusChangedPayload); ok {
		summary = fmt.Sprintf("ticket status changed: %s to %s", p.OldStatus, p.NewStatus)
		fields = append(fields,
			zap.String("old_status", string(p.OldStatus)),
			zap.String("new_status", string(p.NewStatus)))
	}
	n.logger.Info(summary, fields...)
	n.sendWebhookStub(event)
	return nil
}

func (n *EventNotifier) handleTicketAssigned(_ context.Context, event events.Event) error {
	summary := "ticket unassigned"
	fields := baseFields(event)
	if p, ok := event.Payload.(events.TicketAssignedPayload); ok && p.AssignedUserID != nil {
		summary = "ticket assigned"
		fields = append(fields, zap.String("assigned_user_id", *p.AssignedUserID))
	}
	n.logger.Info(summary, fields...)
	n.sendWebhookStub(event)
	return nil
}

func (n *EventNotifier) handleCommentAdded(_ context.Context, event events.Event) error {
	summary := "comment added"
	fields := baseFields(event)
	if p, ok := event.Payload.(events.CommentAddedPayload); ok {
		if p.ParentCommentID != nil {
			summary = "reply added"
			fields = append(fields, zap.String("parent_comment_id", *p.ParentCommentID))
		}
		fields = append(fields,
			zap.String("comment_id", p.CommentID),
			zap.String("text_preview", p.TextPreview))
	}
	n.logger.Info(summary, fields...)
	n.sendEmailStub(event, summary)
	return nil
}

func baseFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
	}
}

func (n *EventNotifier) sendEmailStub(event events.Event, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("send email",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject", subject),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *EventNotifier) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("post webhook",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
