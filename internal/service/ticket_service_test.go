package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/events"
	"github.com/incidentia/helpdesk/pkg/util"
)

func newTicketFixture() (*TicketService, *fakeTicketRepo, *fakeHistoryRepo, *capturingDispatcher) {
	tickets := newFakeTicketRepo()
	history := &fakeHistoryRepo{}
	dispatcher := &capturingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		DB:         &fakeTxBeginner{},
		TicketRepo: tickets,
		History:    NewStatusHistoryService(history),
		Dispatcher: dispatcher,
	})
	return svc, tickets, history, dispatcher
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TicketStatus) *domain.TicketStatus { return &s }

func priorityPtr(p domain.TicketPriority) *domain.TicketPriority { return &p }

func TestTicketCreateDefaultsToOpen(t *testing.T) {
	svc, _, _, dispatcher := newTicketFixture()

	ticket, err := svc.Create(context.Background(), "actor-1", TicketCreateInput{
		Title:        "Printer jam",
		Description:  "Second floor printer keeps jamming",
		DepartmentID: "dept-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "actor-1", ticket.CreatedByID)
	assert.Nil(t, ticket.ClosedAt)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, dispatcher.published[0].Type)
	assert.Equal(t, ticket.ID, dispatcher.published[0].TicketID)
}

func TestTicketCreateRejectsClosed(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()

	_, err := svc.Create(context.Background(), "actor-1", TicketCreateInput{
		Title:        "Broken laptop",
		Description:  "Does not boot",
		DepartmentID: "dept-1",
		Status:       domain.TicketStatusClosed,
	})
	require.Error(t, err)
	domainErr := util.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Empty(t, tickets.created)
}

func TestTicketCreateValidatesRequiredFields(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	_, err := svc.Create(context.Background(), "actor-1", TicketCreateInput{
		Title:        "   ",
		Description:  "desc",
		DepartmentID: "dept-1",
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)

	_, err = svc.Create(context.Background(), "actor-1", TicketCreateInput{
		Title:       "no department",
		Description: "desc",
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}

func TestTicketCreateRejectsUnknownPriority(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	bogus := domain.TicketPriority("CRITICAL")
	_, err := svc.Create(context.Background(), "actor-1", TicketCreateInput{
		Title:        "VPN down",
		Description:  "Cannot connect",
		DepartmentID: "dept-1",
		Priority:     &bogus,
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}

func TestTicketGetNotFound(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}

func TestTicketUpdatePartialPatchLeavesOtherFields(t *testing.T) {
	svc, tickets, history, _ := newTicketFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Old title",
		Description:  "Old description",
		Status:       domain.TicketStatusOpen,
		Priority:     priorityPtr(domain.TicketPriorityHigh),
		DepartmentID: "dept-1",
		CreatedByID:  "actor-1",
	})

	ticket, err := svc.Update(context.Background(), "actor-2", "ticket-1", TicketPatch{
		Title: strPtr("New title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", ticket.Title)
	assert.Equal(t, "Old description", ticket.Description)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.NotNil(t, ticket.Priority)
	assert.Equal(t, domain.TicketPriorityHigh, *ticket.Priority)

	// No status change, no audit entry.
	assert.Empty(t, history.entries)
}

func TestTicketUpdateRejectsSelfParent(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Description:  "Description",
		Status:       domain.TicketStatusOpen,
		DepartmentID: "dept-1",
		CreatedByID:  "actor-1",
	})

	_, err := svc.Update(context.Background(), "actor-1", "ticket-1", TicketPatch{
		ParentTicketID: strPtr("ticket-1"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
	assert.Empty(t, tickets.updated)
}

func TestTicketUpdateClosingStampsClosedAtAndLogsHistory(t *testing.T) {
	svc, tickets, history, dispatcher := newTicketFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Description:  "Description",
		Status:       domain.TicketStatusResolved,
		DepartmentID: "dept-1",
		CreatedByID:  "actor-1",
	})

	before := time.Now()
	ticket, err := svc.Update(context.Background(), "actor-2", "ticket-1", TicketPatch{
		Status: statusPtr(domain.TicketStatusClosed),
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.ClosedAt)
	assert.False(t, ticket.ClosedAt.Before(before))
	assert.NoError(t, ticket.CheckClosedConsistency())

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, "ticket-1", entry.TicketID)
	assert.Equal(t, domain.TicketStatusResolved, entry.OldStatus)
	assert.Equal(t, domain.TicketStatusClosed, entry.NewStatus)
	assert.Equal(t, "actor-2", entry.ChangedByUserID)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketStatusChanged, dispatcher.published[0].Type)
}

func TestTicketUpdateLeavingClosedClearsClosedAt(t *testing.T) {
	svc, tickets, history, _ := newTicketFixture()
	closedAt := time.Now().Add(-time.Hour)
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Description:  "Description",
		Status:       domain.TicketStatusClosed,
		DepartmentID: "dept-1",
		CreatedByID:  "actor-1",
		ClosedAt:     &closedAt,
	})

	ticket, err := svc.Update(context.Background(), "actor-1", "ticket-1", TicketPatch{
		Status: statusPtr(domain.TicketStatusOpen),
	})
	require.NoError(t, err)
	assert.Nil(t, ticket.ClosedAt)
	assert.NoError(t, ticket.CheckClosedConsistency())

	require.Len(t, history.entries, 1)
	assert.Equal(t, domain.TicketStatusClosed, history.entries[0].OldStatus)
	assert.Equal(t, domain.TicketStatusOpen, history.entries[0].NewStatus)
}

func TestTicketUpdateSameStatusSkipsHistory(t *testing.T) {
	svc, tickets, history, dispatcher := newTicketFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Description:  "Description",
		Status:       domain.TicketStatusInProgress,
		DepartmentID: "dept-1",
		CreatedByID:  "actor-1",
	})

	_, err := svc.Update(context.Background(), "actor-1", "ticket-1", TicketPatch{
		Status: statusPtr(domain.TicketStatusInProgress),
	})
	require.NoError(t, err)
	assert.Empty(t, history.entries)
	assert.Empty(t, dispatcher.published)
}

func TestTicketUpdateAssignmentPublishesEvent(t *testing.T) {
	svc, tickets, _, dispatcher := newTicketFixture()
	tickets.put(&domain.Ticket{
		ID:           "ticket-1",
		Title:        "Title",
		Description:  "Description",
		Status:       domain.TicketStatusOpen,
		DepartmentID: "dept-1",
		CreatedByID:  "actor-1",
	})

	ticket, err := svc.Update(context.Background(), "actor-1", "ticket-1", TicketPatch{
		AssignedUserID: strPtr("tech-1"),
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.AssignedUserID)
	assert.Equal(t, "tech-1", *ticket.AssignedUserID)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketAssigned, dispatcher.published[0].Type)
}

func TestTicketDeleteNotFound(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}
