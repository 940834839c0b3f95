package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

func TestStatusHistoryLogChange(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := NewStatusHistoryService(repo)

	entry, err := svc.LogChange(context.Background(), StatusChangeInput{
		TicketID:        "ticket-1",
		OldStatus:       domain.TicketStatusOpen,
		NewStatus:       domain.TicketStatusInProgress,
		ChangedByUserID: "tech-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, domain.TicketStatusOpen, entry.OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, entry.NewStatus)
	require.Len(t, repo.entries, 1)
}

func TestStatusHistoryRejectsEqualStatuses(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := NewStatusHistoryService(repo)

	_, err := svc.LogChange(context.Background(), StatusChangeInput{
		TicketID:        "ticket-1",
		OldStatus:       domain.TicketStatusOpen,
		NewStatus:       domain.TicketStatusOpen,
		ChangedByUserID: "tech-1",
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
	assert.Empty(t, repo.entries)
}

func TestStatusHistoryRejectsUnknownStatus(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := NewStatusHistoryService(repo)

	_, err := svc.LogChange(context.Background(), StatusChangeInput{
		TicketID:        "ticket-1",
		OldStatus:       domain.TicketStatus("ARCHIVED"),
		NewStatus:       domain.TicketStatusOpen,
		ChangedByUserID: "tech-1",
	})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}

func TestStatusHistoryHonorsExplicitTimestamp(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := NewStatusHistoryService(repo)

	when := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	entry, err := svc.LogChange(context.Background(), StatusChangeInput{
		TicketID:        "ticket-1",
		OldStatus:       domain.TicketStatusOpen,
		NewStatus:       domain.TicketStatusResolved,
		ChangedByUserID: "tech-1",
		When:            &when,
	})
	require.NoError(t, err)
	assert.Equal(t, when, entry.ChangedAt)
}

func TestStatusHistoryListValidatesFilters(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := NewStatusHistoryService(repo)

	bogus := domain.TicketStatus("ARCHIVED")
	_, _, err := svc.List(context.Background(), repository.StatusHistoryFilter{OldStatus: &bogus})
	require.Error(t, err)
	assert.Equal(t, 400, util.ToDomainError(err).HTTPStatus)
}
