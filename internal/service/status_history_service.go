package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

// StatusHistoryService appends and queries the immutable status audit
// trail.
type StatusHistoryService struct {
	history repository.StatusHistoryRepository
}

// NewStatusHistoryService constructs the service.
func NewStatusHistoryService(history repository.StatusHistoryRepository) *StatusHistoryService {
	return &StatusHistoryService{history: history}
}

// StatusChangeInput describes one logged transition.
type StatusChangeInput struct {
	TicketID        string
	OldStatus       domain.TicketStatus
	NewStatus       domain.TicketStatus
	ChangedByUserID string
	When            *time.Time
}

// LogChange appends an entry. Equal old and new statuses are rejected.
func (s *StatusHistoryService) LogChange(ctx context.Context, input StatusChangeInput) (*domain.StatusHistory, error) {
	return s.log(ctx, s.history, input)
}

// LogChangeInTx appends an entry inside a caller-supplied transaction so
// it commits or rolls back with the ticket update that caused it.
func (s *StatusHistoryService) LogChangeInTx(ctx context.Context, tx pgx.Tx, input StatusChangeInput) (*domain.StatusHistory, error) {
	return s.log(ctx, s.history.WithTx(tx), input)
}

func (s *StatusHistoryService) log(ctx context.Context, repo repository.StatusHistoryRepository, input StatusChangeInput) (*domain.StatusHistory, error) {
	if !domain.ValidTicketStatus(input.OldStatus) || !domain.ValidTicketStatus(input.NewStatus) {
		return nil, util.NewValidationError("invalid status value", nil)
	}
	if input.OldStatus == input.NewStatus {
		return nil, util.NewValidationError("old and new status must differ", map[string]any{
			"status": string(input.OldStatus),
		})
	}

	entry := &domain.StatusHistory{
		TicketID:        input.TicketID,
		OldStatus:       input.OldStatus,
		NewStatus:       input.NewStatus,
		ChangedByUserID: input.ChangedByUserID,
	}
	if input.When != nil {
		entry.ChangedAt = *input.When
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns history entries matching the filter plus the total count.
func (s *StatusHistoryService) List(ctx context.Context, filter repository.StatusHistoryFilter) ([]domain.StatusHistory, int64, error) {
	if filter.OldStatus != nil && !domain.ValidTicketStatus(*filter.OldStatus) {
		return nil, 0, util.NewValidationError("invalid old_status filter", nil)
	}
	if filter.NewStatus != nil && !domain.ValidTicketStatus(*filter.NewStatus) {
		return nil, 0, util.NewValidationError("invalid new_status filter", nil)
	}
	return s.history.ListWithFilter(ctx, filter)
}
