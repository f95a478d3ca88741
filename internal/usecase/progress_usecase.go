package usecase

import (
	"context"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"

	"github.com/jonboulle/clockwork"
)

// ProgressView is a booking's task list with its derived progress.
type ProgressView struct {
	BookingID string                  `json:"bookingId"`
	Tasks     []entities.ServiceTask  `json:"tasks"`
	Progress  entities.ProgressRecord `json:"progress"`
}

// IProgressUseCase exposes task tracking for staff:
//   - replace the task list (may auto-finish the booking) => CommitTasks()
//   - read tasks and derived progress => GetProgress()
//   - cross-store diagnostics => CheckConsistency()

type IProgressUseCase interface {
	CommitTasks(ctx context.Context, bookingID string, tasks []entities.ServiceTask) (TaskCommitResult, error)
	GetProgress(ctx context.Context, bookingID string) (ProgressView, error)
	CheckConsistency(ctx context.Context, bookingID string) (ConsistencyReport, error)
}

type ProgressUseCase struct {
	coordinator *SyncCoordinator
	validator   *ConsistencyValidator
	clock       clockwork.Clock
}

var _ IProgressUseCase = (*ProgressUseCase)(nil)

func NewProgressUseCase(coordinator *SyncCoordinator, validator *ConsistencyValidator, clk clockwork.Clock) *ProgressUseCase {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &ProgressUseCase{coordinator: coordinator, validator: validator, clock: clk}
}

func (u *ProgressUseCase) CommitTasks(ctx context.Context, bookingID string, tasks []entities.ServiceTask) (TaskCommitResult, error) {
	return u.coordinator.CommitTasks(ctx, bookingID, tasks)
}

func (u *ProgressUseCase) GetProgress(ctx context.Context, bookingID string) (ProgressView, error) {
	b, found, err := u.coordinator.Locate(ctx, bookingID)
	if err != nil && !found {
		return ProgressView{}, err
	}
	if !found {
		return ProgressView{}, ErrBookingNotFound
	}

	sp, ok, err := u.coordinator.Stores().ServiceProgress.GetProgress(ctx, b.ID)
	if err != nil {
		return ProgressView{}, err
	}
	if !ok {
		return ProgressView{
			BookingID: b.ID,
			Tasks:     []entities.ServiceTask{},
			Progress:  schedule.ComputeProgress(b.ID, nil, u.clock.Now().UTC()),
		}, nil
	}
	return ProgressView{
		BookingID: b.ID,
		Tasks:     sp.Tasks,
		Progress:  schedule.ComputeProgress(b.ID, sp.Tasks, sp.LastUpdated),
	}, nil
}

func (u *ProgressUseCase) CheckConsistency(ctx context.Context, bookingID string) (ConsistencyReport, error) {
	return u.validator.Check(ctx, bookingID)
}
