package usecase

import (
	"context"
	"errors"
	"testing"

	"valet_manager/internal/domain/entities"
)

func TestProgressUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("no task list yet", func(t *testing.T) {
		h := newHarness(t, 0)
		uc := NewProgressUseCase(h.coord, NewConsistencyValidator(h.stores, h.clk), h.clk)
		if _, err := h.coord.Commit(ctx, booking("b-1", entities.StatusConfirmed)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		view, err := uc.GetProgress(ctx, "b-1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(view.Tasks) != 0 || view.Progress.ProgressPercentage != 0 {
			t.Fatalf("unexpected view: %+v", view)
		}
	})

	t.Run("commit then read", func(t *testing.T) {
		h := newHarness(t, 0)
		uc := NewProgressUseCase(h.coord, NewConsistencyValidator(h.stores, h.clk), h.clk)
		if _, err := h.coord.Commit(ctx, booking("b-1", entities.StatusInProgress)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		tasks := []entities.ServiceTask{
			{Name: "Wash", Completed: true, AllocatedTime: 20},
			{Name: "Vacuum", Completed: true, AllocatedTime: 20},
			{Name: "Polish", AllocatedTime: 60},
		}
		if _, err := uc.CommitTasks(ctx, "b-1", tasks); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		view, err := uc.GetProgress(ctx, "b-1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(view.Tasks) != 3 || view.Progress.ProgressPercentage != 40 || view.Progress.CompletedTasks != 2 {
			t.Fatalf("unexpected view: %+v", view)
		}
		rep, err := uc.CheckConsistency(ctx, "b-1")
		if err != nil || !rep.Consistent {
			t.Fatalf("expected consistent report, got %+v err=%v", rep, err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		h := newHarness(t, 0)
		uc := NewProgressUseCase(h.coord, NewConsistencyValidator(h.stores, h.clk), h.clk)
		if _, err := uc.GetProgress(ctx, "ghost"); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})
}
