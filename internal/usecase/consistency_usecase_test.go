package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"valet_manager/internal/domain/entities"
)

func hasIssue(issues []string, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i, substr) {
			return true
		}
	}
	return false
}

func TestConsistencyValidator_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("clean commit is consistent", func(t *testing.T) {
		h := newHarness(t, 0)
		if _, err := h.coord.Commit(ctx, booking("b-1", entities.StatusConfirmed)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if _, err := h.coord.CommitTasks(ctx, "b-1", []entities.ServiceTask{{Name: "Wash", AllocatedTime: 30}}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		rep, err := NewConsistencyValidator(h.stores, h.clk).Check(ctx, "b-1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !rep.Consistent || len(rep.Issues) != 0 {
			t.Fatalf("expected consistent, got %v", rep.Issues)
		}
	})

	t.Run("status drift and leftovers are reported", func(t *testing.T) {
		h := newHarness(t, 0)
		if _, err := h.coord.Commit(ctx, booking("b-1", entities.StatusInspecting)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		_ = h.stores.CalendarMirror.Upsert(ctx, booking("b-1", entities.StatusConfirmed))
		_ = h.stores.Pending.Upsert(ctx, booking("b-1", entities.StatusPending))

		rep, err := NewConsistencyValidator(h.stores, h.clk).Check(ctx, "b-1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if rep.Consistent {
			t.Fatalf("expected inconsistent report")
		}
		if !hasIssue(rep.Issues, "status mismatch: plannerCalendarBookings") {
			t.Fatalf("missing status mismatch issue: %v", rep.Issues)
		}
		if !hasIssue(rep.Issues, "still present in pendingBookings") {
			t.Fatalf("missing leftover issue: %v", rep.Issues)
		}
	})

	t.Run("missing mirror copy", func(t *testing.T) {
		h := newHarness(t, 0)
		_ = h.stores.Authoritative.Upsert(ctx, booking("b-1", entities.StatusConfirmed))
		rep, _ := NewConsistencyValidator(h.stores, h.clk).Check(ctx, "b-1")
		if !hasIssue(rep.Issues, "missing from plannerCalendarBookings") {
			t.Fatalf("expected missing mirror issue, got %v", rep.Issues)
		}
	})

	t.Run("progress caches disagree", func(t *testing.T) {
		h := newHarness(t, 0)
		if _, err := h.coord.Commit(ctx, booking("b-1", entities.StatusInProgress)); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		_ = h.stores.ServiceProgress.PutProgress(ctx, entities.ServiceProgress{
			BookingID:          "b-1",
			Tasks:              []entities.ServiceTask{{Name: "Wash", Completed: true, AllocatedTime: 50}, {Name: "Dry", AllocatedTime: 50}},
			ProgressPercentage: 80,
		})
		_ = h.stores.Tracking.PutTracking(ctx, entities.TrackingRecord{BookingID: "b-1", ProgressPercentage: 20})

		rep, _ := NewConsistencyValidator(h.stores, h.clk).Check(ctx, "b-1")
		if !hasIssue(rep.Issues, "serviceProgress stores 80% but its tasks derive 50%") {
			t.Fatalf("missing stored percentage issue: %v", rep.Issues)
		}
		if !hasIssue(rep.Issues, "trackingProgress shows 20% but tasks derive 50%") {
			t.Fatalf("missing tracking issue: %v", rep.Issues)
		}
	})

	t.Run("complete tasks without finish", func(t *testing.T) {
		h := newHarness(t, 0)
		_ = h.stores.Authoritative.Upsert(ctx, booking("b-1", entities.StatusInProgress))
		_ = h.stores.CalendarMirror.Upsert(ctx, booking("b-1", entities.StatusInProgress))
		_ = h.stores.ServiceProgress.PutProgress(ctx, entities.ServiceProgress{
			BookingID:          "b-1",
			Tasks:              []entities.ServiceTask{{Name: "Wash", Completed: true, AllocatedTime: 30}},
			ProgressPercentage: 100,
		})
		_ = h.stores.Tracking.PutTracking(ctx, entities.TrackingRecord{BookingID: "b-1", ProgressPercentage: 100})

		rep, _ := NewConsistencyValidator(h.stores, h.clk).Check(ctx, "b-1")
		if len(rep.Issues) != 1 || !hasIssue(rep.Issues, "all tasks complete but status is in-progress") {
			t.Fatalf("unexpected issues: %v", rep.Issues)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		h := newHarness(t, 0)
		rep, _ := NewConsistencyValidator(h.stores, h.clk).Check(ctx, "ghost")
		if rep.Consistent || !hasIssue(rep.Issues, "present in no store") {
			t.Fatalf("expected absence issue, got %v", rep.Issues)
		}
	})

	t.Run("blank id", func(t *testing.T) {
		h := newHarness(t, 0)
		_, err := NewConsistencyValidator(h.stores, h.clk).Check(ctx, " ")
		if !errors.Is(err, ErrInvalidBookingID) {
			t.Fatalf("expected ErrInvalidBookingID, got %v", err)
		}
	})
}
