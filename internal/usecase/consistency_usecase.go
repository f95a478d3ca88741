package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase/interfaces"

	"github.com/jonboulle/clockwork"
)

// ConsistencyReport lists every cross-store disagreement found for one
// booking. It never triggers a repair.
type ConsistencyReport struct {
	BookingID  string    `json:"bookingId"`
	Consistent bool      `json:"consistent"`
	Issues     []string  `json:"issues"`
	CheckedAt  time.Time `json:"checkedAt"`
}

type ConsistencyValidator struct {
	stores SyncStores
	clock  clockwork.Clock
}

func NewConsistencyValidator(stores SyncStores, clk clockwork.Clock) *ConsistencyValidator {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &ConsistencyValidator{stores: stores, clock: clk}
}

type storeCopy struct {
	store   interfaces.IBookingStore
	booking entities.Booking
	found   bool
}

// Check compares every copy of a booking and its progress records.
func (v *ConsistencyValidator) Check(ctx context.Context, bookingID string) (ConsistencyReport, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return ConsistencyReport{}, ErrInvalidBookingID
	}
	ctx, span := tracer.Start(ctx, "ConsistencyValidator.Check")
	defer span.End()

	rep := ConsistencyReport{BookingID: bookingID, Issues: []string{}, CheckedAt: v.clock.Now().UTC()}
	issue := func(format string, args ...any) {
		rep.Issues = append(rep.Issues, fmt.Sprintf(format, args...))
	}

	copies := map[interfaces.IBookingStore]storeCopy{}
	var reference *entities.Booking
	for _, s := range v.stores.BookingStores() {
		if s == nil {
			continue
		}
		b, ok, err := s.Get(ctx, bookingID)
		if err != nil {
			issue("%s: read failed: %v", s.Name(), err)
			continue
		}
		copies[s] = storeCopy{store: s, booking: b, found: ok}
		if ok && reference == nil {
			ref := b
			reference = &ref
		}
	}

	if reference != nil {
		v.checkPlacement(reference.Status, copies, issue)
	} else if len(copies) > 0 {
		issue("booking present in no store")
	}
	v.checkProgress(ctx, bookingID, reference, issue)

	rep.Consistent = len(rep.Issues) == 0
	if !rep.Consistent {
		log.Printf("[consistency][warn] booking_id=%s issues=%d %q", bookingID, len(rep.Issues), rep.Issues)
	}
	return rep, nil
}

// checkPlacement verifies that every store in the status class's route holds
// an identical status and no store outside it still holds a copy.
func (v *ConsistencyValidator) checkPlacement(status entities.Status, copies map[interfaces.IBookingStore]storeCopy, issue func(string, ...any)) {
	var expected []interfaces.IBookingStore
	switch ClassOf(status) {
	case ClassScheduled:
		expected = []interfaces.IBookingStore{v.stores.Authoritative, v.stores.CalendarMirror}
	case ClassClosed:
		expected = []interfaces.IBookingStore{v.stores.Authoritative}
	default:
		expected = []interfaces.IBookingStore{v.stores.Pending}
	}

	want := map[interfaces.IBookingStore]bool{}
	for _, s := range expected {
		if s == nil {
			continue
		}
		want[s] = true
		c, read := copies[s]
		if !read {
			continue
		}
		if !c.found {
			issue("%s booking missing from %s", status, s.Name())
			continue
		}
		if c.booking.Status != status {
			issue("status mismatch: %s has %s, expected %s", s.Name(), c.booking.Status, status)
		}
	}
	for s, c := range copies {
		if c.found && !want[s] {
			issue("%s booking still present in %s (as %s)", status, s.Name(), c.booking.Status)
		}
	}
}

func (v *ConsistencyValidator) checkProgress(ctx context.Context, bookingID string, b *entities.Booking, issue func(string, ...any)) {
	if v.stores.ServiceProgress == nil {
		return
	}
	sp, hasProgress, err := v.stores.ServiceProgress.GetProgress(ctx, bookingID)
	if err != nil {
		issue("serviceProgress: read failed: %v", err)
		return
	}
	var tr entities.TrackingRecord
	hasTracking := false
	if v.stores.Tracking != nil {
		tr, hasTracking, err = v.stores.Tracking.GetTracking(ctx, bookingID)
		if err != nil {
			issue("trackingProgress: read failed: %v", err)
		}
	}

	if !hasProgress {
		if hasTracking {
			issue("trackingProgress present without serviceProgress")
		}
		return
	}

	derived := schedule.ComputeProgress(bookingID, sp.Tasks, sp.LastUpdated).ProgressPercentage
	if sp.ProgressPercentage != derived {
		issue("serviceProgress stores %d%% but its tasks derive %d%%", sp.ProgressPercentage, derived)
	}
	switch {
	case v.stores.Tracking == nil || err != nil:
	case !hasTracking:
		issue("trackingProgress missing for booking with a task list")
	case tr.ProgressPercentage != derived:
		issue("trackingProgress shows %d%% but tasks derive %d%%", tr.ProgressPercentage, derived)
	}

	if b != nil && derived == 100 && b.Status != entities.StatusFinished && b.Status != entities.StatusCancelled {
		issue("all tasks complete but status is %s", b.Status)
	}
}
