package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrBookingAlreadyExists = errors.New("booking already exists")
	ErrInvalidBookingDate   = errors.New("invalid booking date")
	ErrInvalidBookingTime   = errors.New("invalid booking time")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrSlotUnavailable      = errors.New("slot unavailable")
	ErrOverrideReason       = errors.New("override requires a reason")
)

// SlotConflictError carries the booking occupying a requested slot.
type SlotConflictError struct {
	Blocking entities.Booking
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s: overlaps booking %s at %s %s", ErrSlotUnavailable, e.Blocking.ID, e.Blocking.Date, e.Blocking.Start())
}

func (e *SlotConflictError) Unwrap() error { return ErrSlotUnavailable }

// BookingChanges holds descriptive edits. Nil fields are left untouched.
// Status is not editable here; use Transition or Override.
type BookingChanges struct {
	ClientType    *string
	Customer      *entities.Customer
	Vehicle       *entities.Vehicle
	PackageType   *string
	Location      *string
	Date          *string
	StartTime     *string
	EndTime       *string
	TravelMinutes *int
	TotalPrice    *float64
	Notes         *string
	Staff         []string
}

func (c BookingChanges) reschedules() bool {
	return c.Date != nil || c.StartTime != nil || c.EndTime != nil || c.TravelMinutes != nil
}

// CreateResult reports the commit and any pending bookings that asked for
// the same start time.
type CreateResult struct {
	Outcome  entities.SyncOutcome `json:"outcome"`
	Advisory []entities.Booking   `json:"advisory"`
}

// IBookingUseCase exposes the booking lifecycle:
//   - intake with slot checks => Create()
//   - status machine moves => Transition(), Override()
//   - descriptive edits (debounced) => Update()
//   - unified reads => Get(), List(), CheckAvailability()

type IBookingUseCase interface {
	Create(ctx context.Context, b entities.Booking) (CreateResult, error)
	Get(ctx context.Context, id string) (entities.Booking, error)
	List(ctx context.Context, date string) ([]entities.Booking, error)
	CheckAvailability(ctx context.Context, c schedule.Candidate) (schedule.ConflictResult, error)
	Update(ctx context.Context, id string, changes BookingChanges) (entities.SyncOutcome, error)
	Transition(ctx context.Context, id string, target entities.Status) (entities.SyncOutcome, error)
	Override(ctx context.Context, id string, target entities.Status, actor, reason string) (entities.SyncOutcome, error)
}

type BookingUseCase struct {
	coordinator *SyncCoordinator
	machine     *entities.StatusMachine
	watcher     Watcher
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

// Watcher is told about bookings somebody is looking at so polling covers
// them.
type Watcher interface {
	Watch(bookingID string)
}

func NewBookingUseCase(coordinator *SyncCoordinator, machine *entities.StatusMachine, watcher Watcher) *BookingUseCase {
	if machine == nil {
		machine = entities.NewStatusMachine()
	}
	return &BookingUseCase{coordinator: coordinator, machine: machine, watcher: watcher}
}

// Create validates a new booking, refuses slots already held by a
// schedulable booking and commits it.
func (u *BookingUseCase) Create(ctx context.Context, b entities.Booking) (CreateResult, error) {
	ctx, span := tracer.Start(ctx, "BookingUseCase.Create")
	defer span.End()

	b.ID = strings.TrimSpace(b.ID)
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("booking.id", b.ID))

	if b.Status.IsTerminal() {
		return CreateResult{}, fmt.Errorf("%w: cannot create a %s booking", ErrInvalidBookingStatus, b.Status)
	}
	if err := validateSchedule(b); err != nil {
		return CreateResult{}, err
	}

	_, found, err := u.coordinator.Locate(ctx, b.ID)
	if err != nil && !found {
		return CreateResult{}, err
	}
	if found {
		return CreateResult{}, ErrBookingAlreadyExists
	}

	conflict, err := u.conflictsFor(ctx, b)
	if err != nil {
		return CreateResult{}, err
	}
	if conflict.Blocking != nil {
		log.Printf("[booking][create] slot unavailable booking_id=%s date=%s start=%s blocking_id=%s", b.ID, b.Date, b.Start(), conflict.Blocking.ID)
		return CreateResult{Advisory: conflict.Advisory}, &SlotConflictError{Blocking: *conflict.Blocking}
	}

	b.CreatedAt = b.CreatedAt.UTC()
	out, err := u.coordinator.Create(ctx, b)
	if err != nil {
		return CreateResult{Outcome: out}, err
	}
	if len(conflict.Advisory) > 0 {
		log.Printf("[booking][create] booking_id=%s shares start with %d pending request(s)", b.ID, len(conflict.Advisory))
	}
	return CreateResult{Outcome: out, Advisory: conflict.Advisory}, nil
}

func (u *BookingUseCase) Get(ctx context.Context, id string) (entities.Booking, error) {
	b, found, err := u.coordinator.Locate(ctx, id)
	if err != nil && !found {
		return entities.Booking{}, err
	}
	if !found {
		return entities.Booking{}, ErrBookingNotFound
	}
	if u.watcher != nil {
		u.watcher.Watch(b.ID)
	}
	return b, nil
}

// List returns the unified booking list: authoritative records win over the
// calendar mirror, which wins over pending requests. A non-empty date keeps
// only that civil day. Unreadable stores are logged and skipped.
func (u *BookingUseCase) List(ctx context.Context, date string) ([]entities.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingUseCase.List")
	defer span.End()

	var day entities.CivilDate
	if date = strings.TrimSpace(date); date != "" {
		d, err := entities.ParseCivilDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBookingDate, err)
		}
		day = d
	}

	stores := u.coordinator.Stores()
	read := func(s interfaces.IBookingStore) []entities.Booking {
		if s == nil {
			return nil
		}
		list, err := s.List(ctx)
		if err != nil {
			log.Printf("[booking][list][warn] store unreadable store=%s err=%v", s.Name(), err)
			return nil
		}
		return list
	}

	merged := schedule.MergeBookings(
		schedule.MergeBookings(read(stores.Authoritative), read(stores.CalendarMirror)),
		read(stores.Pending),
	)
	if date == "" {
		return merged, nil
	}
	out := make([]entities.Booking, 0, len(merged))
	for _, b := range merged {
		d, err := entities.ParseCivilDate(b.Date)
		if err == nil && d == day {
			out = append(out, b)
		}
	}
	return out, nil
}

// CheckAvailability runs conflict detection against the unified list.
func (u *BookingUseCase) CheckAvailability(ctx context.Context, c schedule.Candidate) (schedule.ConflictResult, error) {
	if _, err := entities.ParseCivilDate(c.Date); err != nil {
		return schedule.ConflictResult{}, fmt.Errorf("%w: %v", ErrInvalidBookingDate, err)
	}
	if _, err := entities.ParseClock(c.Time); err != nil {
		return schedule.ConflictResult{}, fmt.Errorf("%w: %v", ErrInvalidBookingTime, err)
	}
	existing, err := u.List(ctx, "")
	if err != nil {
		return schedule.ConflictResult{}, err
	}
	return schedule.FindConflict(c, existing), nil
}

// Update applies descriptive edits through the debounced commit path.
// Rescheduling a schedulable booking re-checks the new slot.
func (u *BookingUseCase) Update(ctx context.Context, id string, changes BookingChanges) (entities.SyncOutcome, error) {
	b, err := u.Get(ctx, id)
	if err != nil {
		return entities.SyncOutcome{}, err
	}
	applyChanges(&b, changes)
	if err := validateSchedule(b); err != nil {
		return entities.SyncOutcome{}, err
	}
	if changes.reschedules() && b.Status.IsSchedulable() {
		conflict, err := u.conflictsFor(ctx, b)
		if err != nil {
			return entities.SyncOutcome{}, err
		}
		if conflict.Blocking != nil {
			return entities.SyncOutcome{}, &SlotConflictError{Blocking: *conflict.Blocking}
		}
	}

	select {
	case res := <-u.coordinator.Submit(b):
		return res.Outcome, res.Err
	case <-ctx.Done():
		return entities.SyncOutcome{}, ctx.Err()
	}
}

// Transition moves a booking along the status machine. Entering a
// schedulable status from pending re-checks the slot.
func (u *BookingUseCase) Transition(ctx context.Context, id string, target entities.Status) (entities.SyncOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingUseCase.Transition")
	defer span.End()

	b, err := u.Get(ctx, id)
	if err != nil {
		return entities.SyncOutcome{}, err
	}
	next, err := u.machine.Transition(b.Status, target)
	if err != nil {
		return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, err
	}
	if next == b.Status {
		return entities.SyncOutcome{State: entities.SyncStateSynced, Booking: b}, nil
	}
	if next.IsSchedulable() && !b.Status.IsSchedulable() {
		conflict, err := u.conflictsFor(ctx, b)
		if err != nil {
			return entities.SyncOutcome{}, err
		}
		if conflict.Blocking != nil {
			return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, &SlotConflictError{Blocking: *conflict.Blocking}
		}
	}
	log.Printf("[booking][status] booking_id=%s from=%s to=%s", b.ID, b.Status, next)
	b.Status = next
	return u.coordinator.Commit(ctx, b)
}

// Override forces a status change outside the normal ordering. The reason is
// mandatory and recorded in the audit log.
func (u *BookingUseCase) Override(ctx context.Context, id string, target entities.Status, actor, reason string) (entities.SyncOutcome, error) {
	if strings.TrimSpace(reason) == "" {
		return entities.SyncOutcome{}, ErrOverrideReason
	}
	b, err := u.Get(ctx, id)
	if err != nil {
		return entities.SyncOutcome{}, err
	}
	next, err := u.machine.Override(b.ID, b.Status, target, actor, reason)
	if err != nil {
		return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, err
	}
	b.Status = next
	return u.coordinator.commitAbsorbing(ctx, b, entities.EventBookingOverridden)
}

func (u *BookingUseCase) conflictsFor(ctx context.Context, b entities.Booking) (schedule.ConflictResult, error) {
	if !b.IsScheduled() {
		return schedule.ConflictResult{}, nil
	}
	from, to, err := b.OccupiedInterval()
	if err != nil {
		return schedule.ConflictResult{}, fmt.Errorf("%w: %v", ErrInvalidBookingTime, err)
	}
	travel := max(b.TravelMinutes, 0)
	existing, err := u.List(ctx, "")
	if err != nil {
		return schedule.ConflictResult{}, err
	}
	return schedule.FindConflict(schedule.Candidate{
		Date:            b.Date,
		Time:            b.Start(),
		DurationMinutes: (to - travel) - (from + travel),
		TravelMinutes:   travel,
		ExcludeID:       b.ID,
	}, existing), nil
}

func validateSchedule(b entities.Booking) error {
	if _, err := entities.ParseCivilDate(b.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBookingDate, err)
	}
	if !b.IsScheduled() {
		if strings.TrimSpace(b.EndTime) != "" {
			return fmt.Errorf("%w: endTime without startTime", ErrInvalidBookingTime)
		}
		return nil
	}
	if _, _, err := b.OccupiedInterval(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBookingTime, err)
	}
	return nil
}

func applyChanges(b *entities.Booking, c BookingChanges) {
	if c.ClientType != nil {
		b.ClientType = *c.ClientType
	}
	if c.Customer != nil {
		b.Customer = *c.Customer
	}
	if c.Vehicle != nil {
		b.Vehicle = *c.Vehicle
	}
	if c.PackageType != nil {
		b.PackageType = *c.PackageType
	}
	if c.Location != nil {
		b.Location = *c.Location
	}
	if c.Date != nil {
		b.Date = *c.Date
	}
	if c.StartTime != nil {
		b.StartTime = *c.StartTime
		b.Time = ""
	}
	if c.EndTime != nil {
		b.EndTime = *c.EndTime
	}
	if c.TravelMinutes != nil {
		b.TravelMinutes = *c.TravelMinutes
	}
	if c.TotalPrice != nil {
		b.TotalPrice = *c.TotalPrice
	}
	if c.Notes != nil {
		b.Notes = *c.Notes
	}
	if c.Staff != nil {
		b.Staff = c.Staff
	}
}
