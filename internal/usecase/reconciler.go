package usecase

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultPollInterval     = 5 * time.Second
	DefaultReconcileSpacing = time.Second
	reconcilePassBudget     = 30 * time.Second
	unknownProgress         = -1
)

// snapshot is the last known state of a watched booking. A zero updated time
// means the last change came from a local notification.
type snapshot struct {
	seeded   bool
	present  bool
	status   entities.Status
	updated  time.Time
	progress int
}

// Reconciler keeps observers of watched bookings current when another device
// writes to the shared stores. It polls on a fixed interval and also reacts to
// local notifications; passes closer together than the minimum spacing are
// skipped. A pass first retries store writes earlier commits left owed, then
// diff-checks each watched booking against its last known state, publishes an
// external-change event for differences it did not cause and runs the
// consistency validator.
type Reconciler struct {
	coordinator *SyncCoordinator
	validator   *ConsistencyValidator
	publisher   interfaces.IEventPublisher
	subscriber  interfaces.IEventSubscriber
	clock       clockwork.Clock
	interval    time.Duration
	spacing     time.Duration

	mu       sync.Mutex
	watched  map[string]snapshot
	lastPass time.Time
	reports  map[string]ConsistencyReport
}

func NewReconciler(coordinator *SyncCoordinator, validator *ConsistencyValidator, publisher interfaces.IEventPublisher, subscriber interfaces.IEventSubscriber, clk clockwork.Clock, interval, spacing time.Duration) *Reconciler {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if spacing < 0 {
		spacing = 0
	}
	return &Reconciler{
		coordinator: coordinator,
		validator:   validator,
		publisher:   publisher,
		subscriber:  subscriber,
		clock:       clk,
		interval:    interval,
		spacing:     spacing,
		watched:     map[string]snapshot{},
		reports:     map[string]ConsistencyReport{},
	}
}

// Watch adds a booking to the polled set. Watching twice is harmless.
func (r *Reconciler) Watch(bookingID string) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.watched[bookingID]; !ok {
		r.watched[bookingID] = snapshot{progress: unknownProgress}
	}
}

func (r *Reconciler) Unwatch(bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watched, bookingID)
	delete(r.reports, bookingID)
}

// Watched returns the number of bookings being polled.
func (r *Reconciler) Watched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watched)
}

// LastReport returns the latest consistency report of a watched booking.
func (r *Reconciler) LastReport(bookingID string) (ConsistencyReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[bookingID]
	return rep, ok
}

// Run polls until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	var events <-chan entities.ChangeEvent
	if r.subscriber != nil {
		ch, cancel := r.subscriber.SubscribeAll()
		defer cancel()
		events = ch
	}

	log.Printf("[reconcile] started interval=%s min_spacing=%s", r.interval, r.spacing)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[reconcile] stopped")
			return ctx.Err()
		case <-ticker.Chan():
			r.Tick(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if r.Observe(ev) {
				r.Tick(ctx)
			}
		}
	}
}

// Observe records a change observers were already notified of (local commit
// or remote replay) so the next pass does not report it again. It reports
// whether the booking is watched.
func (r *Reconciler) Observe(ev entities.ChangeEvent) bool {
	if ev.Source == entities.SourcePoll {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.watched[ev.BookingID]
	if !ok {
		return false
	}
	if !s.seeded {
		return true
	}
	if ev.Type != entities.EventProgressUpdated {
		s.status = ev.Status
		s.present = true
		s.updated = time.Time{}
	}
	if ev.ProgressPercentage != nil {
		s.progress = *ev.ProgressPercentage
	}
	r.watched[ev.BookingID] = s
	return true
}

// Tick runs a pass unless the previous one is closer than the minimum
// spacing. It reports whether a pass ran.
func (r *Reconciler) Tick(ctx context.Context) bool {
	now := r.clock.Now()
	r.mu.Lock()
	if !r.lastPass.IsZero() && now.Sub(r.lastPass) < r.spacing {
		r.mu.Unlock()
		return false
	}
	r.lastPass = now
	ids := make([]string, 0, len(r.watched))
	for id := range r.watched {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, reconcilePassBudget)
	defer cancel()
	if n := r.coordinator.RepairMirrors(ctx); n > 0 {
		log.Printf("[reconcile] repaired owed store writes bookings=%d", n)
	}
	for _, id := range ids {
		r.reconcile(ctx, id)
	}
	return true
}

func (r *Reconciler) reconcile(ctx context.Context, id string) {
	b, found, err := r.coordinator.Locate(ctx, id)
	if err != nil && !found {
		log.Printf("[reconcile][warn] read failed booking_id=%s err=%v", id, err)
		return
	}

	cur := snapshot{seeded: true, present: found, progress: unknownProgress}
	if found {
		cur.status = b.Status
		cur.updated = b.UpdatedAt
	}
	if sp, ok, err := r.coordinator.Stores().ServiceProgress.GetProgress(ctx, id); err != nil {
		log.Printf("[reconcile][warn] progress read failed booking_id=%s err=%v", id, err)
	} else if ok {
		cur.progress = sp.ProgressPercentage
	}

	r.mu.Lock()
	prev, watched := r.watched[id]
	if !watched {
		r.mu.Unlock()
		return
	}
	changed := prev.seeded && (prev.present != cur.present ||
		prev.status != cur.status ||
		(!prev.updated.IsZero() && !prev.updated.Equal(cur.updated)) ||
		(cur.progress != unknownProgress && prev.progress != cur.progress))
	r.watched[id] = cur
	r.mu.Unlock()

	if changed {
		log.Printf("[reconcile] external change booking_id=%s status=%s->%s progress=%d->%d", id, prev.status, cur.status, prev.progress, cur.progress)
		r.publishExternal(ctx, id, cur)
	}

	if r.validator != nil {
		if rep, err := r.validator.Check(ctx, id); err == nil {
			r.mu.Lock()
			if _, ok := r.watched[id]; ok {
				r.reports[id] = rep
			}
			r.mu.Unlock()
		}
	}

	if found && b.Status.IsTerminal() && !changed {
		// Nothing moves a terminal booking except an override, which is local.
		r.Unwatch(id)
	}
}

func (r *Reconciler) publishExternal(ctx context.Context, id string, cur snapshot) {
	if r.publisher == nil {
		return
	}
	ev := entities.ChangeEvent{
		ID:         uuid.NewString(),
		Type:       entities.EventExternalChange,
		BookingID:  id,
		Status:     cur.status,
		Source:     entities.SourcePoll,
		OccurredAt: r.clock.Now().UTC(),
	}
	if cur.progress != unknownProgress {
		p := cur.progress
		ev.ProgressPercentage = &p
	}
	if err := r.publisher.Publish(ctx, ev); err != nil {
		log.Printf("[reconcile][warn] publish failed booking_id=%s err=%v", id, err)
	}
}
