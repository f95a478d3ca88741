package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrInvalidBookingID = errors.New("invalid booking id")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCommitFailed     = errors.New("commit failed")
	ErrInvalidTask      = errors.New("invalid service task")
)

const (
	DefaultCommitDebounce = time.Second
	debouncedCommitBudget = 10 * time.Second
)

var tracer = otel.Tracer("valet_manager/usecase")

// StatusClass groups statuses that live in the same set of stores.
type StatusClass string

const (
	ClassPending   StatusClass = "pending"
	ClassScheduled StatusClass = "scheduled"
	ClassClosed    StatusClass = "closed"
)

func ClassOf(s entities.Status) StatusClass {
	switch {
	case s.IsSchedulable():
		return ClassScheduled
	case s == entities.StatusCancelled:
		return ClassClosed
	default:
		return ClassPending
	}
}

// StoreRoute is the declared write target of a status class. Primary is
// written first and must succeed; mirrors are written after it.
type StoreRoute struct {
	Primary interfaces.IBookingStore
	Mirrors []interfaces.IBookingStore
}

// SyncStores lists every store the core reads and writes.
type SyncStores struct {
	Authoritative   interfaces.IBookingStore
	CalendarMirror  interfaces.IBookingStore
	Pending         interfaces.IBookingStore
	ServiceProgress interfaces.IServiceProgressStore
	Tracking        interfaces.ITrackingStore
}

// BookingStores returns the booking stores in read-precedence order.
func (s SyncStores) BookingStores() []interfaces.IBookingStore {
	return []interfaces.IBookingStore{s.Authoritative, s.Pending, s.CalendarMirror}
}

// CommitResult is delivered on the channel returned by Submit.
type CommitResult struct {
	Outcome entities.SyncOutcome
	Err     error
}

// TaskCommitResult reports a task-list commit and, when the list reached
// 100%, the automatic finish commit.
type TaskCommitResult struct {
	Progress       entities.ProgressRecord `json:"progress"`
	Booking        entities.Booking        `json:"booking"`
	TrackingSynced bool                    `json:"trackingSynced"`
	AutoFinished   bool                    `json:"autoFinished"`
	FinishOutcome  *entities.SyncOutcome   `json:"finishOutcome,omitempty"`
	// FinishBlocked explains why a complete task list did not finish the
	// booking.
	FinishBlocked string `json:"finishBlocked,omitempty"`
}

// owedWrites lists what a partially synced commit still has to apply for one
// booking. gen moves on every change so a repair pass does not clear entries
// recorded while it ran.
type owedWrites struct {
	stores   []string
	tracking bool
	gen      int
}

type debouncedCommit struct {
	booking entities.Booking
	waiters []chan CommitResult
	timer   clockwork.Timer
	gen     int
}

// SyncCoordinator writes bookings to every store their status class targets
// and broadcasts a change notification after each successful or partial
// commit.
//
// Consistency model:
//   - The primary store write is awaited; a failure aborts the commit.
//   - Mirror writes and stale-copy removals follow; their failures degrade the
//     outcome to partially_synced and are queued. RepairMirrors retries the
//     queue from the primary copy.
//   - Concurrent editors resolve by last write wins at the primary store.
type SyncCoordinator struct {
	stores    SyncStores
	routes    map[StatusClass]StoreRoute
	machine   *entities.StatusMachine
	publisher interfaces.IEventPublisher
	clock     clockwork.Clock
	window    time.Duration

	mu      sync.Mutex
	pending map[string]*debouncedCommit

	owedMu sync.Mutex
	owed   map[string]*owedWrites
}

func NewSyncCoordinator(stores SyncStores, machine *entities.StatusMachine, publisher interfaces.IEventPublisher, clk clockwork.Clock, window time.Duration) *SyncCoordinator {
	if machine == nil {
		machine = entities.NewStatusMachine()
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	var mirrors []interfaces.IBookingStore
	if stores.CalendarMirror != nil {
		mirrors = append(mirrors, stores.CalendarMirror)
	}
	return &SyncCoordinator{
		stores: stores,
		routes: map[StatusClass]StoreRoute{
			ClassPending:   {Primary: stores.Pending},
			ClassScheduled: {Primary: stores.Authoritative, Mirrors: mirrors},
			ClassClosed:    {Primary: stores.Authoritative},
		},
		machine:   machine,
		publisher: publisher,
		clock:     clk,
		window:    window,
		pending:   map[string]*debouncedCommit{},
		owed:      map[string]*owedWrites{},
	}
}

// Route returns the declared targets for a status.
func (c *SyncCoordinator) Route(s entities.Status) StoreRoute {
	return c.routes[ClassOf(s)]
}

// Stores exposes the configured stores to readers sharing the coordinator.
func (c *SyncCoordinator) Stores() SyncStores {
	return c.stores
}

// Locate returns the freshest known copy of a booking: a not-yet-flushed
// debounced edit first, then the authoritative store, the pending store and
// the calendar mirror.
func (c *SyncCoordinator) Locate(ctx context.Context, id string) (entities.Booking, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, false, ErrInvalidBookingID
	}

	c.mu.Lock()
	if p, ok := c.pending[id]; ok {
		b := p.booking
		c.mu.Unlock()
		return b, true, nil
	}
	c.mu.Unlock()

	var firstErr error
	for _, s := range c.stores.BookingStores() {
		if s == nil {
			continue
		}
		b, ok, err := s.Get(ctx, id)
		if err != nil {
			log.Printf("[sync][warn] locate read failed store=%s booking_id=%s err=%v", s.Name(), id, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			return b, true, nil
		}
	}
	return entities.Booking{}, false, firstErr
}

// Commit writes b immediately. A debounced edit still waiting for the same
// booking is absorbed: its callers receive this commit's result.
func (c *SyncCoordinator) Commit(ctx context.Context, b entities.Booking) (entities.SyncOutcome, error) {
	return c.commitAbsorbing(ctx, b, entities.EventBookingCommitted)
}

// Create commits a booking that must not exist yet. The primary write is
// conditional on the id being absent there; when it is not, nothing is
// written and ErrBookingAlreadyExists is returned.
func (c *SyncCoordinator) Create(ctx context.Context, b entities.Booking) (entities.SyncOutcome, error) {
	return c.write(ctx, b, entities.EventBookingCommitted, true)
}

func (c *SyncCoordinator) commitAbsorbing(ctx context.Context, b entities.Booking, evType entities.ChangeEventType) (entities.SyncOutcome, error) {
	absorbed := c.takePending(strings.TrimSpace(b.ID))
	out, err := c.commit(ctx, b, evType)
	if absorbed != nil {
		deliver(absorbed.waiters, CommitResult{Outcome: out, Err: err})
	}
	return out, err
}

func (c *SyncCoordinator) commit(ctx context.Context, b entities.Booking, evType entities.ChangeEventType) (entities.SyncOutcome, error) {
	return c.write(ctx, b, evType, false)
}

func (c *SyncCoordinator) write(ctx context.Context, b entities.Booking, evType entities.ChangeEventType, create bool) (entities.SyncOutcome, error) {
	ctx, span := tracer.Start(ctx, "SyncCoordinator.Commit")
	defer span.End()

	b.ID = strings.TrimSpace(b.ID)
	if b.ID == "" {
		return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, ErrInvalidBookingID
	}
	if !b.Status.IsValid() {
		b.Status = entities.NormalizeStatus(b.Status.String())
	}
	span.SetAttributes(attribute.String("booking.id", b.ID), attribute.String("booking.status", b.Status.String()))

	now := c.clock.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	switch {
	case b.Status != entities.StatusFinished:
		b.FinishedAt = nil
	case b.FinishedAt == nil:
		b.FinishedAt = &now
	}

	route := c.Route(b.Status)
	if route.Primary == nil {
		return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, fmt.Errorf("%w: no primary store for status %s", ErrCommitFailed, b.Status)
	}

	primaryWrite := route.Primary.Upsert
	if create {
		primaryWrite = route.Primary.Create
	}
	if err := primaryWrite(ctx, b); err != nil {
		if create && errors.Is(err, interfaces.ErrRecordExists) {
			log.Printf("[sync][commit] create refused, id taken store=%s booking_id=%s", route.Primary.Name(), b.ID)
			return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, fmt.Errorf("%w: %s", ErrBookingAlreadyExists, route.Primary.Name())
		}
		log.Printf("[sync][commit] primary write failed store=%s booking_id=%s status=%s err=%v", route.Primary.Name(), b.ID, b.Status, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "primary write failed")
		return entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, fmt.Errorf("%w: %s: %w", ErrCommitFailed, route.Primary.Name(), err)
	}

	var failed []string
	for _, m := range route.Mirrors {
		if err := m.Upsert(ctx, b); err != nil {
			log.Printf("[sync][commit][warn] mirror write failed store=%s booking_id=%s err=%v", m.Name(), b.ID, err)
			failed = append(failed, m.Name())
		}
	}
	for _, s := range c.staleStores(route) {
		if err := s.Remove(ctx, b.ID); err != nil {
			log.Printf("[sync][commit][warn] stale copy removal failed store=%s booking_id=%s err=%v", s.Name(), b.ID, err)
			failed = append(failed, s.Name())
		}
	}

	c.oweStores(b.ID, failed)

	out := entities.SyncOutcome{State: entities.SyncStateSynced, Booking: b}
	if len(failed) > 0 {
		out.State = entities.SyncStatePartiallySynced
		out.FailedStores = failed
	}
	span.SetAttributes(attribute.String("sync.state", string(out.State)))
	log.Printf("[sync][commit] booking_id=%s status=%s state=%s failed_stores=%v", b.ID, b.Status, out.State, failed)

	c.publish(ctx, entities.ChangeEvent{
		Type:         evType,
		BookingID:    b.ID,
		Status:       b.Status,
		Outcome:      out.State,
		FailedStores: failed,
	})
	return out, nil
}

// staleStores lists booking stores outside route that may still hold an old
// copy after a status-class change.
func (c *SyncCoordinator) staleStores(route StoreRoute) []interfaces.IBookingStore {
	in := map[interfaces.IBookingStore]bool{route.Primary: true}
	for _, m := range route.Mirrors {
		in[m] = true
	}
	var out []interfaces.IBookingStore
	for _, s := range c.stores.BookingStores() {
		if s != nil && !in[s] {
			out = append(out, s)
		}
	}
	return out
}

// Submit schedules a debounced commit. Calls for the same booking within the
// window collapse into one write of the latest state; every caller receives
// that write's result.
func (c *SyncCoordinator) Submit(b entities.Booking) <-chan CommitResult {
	ch := make(chan CommitResult, 1)
	b.ID = strings.TrimSpace(b.ID)
	if b.ID == "" {
		ch <- CommitResult{Outcome: entities.SyncOutcome{State: entities.SyncStateFailed, Booking: b}, Err: ErrInvalidBookingID}
		return ch
	}
	if c.window <= 0 {
		out, err := c.Commit(context.Background(), b)
		ch <- CommitResult{Outcome: out, Err: err}
		return ch
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[b.ID]
	if !ok {
		p = &debouncedCommit{}
		c.pending[b.ID] = p
	} else if p.timer != nil {
		p.timer.Stop()
	}
	p.booking = b
	p.waiters = append(p.waiters, ch)
	p.gen++
	gen, id := p.gen, b.ID
	p.timer = c.clock.AfterFunc(c.window, func() { c.fire(id, gen) })
	return ch
}

func (c *SyncCoordinator) fire(id string, gen int) {
	c.mu.Lock()
	p, ok := c.pending[id]
	if !ok || p.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.pending, id)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), debouncedCommitBudget)
	defer cancel()
	out, err := c.commit(ctx, p.booking, entities.EventBookingCommitted)
	deliver(p.waiters, CommitResult{Outcome: out, Err: err})
}

// Flush commits every debounced edit now.
func (c *SyncCoordinator) Flush(ctx context.Context) {
	c.mu.Lock()
	batch := c.pending
	c.pending = map[string]*debouncedCommit{}
	c.mu.Unlock()

	for _, p := range batch {
		if p.timer != nil {
			p.timer.Stop()
		}
		out, err := c.commit(ctx, p.booking, entities.EventBookingCommitted)
		deliver(p.waiters, CommitResult{Outcome: out, Err: err})
	}
}

func (c *SyncCoordinator) takePending(id string) *debouncedCommit {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	if p.timer != nil {
		p.timer.Stop()
	}
	return p
}

func deliver(waiters []chan CommitResult, res CommitResult) {
	for _, w := range waiters {
		w <- res
		close(w)
	}
}

// CommitTasks replaces a booking's task list, refreshes both progress stores
// and, when the list is complete, moves the booking to finished through the
// status machine with one additional commit.
func (c *SyncCoordinator) CommitTasks(ctx context.Context, bookingID string, tasks []entities.ServiceTask) (TaskCommitResult, error) {
	ctx, span := tracer.Start(ctx, "SyncCoordinator.CommitTasks")
	defer span.End()

	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return TaskCommitResult{}, ErrInvalidBookingID
	}
	span.SetAttributes(attribute.String("booking.id", bookingID))

	normalized := make([]entities.ServiceTask, 0, len(tasks))
	for i, t := range tasks {
		if t.AllocatedTime < 0 || t.ActualTime < 0 {
			return TaskCommitResult{}, fmt.Errorf("%w: task %d has negative minutes", ErrInvalidTask, i)
		}
		if strings.TrimSpace(t.ID) == "" {
			t.ID = uuid.NewString()
		}
		normalized = append(normalized, t)
	}

	b, found, err := c.Locate(ctx, bookingID)
	if err != nil && !found {
		return TaskCommitResult{}, err
	}
	if !found {
		return TaskCommitResult{}, ErrBookingNotFound
	}

	rec := schedule.ComputeProgress(bookingID, normalized, c.clock.Now().UTC())
	if err := c.stores.ServiceProgress.PutProgress(ctx, entities.ServiceProgress{
		BookingID:          bookingID,
		Tasks:              normalized,
		ProgressPercentage: rec.ProgressPercentage,
		LastUpdated:        rec.LastUpdated,
	}); err != nil {
		log.Printf("[progress][commit] service progress write failed booking_id=%s err=%v", bookingID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "service progress write failed")
		return TaskCommitResult{}, fmt.Errorf("%w: serviceProgress: %w", ErrCommitFailed, err)
	}

	res := TaskCommitResult{Progress: rec, Booking: b, TrackingSynced: true}
	if err := c.stores.Tracking.PutTracking(ctx, entities.TrackingFromProgress(rec)); err != nil {
		log.Printf("[progress][commit][warn] tracking cache write failed booking_id=%s err=%v", bookingID, err)
		res.TrackingSynced = false
	}
	c.oweTracking(bookingID, !res.TrackingSynced)
	log.Printf("[progress][commit] booking_id=%s progress=%d step=%q tasks=%d", bookingID, rec.ProgressPercentage, rec.CurrentStepLabel, rec.TotalTasks)

	pct := rec.ProgressPercentage
	c.publish(ctx, entities.ChangeEvent{
		Type:               entities.EventProgressUpdated,
		BookingID:          bookingID,
		Status:             b.Status,
		ProgressPercentage: &pct,
	})

	if !rec.IsComplete() || b.Status == entities.StatusFinished {
		return res, nil
	}
	if b.Status == entities.StatusPending {
		// Finishing would place an unconfirmed request on the calendar without
		// the slot check confirmation runs.
		res.FinishBlocked = "booking is not confirmed"
		log.Printf("[progress][commit][warn] auto-finish skipped, booking not confirmed booking_id=%s", bookingID)
		return res, nil
	}
	next, err := c.machine.Transition(b.Status, entities.StatusFinished)
	if err != nil {
		log.Printf("[progress][commit][warn] auto-finish rejected booking_id=%s status=%s err=%v", bookingID, b.Status, err)
		return res, nil
	}
	b.Status = next
	out, err := c.Commit(ctx, b)
	if err != nil {
		log.Printf("[progress][commit] auto-finish commit failed booking_id=%s err=%v", bookingID, err)
	}
	res.AutoFinished = err == nil
	res.FinishOutcome = &out
	res.Booking = out.Booking
	return res, nil
}

func (c *SyncCoordinator) oweStores(id string, failed []string) {
	c.owedMu.Lock()
	defer c.owedMu.Unlock()
	o := c.owed[id]
	if o == nil {
		if len(failed) == 0 {
			return
		}
		o = &owedWrites{}
		c.owed[id] = o
	}
	o.stores = append([]string(nil), failed...)
	o.gen++
	if len(o.stores) == 0 && !o.tracking {
		delete(c.owed, id)
	}
}

func (c *SyncCoordinator) oweTracking(id string, owed bool) {
	c.owedMu.Lock()
	defer c.owedMu.Unlock()
	o := c.owed[id]
	if o == nil {
		if !owed {
			return
		}
		o = &owedWrites{}
		c.owed[id] = o
	}
	o.tracking = owed
	o.gen++
	if len(o.stores) == 0 && !o.tracking {
		delete(c.owed, id)
	}
}

// OwedRepairs returns the ids of bookings whose last commit left a store
// behind.
func (c *SyncCoordinator) OwedRepairs() []string {
	c.owedMu.Lock()
	defer c.owedMu.Unlock()
	ids := make([]string, 0, len(c.owed))
	for id := range c.owed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RepairMirrors retries the writes partially synced commits could not apply.
// Mirror copies are re-written from the primary copy as stored (UpdatedAt is
// kept), stale copies are removed again and a missed tracking cache is
// rebuilt from serviceProgress. Writes that fail again stay queued. It
// returns the number of bookings left fully repaired.
func (c *SyncCoordinator) RepairMirrors(ctx context.Context) int {
	c.owedMu.Lock()
	batch := make(map[string]owedWrites, len(c.owed))
	for id, o := range c.owed {
		batch[id] = *o
	}
	c.owedMu.Unlock()
	if len(batch) == 0 {
		return 0
	}

	ctx, span := tracer.Start(ctx, "SyncCoordinator.RepairMirrors")
	defer span.End()
	span.SetAttributes(attribute.Int("repair.owed", len(batch)))

	repaired := 0
	for id, owed := range batch {
		if c.isBuffered(id) {
			// The debounced commit rewrites every store of its route.
			continue
		}
		left := owed
		if len(owed.stores) > 0 {
			left.stores = c.repairStores(ctx, id, owed.stores)
		}
		if owed.tracking {
			left.tracking = !c.repairTracking(ctx, id)
		}
		if c.settleOwed(id, owed.gen, left) {
			repaired++
		}
	}
	return repaired
}

func (c *SyncCoordinator) isBuffered(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// settleOwed stores what is still owed after a repair attempt, unless a commit
// replaced the entry meanwhile. It reports whether nothing is owed anymore.
func (c *SyncCoordinator) settleOwed(id string, gen int, left owedWrites) bool {
	c.owedMu.Lock()
	defer c.owedMu.Unlock()
	o, ok := c.owed[id]
	if !ok || o.gen != gen {
		return false
	}
	if len(left.stores) == 0 && !left.tracking {
		delete(c.owed, id)
		return true
	}
	o.stores = left.stores
	o.tracking = left.tracking
	return false
}

// primaryCopy returns the most recently committed copy held by a primary
// store. Every commit stamps UpdatedAt, so a copy a failed removal left behind
// is always older than the live one.
func (c *SyncCoordinator) primaryCopy(ctx context.Context, id string) (entities.Booking, bool, error) {
	var (
		best  entities.Booking
		found bool
	)
	for _, s := range []interfaces.IBookingStore{c.stores.Authoritative, c.stores.Pending} {
		if s == nil {
			continue
		}
		b, ok, err := s.Get(ctx, id)
		if err != nil {
			return entities.Booking{}, false, fmt.Errorf("%s: %w", s.Name(), err)
		}
		if ok && (!found || b.UpdatedAt.After(best.UpdatedAt)) {
			best, found = b, true
		}
	}
	return best, found, nil
}

func (c *SyncCoordinator) repairStores(ctx context.Context, id string, names []string) []string {
	b, found, err := c.primaryCopy(ctx, id)
	if err != nil {
		log.Printf("[sync][repair][warn] primary read failed booking_id=%s err=%v", id, err)
		return names
	}
	if !found {
		log.Printf("[sync][repair] booking gone from primary stores, dropping owed writes booking_id=%s stores=%v", id, names)
		return nil
	}

	route := c.Route(b.Status)
	mirrors := map[string]interfaces.IBookingStore{}
	for _, m := range route.Mirrors {
		mirrors[m.Name()] = m
	}
	stale := map[string]interfaces.IBookingStore{}
	for _, s := range c.staleStores(route) {
		stale[s.Name()] = s
	}

	var left []string
	for _, name := range names {
		var err error
		switch {
		case mirrors[name] != nil:
			err = mirrors[name].Upsert(ctx, b)
		case stale[name] != nil:
			err = stale[name].Remove(ctx, id)
		default:
			// The booking changed class since; name is its primary now.
			continue
		}
		if err != nil {
			log.Printf("[sync][repair][warn] store still failing store=%s booking_id=%s err=%v", name, id, err)
			left = append(left, name)
			continue
		}
		log.Printf("[sync][repair] store=%s booking_id=%s status=%s", name, id, b.Status)
	}
	return left
}

func (c *SyncCoordinator) repairTracking(ctx context.Context, id string) bool {
	sp, ok, err := c.stores.ServiceProgress.GetProgress(ctx, id)
	if err != nil {
		log.Printf("[sync][repair][warn] service progress read failed booking_id=%s err=%v", id, err)
		return false
	}
	if !ok {
		return true
	}
	rec := schedule.ComputeProgress(id, sp.Tasks, sp.LastUpdated)
	if err := c.stores.Tracking.PutTracking(ctx, entities.TrackingFromProgress(rec)); err != nil {
		log.Printf("[sync][repair][warn] tracking cache still failing booking_id=%s err=%v", id, err)
		return false
	}
	log.Printf("[sync][repair] store=trackingProgress booking_id=%s progress=%d", id, rec.ProgressPercentage)
	return true
}

func (c *SyncCoordinator) publish(ctx context.Context, ev entities.ChangeEvent) {
	if c.publisher == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.Source = entities.SourceLocal
	ev.OccurredAt = c.clock.Now().UTC()
	if err := c.publisher.Publish(ctx, ev); err != nil {
		log.Printf("[sync][warn] notification publish failed booking_id=%s type=%s err=%v", ev.BookingID, ev.Type, err)
	}
}
