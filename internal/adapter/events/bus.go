package events

import (
	"context"
	"log"
	"sync"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"
)

const defaultSubscriberBuffer = 32

type subscriber struct {
	ch        chan entities.ChangeEvent
	bookingID string
}

// Bus is the in-process publish/subscribe channel for change notifications,
// keyed by booking id. Delivery never blocks the publisher: an observer whose
// buffer is full misses the event and is expected to catch up on the next
// reconcile tick.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscriber
	buffer int
}

var (
	_ interfaces.IEventPublisher  = (*Bus)(nil)
	_ interfaces.IEventSubscriber = (*Bus)(nil)
)

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Bus{subs: map[int]subscriber{}, buffer: buffer}
}

// Subscribe returns events for one booking only.
func (b *Bus) Subscribe(bookingID string) (<-chan entities.ChangeEvent, func()) {
	return b.add(bookingID)
}

// SubscribeAll returns events for every booking.
func (b *Bus) SubscribeAll() (<-chan entities.ChangeEvent, func()) {
	return b.add("")
}

func (b *Bus) add(bookingID string) (<-chan entities.ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan entities.ChangeEvent, b.buffer)
	b.subs[id] = subscriber{ch: ch, bookingID: bookingID}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Bus) Publish(_ context.Context, ev entities.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, s := range b.subs {
		if s.bookingID != "" && s.bookingID != ev.BookingID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			log.Printf("[events][warn] subscriber buffer full, event dropped subscriber=%d booking_id=%s type=%s", id, ev.BookingID, ev.Type)
		}
	}
	return nil
}

// Fanout forwards each event to every publisher. A failing sink is logged and
// does not stop delivery to the others; the first error is returned.
type Fanout []interfaces.IEventPublisher

var _ interfaces.IEventPublisher = Fanout(nil)

func (f Fanout) Publish(ctx context.Context, ev entities.ChangeEvent) error {
	var first error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("[events][warn] publisher failed booking_id=%s type=%s err=%v", ev.BookingID, ev.Type, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
