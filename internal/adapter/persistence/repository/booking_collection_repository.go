package repository

import (
	"context"
	"sync"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase/interfaces"
)

// BookingCollectionRepository keeps bookings as one JSON array under a single
// key of a key-value store (pendingBookings, plannerCalendarBookings).
//
// Upserts go through the record merger so a booking id appears at most once.

type BookingCollectionRepository struct {
	kv  interfaces.IKeyValueStore
	key string
	mu  sync.Mutex
}

var _ interfaces.IBookingStore = (*BookingCollectionRepository)(nil)

func NewBookingCollectionRepository(kv interfaces.IKeyValueStore, key string) *BookingCollectionRepository {
	return &BookingCollectionRepository{kv: kv, key: key}
}

func (r *BookingCollectionRepository) Name() string {
	return r.key
}

func (r *BookingCollectionRepository) Get(ctx context.Context, id string) (entities.Booking, bool, error) {
	list, err := r.List(ctx)
	if err != nil {
		return entities.Booking{}, false, err
	}
	for _, b := range list {
		if b.ID == id {
			return b, true, nil
		}
	}
	return entities.Booking{}, false, nil
}

func (r *BookingCollectionRepository) List(ctx context.Context) ([]entities.Booking, error) {
	list, err := readCollection[entities.Booking](ctx, r.kv, r.key)
	if err != nil {
		return nil, err
	}
	return schedule.MergeBookings(list, nil), nil
}

func (r *BookingCollectionRepository) Create(ctx context.Context, b entities.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := loadCollection[entities.Booking](ctx, r.kv, r.key)
	if err != nil {
		return err
	}
	for _, cur := range list {
		if cur.ID == b.ID {
			return interfaces.ErrRecordExists
		}
	}
	return writeCollection(ctx, r.kv, r.key, append(list, b))
}

func (r *BookingCollectionRepository) Upsert(ctx context.Context, b entities.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := loadCollection[entities.Booking](ctx, r.kv, r.key)
	if err != nil {
		return err
	}
	return writeCollection(ctx, r.kv, r.key, schedule.UpsertBooking(list, b))
}

func (r *BookingCollectionRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := loadCollection[entities.Booking](ctx, r.kv, r.key)
	if err != nil {
		return err
	}
	next, removed := schedule.RemoveBooking(list, id)
	if !removed {
		return nil
	}
	return writeCollection(ctx, r.kv, r.key, next)
}
