package repository

import (
	"context"
	"sync"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"
)

// TrackingCollectionRepository stores the trackingProgress cache as one JSON
// array keyed by bookingId.

type TrackingCollectionRepository struct {
	kv interfaces.IKeyValueStore
	mu sync.Mutex
}

var _ interfaces.ITrackingStore = (*TrackingCollectionRepository)(nil)

func NewTrackingCollectionRepository(kv interfaces.IKeyValueStore) *TrackingCollectionRepository {
	return &TrackingCollectionRepository{kv: kv}
}

func (r *TrackingCollectionRepository) GetTracking(ctx context.Context, bookingID string) (entities.TrackingRecord, bool, error) {
	list, err := readCollection[entities.TrackingRecord](ctx, r.kv, KeyTrackingProgress)
	if err != nil {
		return entities.TrackingRecord{}, false, err
	}
	for _, rec := range list {
		if rec.BookingID == bookingID {
			return rec, true, nil
		}
	}
	return entities.TrackingRecord{}, false, nil
}

func (r *TrackingCollectionRepository) PutTracking(ctx context.Context, rec entities.TrackingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := loadCollection[entities.TrackingRecord](ctx, r.kv, KeyTrackingProgress)
	if err != nil {
		return err
	}
	return writeCollection(ctx, r.kv, KeyTrackingProgress, replaceByBooking(list, rec, func(t entities.TrackingRecord) string { return t.BookingID }))
}

// ServiceProgressCollectionRepository stores serviceProgress as one JSON array
// keyed by bookingId. It backs the device-local deployment and tests; the
// server deployment uses ServiceProgressDynamoRepository.

type ServiceProgressCollectionRepository struct {
	kv interfaces.IKeyValueStore
	mu sync.Mutex
}

var _ interfaces.IServiceProgressStore = (*ServiceProgressCollectionRepository)(nil)

func NewServiceProgressCollectionRepository(kv interfaces.IKeyValueStore) *ServiceProgressCollectionRepository {
	return &ServiceProgressCollectionRepository{kv: kv}
}

func (r *ServiceProgressCollectionRepository) GetProgress(ctx context.Context, bookingID string) (entities.ServiceProgress, bool, error) {
	list, err := readCollection[entities.ServiceProgress](ctx, r.kv, KeyServiceProgress)
	if err != nil {
		return entities.ServiceProgress{}, false, err
	}
	for _, p := range list {
		if p.BookingID == bookingID {
			return p, true, nil
		}
	}
	return entities.ServiceProgress{}, false, nil
}

func (r *ServiceProgressCollectionRepository) PutProgress(ctx context.Context, p entities.ServiceProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := loadCollection[entities.ServiceProgress](ctx, r.kv, KeyServiceProgress)
	if err != nil {
		return err
	}
	return writeCollection(ctx, r.kv, KeyServiceProgress, replaceByBooking(list, p, func(s entities.ServiceProgress) string { return s.BookingID }))
}

func replaceByBooking[T any](list []T, v T, key func(T) string) []T {
	id := key(v)
	out := make([]T, 0, len(list)+1)
	replaced := false
	for _, cur := range list {
		if key(cur) != id {
			out = append(out, cur)
			continue
		}
		if !replaced {
			out = append(out, v)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, v)
	}
	return out
}
