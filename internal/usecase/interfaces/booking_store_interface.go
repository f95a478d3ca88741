package interfaces

//go:generate mockgen -source=booking_store_interface.go -destination=mocks/booking_store_interface.go -package=mock_interfaces

import (
	"context"
	"errors"
	"valet_manager/internal/domain/entities"
)

// ErrRecordExists is returned by Create when the id is already stored.
var ErrRecordExists = errors.New("record already exists")

// IBookingStore is one persisted copy of booking records (authoritative table,
// calendar mirror, or pending list).
//
// Contract:
//   - Get returns (zero, false, nil) when the id is absent.
//   - Create writes only when the id is absent, atomically with that check;
//     otherwise it returns ErrRecordExists.
//   - Upsert replaces the whole record; it never patches fields.
//   - Remove of an absent id is a no-op.
//   - List never fails on malformed persisted data: it logs and returns what it could read.

type IBookingStore interface {
	Name() string
	Get(ctx context.Context, id string) (entities.Booking, bool, error)
	List(ctx context.Context) ([]entities.Booking, error)
	Create(ctx context.Context, b entities.Booking) error
	Upsert(ctx context.Context, b entities.Booking) error
	Remove(ctx context.Context, id string) error
}
