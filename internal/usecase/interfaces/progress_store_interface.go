package interfaces

//go:generate mockgen -source=progress_store_interface.go -destination=mocks/progress_store_interface.go -package=mock_interfaces

import (
	"context"
	"valet_manager/internal/domain/entities"
)

// IServiceProgressStore persists the task list of each booking (serviceProgress).

type IServiceProgressStore interface {
	GetProgress(ctx context.Context, bookingID string) (entities.ServiceProgress, bool, error)
	PutProgress(ctx context.Context, p entities.ServiceProgress) error
}

// ITrackingStore persists the customer-facing progress cache (trackingProgress).

type ITrackingStore interface {
	GetTracking(ctx context.Context, bookingID string) (entities.TrackingRecord, bool, error)
	PutTracking(ctx context.Context, r entities.TrackingRecord) error
}
