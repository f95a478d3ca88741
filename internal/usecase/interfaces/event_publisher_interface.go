package interfaces

//go:generate mockgen -source=event_publisher_interface.go -destination=mocks/event_publisher_interface.go -package=mock_interfaces

import (
	"context"
	"valet_manager/internal/domain/entities"
)

// IEventPublisher broadcasts change notifications. Implementations must not
// block the committing caller on slow observers.

type IEventPublisher interface {
	Publish(ctx context.Context, ev entities.ChangeEvent) error
}

// IEventSubscriber hands out notification streams. The returned func cancels
// the subscription and closes the channel.

type IEventSubscriber interface {
	Subscribe(bookingID string) (<-chan entities.ChangeEvent, func())
	SubscribeAll() (<-chan entities.ChangeEvent, func())
}
