package entities

import "time"

type ChangeEventType string

const (
	EventBookingCommitted  ChangeEventType = "booking.committed"
	EventBookingOverridden ChangeEventType = "booking.overridden"
	EventProgressUpdated   ChangeEventType = "progress.updated"
	EventExternalChange    ChangeEventType = "booking.external_change"
)

type EventSource string

const (
	SourceLocal  EventSource = "local"
	SourcePoll   EventSource = "poll"
	SourceRemote EventSource = "remote"
)

// ChangeEvent is the notification broadcast after a booking or its task list
// changes. Observers re-fetch only BookingID.
type ChangeEvent struct {
	ID                 string          `json:"id"`
	Type               ChangeEventType `json:"type"`
	BookingID          string          `json:"bookingId"`
	Status             Status          `json:"status"`
	ProgressPercentage *int            `json:"progressPercentage,omitempty"`
	Outcome            SyncState       `json:"outcome,omitempty"`
	FailedStores       []string        `json:"failedStores,omitempty"`
	Source             EventSource     `json:"source"`
	OccurredAt         time.Time       `json:"occurredAt"`
}

// SyncState is the result class of a commit.
type SyncState string

const (
	SyncStateSynced          SyncState = "synced"
	SyncStatePartiallySynced SyncState = "partially_synced"
	SyncStateFailed          SyncState = "failed"
)

// SyncOutcome reports how a commit landed across the stores it targeted.
type SyncOutcome struct {
	State        SyncState `json:"state"`
	Booking      Booking   `json:"booking"`
	FailedStores []string  `json:"failedStores,omitempty"`
}
