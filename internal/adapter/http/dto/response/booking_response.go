package response

import (
	"time"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase"
)

type BookingResponse struct {
	ID            string            `json:"id"`
	ClientType    string            `json:"clientType,omitempty"`
	Customer      entities.Customer `json:"customer"`
	Vehicle       entities.Vehicle  `json:"vehicle"`
	PackageType   string            `json:"packageType,omitempty"`
	Location      string            `json:"location,omitempty"`
	Date          string            `json:"date"`
	StartTime     string            `json:"startTime,omitempty"`
	EndTime       string            `json:"endTime,omitempty"`
	TravelMinutes int               `json:"travelMinutes"`
	Status        string            `json:"status"`
	TotalPrice    float64           `json:"totalPrice"`
	Notes         string            `json:"notes,omitempty"`
	Staff         []string          `json:"staff,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	FinishedAt    *time.Time        `json:"finishedAt,omitempty"`
}

func FromBooking(b entities.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		ClientType:    b.ClientType,
		Customer:      b.Customer,
		Vehicle:       b.Vehicle,
		PackageType:   b.PackageType,
		Location:      b.Location,
		Date:          b.Date,
		StartTime:     b.Start(),
		EndTime:       b.EndTime,
		TravelMinutes: b.TravelMinutes,
		Status:        b.Status.String(),
		TotalPrice:    b.TotalPrice,
		Notes:         b.Notes,
		Staff:         b.Staff,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		FinishedAt:    b.FinishedAt,
	}
}

func FromBookings(list []entities.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, FromBooking(b))
	}
	return out
}

// SyncResponse reports where a commit landed. FailedStores lists mirrors
// that still hold a stale copy.
type SyncResponse struct {
	State        string          `json:"state"`
	FailedStores []string        `json:"failedStores,omitempty"`
	Booking      BookingResponse `json:"booking"`
}

func FromOutcome(o entities.SyncOutcome) SyncResponse {
	return SyncResponse{
		State:        string(o.State),
		FailedStores: o.FailedStores,
		Booking:      FromBooking(o.Booking),
	}
}

type CreateBookingResponse struct {
	SyncResponse
	Advisory []BookingResponse `json:"advisory"`
}

func FromCreateResult(r usecase.CreateResult) CreateBookingResponse {
	return CreateBookingResponse{
		SyncResponse: FromOutcome(r.Outcome),
		Advisory:     FromBookings(r.Advisory),
	}
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Blocking  *BookingResponse  `json:"blocking"`
	Advisory  []BookingResponse `json:"advisory"`
}

func FromConflict(r schedule.ConflictResult) AvailabilityResponse {
	out := AvailabilityResponse{Available: r.Available(), Advisory: FromBookings(r.Advisory)}
	if r.Blocking != nil {
		b := FromBooking(*r.Blocking)
		out.Blocking = &b
	}
	return out
}
