package request

import (
	"strings"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase"
)

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r CustomerRequest) toEntity() entities.Customer {
	return entities.Customer{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Phone:   strings.TrimSpace(r.Phone),
		Address: strings.TrimSpace(r.Address),
	}
}

type VehicleRequest struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Registration string `json:"registration"`
	Type         string `json:"type"`
}

func (r VehicleRequest) toEntity() entities.Vehicle {
	return entities.Vehicle{
		Make:         strings.TrimSpace(r.Make),
		Model:        strings.TrimSpace(r.Model),
		Registration: strings.ToUpper(strings.TrimSpace(r.Registration)),
		Type:         strings.TrimSpace(r.Type),
	}
}

// CreateBookingRequest accepts both startTime and the legacy time field.
type CreateBookingRequest struct {
	ID            string          `json:"id"`
	ClientType    string          `json:"clientType"`
	Customer      CustomerRequest `json:"customer"`
	Vehicle       VehicleRequest  `json:"vehicle"`
	PackageType   string          `json:"packageType"`
	Location      string          `json:"location"`
	Date          string          `json:"date" binding:"required"`
	Time          string          `json:"time"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime"`
	TravelMinutes int             `json:"travelMinutes" binding:"gte=0"`
	Status        string          `json:"status"`
	TotalPrice    float64         `json:"totalPrice" binding:"gte=0"`
	Notes         string          `json:"notes"`
	Staff         []string        `json:"staff"`
}

// ToEntity builds the booking; an empty status means pending and an unknown
// one is normalized to pending.
func (r CreateBookingRequest) ToEntity() entities.Booking {
	status := entities.StatusPending
	if raw := strings.TrimSpace(r.Status); raw != "" {
		status = entities.NormalizeStatus(raw)
	}
	return entities.Booking{
		ID:            strings.TrimSpace(r.ID),
		ClientType:    strings.TrimSpace(r.ClientType),
		Customer:      r.Customer.toEntity(),
		Vehicle:       r.Vehicle.toEntity(),
		PackageType:   strings.TrimSpace(r.PackageType),
		Location:      strings.TrimSpace(r.Location),
		Date:          strings.TrimSpace(r.Date),
		Time:          strings.TrimSpace(r.Time),
		StartTime:     strings.TrimSpace(r.StartTime),
		EndTime:       strings.TrimSpace(r.EndTime),
		TravelMinutes: r.TravelMinutes,
		Status:        status,
		TotalPrice:    r.TotalPrice,
		Notes:         r.Notes,
		Staff:         r.Staff,
	}
}

// UpdateBookingRequest carries descriptive edits; absent fields are kept.
type UpdateBookingRequest struct {
	ClientType    *string          `json:"clientType"`
	Customer      *CustomerRequest `json:"customer"`
	Vehicle       *VehicleRequest  `json:"vehicle"`
	PackageType   *string          `json:"packageType"`
	Location      *string          `json:"location"`
	Date          *string          `json:"date"`
	StartTime     *string          `json:"startTime"`
	EndTime       *string          `json:"endTime"`
	TravelMinutes *int             `json:"travelMinutes" binding:"omitempty,gte=0"`
	TotalPrice    *float64         `json:"totalPrice" binding:"omitempty,gte=0"`
	Notes         *string          `json:"notes"`
	Staff         []string         `json:"staff"`
}

func (r UpdateBookingRequest) IsEmpty() bool {
	return r.ClientType == nil && r.Customer == nil && r.Vehicle == nil && r.PackageType == nil &&
		r.Location == nil && r.Date == nil && r.StartTime == nil && r.EndTime == nil &&
		r.TravelMinutes == nil && r.TotalPrice == nil && r.Notes == nil && r.Staff == nil
}

func (r UpdateBookingRequest) ToChanges() usecase.BookingChanges {
	ch := usecase.BookingChanges{
		ClientType:    r.ClientType,
		PackageType:   r.PackageType,
		Location:      r.Location,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		TravelMinutes: r.TravelMinutes,
		TotalPrice:    r.TotalPrice,
		Notes:         r.Notes,
		Staff:         r.Staff,
	}
	if r.Customer != nil {
		c := r.Customer.toEntity()
		ch.Customer = &c
	}
	if r.Vehicle != nil {
		v := r.Vehicle.toEntity()
		ch.Vehicle = &v
	}
	return ch
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OverrideRequest requires a reason; actor identifies who forced the change.
type OverrideRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
	Reason string `json:"reason" binding:"required"`
}

type AvailabilityRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"gte=0"`
	TravelMinutes   int    `json:"travelMinutes" binding:"gte=0"`
	ExcludeID       string `json:"excludeId"`
}

func (r AvailabilityRequest) ToCandidate() schedule.Candidate {
	return schedule.Candidate{
		Date:            strings.TrimSpace(r.Date),
		Time:            strings.TrimSpace(r.Time),
		DurationMinutes: r.DurationMinutes,
		TravelMinutes:   r.TravelMinutes,
		ExcludeID:       strings.TrimSpace(r.ExcludeID),
	}
}
