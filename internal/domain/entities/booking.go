package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultSlotMinutes is the occupied duration assumed when a booking carries
// no endTime.
const DefaultSlotMinutes = 120

var (
	ErrMalformedTime = errors.New("malformed time")
	ErrMalformedDate = errors.New("malformed date")
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Vehicle struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Registration string `json:"registration,omitempty"`
	Type         string `json:"type,omitempty"`
}

// Booking is a valeting appointment.
//
// Identity:
//   - ID is caller-generated and opaque; it is unique across every store.
//
// Scheduling fields:
//   - Date is a time-zone-naive business day ("2006-01-02"; ISO timestamps are
//     accepted and truncated to their date part).
//   - Time is the legacy alias of StartTime.
//   - EndTime defaults to StartTime + DefaultSlotMinutes.
//   - TravelMinutes pads the occupied interval on both sides.
type Booking struct {
	ID            string    `json:"id"`
	ClientType    string    `json:"clientType,omitempty"`
	Customer      Customer  `json:"customer"`
	Vehicle       Vehicle   `json:"vehicle"`
	PackageType   string    `json:"packageType,omitempty"`
	Location      string    `json:"location,omitempty"`
	Date          string    `json:"date"`
	Time          string    `json:"time,omitempty"`
	StartTime     string    `json:"startTime,omitempty"`
	EndTime       string    `json:"endTime,omitempty"`
	TravelMinutes int       `json:"travelMinutes,omitempty"`
	Status        Status    `json:"status"`
	TotalPrice    float64   `json:"totalPrice,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Staff         []string  `json:"staff,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	// FinishedAt is set by the commit that enters finished and cleared when
	// an override reopens the booking.
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Start returns the effective start wall-clock string, preferring StartTime
// over the legacy Time field. Empty means the booking is unscheduled.
func (b Booking) Start() string {
	if v := strings.TrimSpace(b.StartTime); v != "" {
		return v
	}
	return strings.TrimSpace(b.Time)
}

// IsScheduled reports whether the booking carries any start time at all.
func (b Booking) IsScheduled() bool {
	return b.Start() != ""
}

// OccupiedInterval returns the booking's occupied span in minutes since
// midnight as a half-open interval [from, to).
func (b Booking) OccupiedInterval() (from, to int, err error) {
	start, err := ParseClock(b.Start())
	if err != nil {
		return 0, 0, err
	}
	end := start + DefaultSlotMinutes
	if raw := strings.TrimSpace(b.EndTime); raw != "" {
		end, err = ParseClock(raw)
		if err != nil {
			return 0, 0, err
		}
		if end <= start {
			return 0, 0, fmt.Errorf("%w: endTime %q not after start %q", ErrMalformedTime, raw, b.Start())
		}
	}
	travel := b.TravelMinutes
	if travel < 0 {
		travel = 0
	}
	return start - travel, end + travel, nil
}

// ParseClock parses a wall-clock "HH:MM" string into minutes since midnight.
func ParseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	h, m, ok := strings.Cut(raw, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 || !allDigits(h) || !allDigits(m) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	return hour*60 + minute, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CivilDate is a calendar day without a time zone.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// In returns midnight of the day in loc.
func (d CivilDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

var civilDateLayouts = []string{"2006-01-02", "02/01/2006", "02.01.2006"}

// ParseCivilDate reads the day/month/year of a persisted date. ISO timestamps
// are cut to their literal date part so no time-zone shift can move the day.
func ParseCivilDate(raw string) (CivilDate, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 10 && raw[4] == '-' && raw[7] == '-' && (raw[10] == 'T' || raw[10] == ' ') {
		raw = raw[:10]
	}
	for _, layout := range civilDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
		}
	}
	return CivilDate{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
}
