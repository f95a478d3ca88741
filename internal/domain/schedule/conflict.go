package schedule

import (
	"log"
	"strings"

	"valet_manager/internal/domain/entities"
)

// Candidate is a requested slot. DurationMinutes zero means a point check
// against the slot grid; a positive value checks the whole interval.
type Candidate struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	TravelMinutes   int    `json:"travelMinutes,omitempty"`
	// ExcludeID skips the booking being rescheduled or confirmed.
	ExcludeID string `json:"excludeId,omitempty"`
}

// ConflictResult holds the first blocking booking (nil when the slot is free)
// and every pending booking starting at exactly the candidate time.
type ConflictResult struct {
	Blocking *entities.Booking  `json:"blocking"`
	Advisory []entities.Booking `json:"advisory"`
}

// Available reports whether no schedulable booking blocks the candidate.
func (r ConflictResult) Available() bool {
	return r.Blocking == nil
}

// FindConflict checks a candidate slot against existing bookings.
//
// Only bookings on the same civil day are considered. Schedulable bookings
// block when the candidate falls inside their occupied interval; the first
// match in input order wins. Pending bookings never block and are reported as
// advisory when their start equals the candidate time. Unparsable times never
// block: they are logged and skipped.
func FindConflict(c Candidate, existing []entities.Booking) ConflictResult {
	res := ConflictResult{Advisory: []entities.Booking{}}

	day, err := entities.ParseCivilDate(c.Date)
	if err != nil {
		log.Printf("[conflict][warn] candidate date unparsable date=%q err=%v", c.Date, err)
		return res
	}
	at, err := entities.ParseClock(c.Time)
	if err != nil {
		log.Printf("[conflict][warn] candidate time unparsable time=%q err=%v", c.Time, err)
		return res
	}
	from, to := candidateSpan(at, c)

	for i := range existing {
		b := existing[i]
		if c.ExcludeID != "" && strings.TrimSpace(b.ID) == c.ExcludeID {
			continue
		}
		if !b.IsScheduled() {
			continue
		}
		bDay, err := entities.ParseCivilDate(b.Date)
		if err != nil {
			log.Printf("[conflict][warn] booking date unparsable booking_id=%s date=%q", b.ID, b.Date)
			continue
		}
		if bDay != day {
			continue
		}

		switch {
		case b.Status.IsSchedulable():
			if res.Blocking != nil {
				continue
			}
			occFrom, occTo, err := b.OccupiedInterval()
			if err != nil {
				log.Printf("[conflict][warn] booking time unparsable, treated as non-blocking booking_id=%s err=%v", b.ID, err)
				continue
			}
			if overlaps(from, to, occFrom, occTo) {
				blocking := b
				res.Blocking = &blocking
			}
		case b.Status == entities.StatusPending:
			start, err := entities.ParseClock(b.Start())
			if err != nil {
				log.Printf("[conflict][warn] pending booking time unparsable booking_id=%s err=%v", b.ID, err)
				continue
			}
			if start == at {
				res.Advisory = append(res.Advisory, b)
			}
		}
	}
	return res
}

// candidateSpan returns the half-open span occupied by the candidate. A point
// check is represented as [at, at+1).
func candidateSpan(at int, c Candidate) (int, int) {
	travel := c.TravelMinutes
	if travel < 0 {
		travel = 0
	}
	if c.DurationMinutes <= 0 {
		return at - travel, at + 1 + travel
	}
	return at - travel, at + c.DurationMinutes + travel
}

func overlaps(aFrom, aTo, bFrom, bTo int) bool {
	return aFrom < bTo && bFrom < aTo
}
