package entities

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	valid := map[string]int{"00:00": 0, "9:05": 545, "10:00": 600, "23:59": 1439}
	for raw, want := range valid {
		got, err := ParseClock(raw)
		if err != nil || got != want {
			t.Fatalf("ParseClock(%q) = %d, %v; want %d", raw, got, err, want)
		}
	}
	for _, raw := range []string{"", "24:00", "10:60", "10", "10:0", "ab:cd", "10:00:00", "+9:30", "-0:30", "09:+5", " 9:30:", "٩:30"} {
		if _, err := ParseClock(raw); !errors.Is(err, ErrMalformedTime) {
			t.Fatalf("ParseClock(%q) expected ErrMalformedTime, got %v", raw, err)
		}
	}
}

func TestBooking_OccupiedInterval(t *testing.T) {
	t.Run("legacy time alias with default end", func(t *testing.T) {
		from, to, err := Booking{Time: "10:00"}.OccupiedInterval()
		if err != nil || from != 600 || to != 720 {
			t.Fatalf("got [%d,%d) err=%v", from, to, err)
		}
	})

	t.Run("start time wins over legacy alias", func(t *testing.T) {
		from, _, err := Booking{Time: "08:00", StartTime: "09:00"}.OccupiedInterval()
		if err != nil || from != 540 {
			t.Fatalf("got from=%d err=%v", from, err)
		}
	})

	t.Run("travel buffer on both sides", func(t *testing.T) {
		from, to, err := Booking{StartTime: "10:00", EndTime: "12:00", TravelMinutes: 15}.OccupiedInterval()
		if err != nil || from != 585 || to != 735 {
			t.Fatalf("got [%d,%d) err=%v", from, to, err)
		}
	})

	t.Run("end before start is malformed", func(t *testing.T) {
		if _, _, err := (Booking{StartTime: "12:00", EndTime: "11:00"}).OccupiedInterval(); !errors.Is(err, ErrMalformedTime) {
			t.Fatalf("expected ErrMalformedTime, got %v", err)
		}
	})
}

func TestParseCivilDate(t *testing.T) {
	want := CivilDate{Year: 2026, Month: 10, Day: 19}
	for _, raw := range []string{"2026-10-19", "2026-10-19T00:00:00.000Z", "2026-10-19T23:00:00-03:00", "19/10/2026", "19.10.2026"} {
		got, err := ParseCivilDate(raw)
		if err != nil || got != want {
			t.Fatalf("ParseCivilDate(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := ParseCivilDate("tomorrow"); !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}
