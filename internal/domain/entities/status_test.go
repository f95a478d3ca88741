package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestStatusMachine_Transition(t *testing.T) {
	m := NewStatusMachine()

	cases := []struct {
		name    string
		from    Status
		to      Status
		want    Status
		wantErr bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, StatusConfirmed, false},
		{"confirmed to inspecting", StatusConfirmed, StatusInspecting, StatusInspecting, false},
		{"inspected to in-progress", StatusInspected, StatusInProgress, StatusInProgress, false},
		{"in-progress to finished", StatusInProgress, StatusFinished, StatusFinished, false},
		{"forward skip", StatusConfirmed, StatusInProgress, StatusInProgress, false},
		{"same status is no-op", StatusInspecting, StatusInspecting, StatusInspecting, false},
		{"cancel from pending", StatusPending, StatusCancelled, StatusCancelled, false},
		{"cancel from in-progress", StatusInProgress, StatusCancelled, StatusCancelled, false},
		{"backward rejected", StatusInspected, StatusConfirmed, StatusInspected, true},
		{"back to pending rejected", StatusConfirmed, StatusPending, StatusConfirmed, true},
		{"finished is terminal", StatusFinished, StatusCancelled, StatusFinished, true},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, StatusCancelled, true},
		{"invalid target", StatusPending, Status(42), StatusPending, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := m.Transition(tc.from, tc.to)
			if tc.wantErr {
				if !errors.Is(err, ErrTransitionRejected) {
					t.Fatalf("expected ErrTransitionRejected, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestStatusMachine_Override(t *testing.T) {
	m := NewStatusMachine()
	buf := captureLog(t)

	got, err := m.Override("bk-1", StatusFinished, StatusInProgress, "admin", "customer asked for a re-polish")
	if err != nil || got != StatusInProgress {
		t.Fatalf("expected override to in-progress, got %s err=%v", got, err)
	}
	if !strings.Contains(buf.String(), "[status][override] booking_id=bk-1 from=finished to=in-progress") {
		t.Fatalf("override not logged: %q", buf.String())
	}

	if _, err := m.Override("bk-1", StatusFinished, StatusPending, "admin", "  "); !errors.Is(err, ErrTransitionRejected) {
		t.Fatalf("expected rejection without reason, got %v", err)
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"pending":     StatusPending,
		" Confirmed ": StatusConfirmed,
		"in_progress": StatusInProgress,
		"In Progress": StatusInProgress,
		"inprogress":  StatusInProgress,
		"canceled":    StatusCancelled,
		"FINISHED":    StatusFinished,
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw); got != want {
			t.Fatalf("NormalizeStatus(%q) = %s, want %s", raw, got, want)
		}
	}

	buf := captureLog(t)
	if got := NormalizeStatus("archived"); got != StatusPending {
		t.Fatalf("expected pending for unknown, got %s", got)
	}
	if !strings.Contains(buf.String(), "[status][warn]") || !strings.Contains(buf.String(), `"archived"`) {
		t.Fatalf("normalization must be logged at warning level, got %q", buf.String())
	}
}

func TestStatus_JSONBoundary(t *testing.T) {
	buf := captureLog(t)

	var b Booking
	if err := json.Unmarshal([]byte(`{"id":"bk-1","status":"teleported"}`), &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if !strings.Contains(buf.String(), "[status][warn]") {
		t.Fatalf("expected warning log")
	}

	out, err := json.Marshal(Booking{ID: "bk-2", Status: StatusInProgress})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `"status":"in-progress"`) {
		t.Fatalf("unexpected json: %s", out)
	}
}

func TestStatus_IsSchedulable(t *testing.T) {
	for _, s := range AllStatuses() {
		want := s != StatusPending && s != StatusCancelled
		if got := s.IsSchedulable(); got != want {
			t.Fatalf("%s: expected schedulable=%v", s, want)
		}
	}
}
