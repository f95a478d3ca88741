package entities

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Status is the booking lifecycle stage.
//
// Domain notes:
//   - The set is closed. Raw strings enter only through ParseStatus/NormalizeStatus.
//   - The zero value is StatusPending, the safe default for malformed persisted data.
//   - Forward order follows the declaration order up to StatusFinished.
type Status uint8

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusInspecting
	StatusInspected
	StatusInProgress
	StatusFinished
	StatusCancelled
)

var statusNames = [...]string{
	StatusPending:    "pending",
	StatusConfirmed:  "confirmed",
	StatusInspecting: "inspecting",
	StatusInspected:  "inspected",
	StatusInProgress: "in-progress",
	StatusFinished:   "finished",
	StatusCancelled:  "cancelled",
}

var ErrTransitionRejected = errors.New("status transition rejected")

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// IsValid reports whether s is one of the declared statuses.
func (s Status) IsValid() bool {
	return int(s) < len(statusNames)
}

// IsTerminal returns true for statuses that accept no further normal transition.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// IsSchedulable reports whether a booking in this status occupies a calendar
// slot and participates in blocking conflict detection.
func (s Status) IsSchedulable() bool {
	switch s {
	case StatusConfirmed, StatusInspecting, StatusInspected, StatusInProgress, StatusFinished:
		return true
	default:
		return false
	}
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusInspecting,
		StatusInspected,
		StatusInProgress,
		StatusFinished,
		StatusCancelled,
	}
}

// ParseStatus maps a raw status string to a Status. The boolean is false when
// the input is not recognized; the returned Status is then StatusPending.
func ParseStatus(raw string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "_", "-")
	key = strings.ReplaceAll(key, " ", "-")
	if key == "inprogress" {
		key = "in-progress"
	}
	if key == "canceled" {
		key = "cancelled"
	}
	for i, name := range statusNames {
		if name == key {
			return Status(i), true
		}
	}
	return StatusPending, false
}

// NormalizeStatus is the total form of ParseStatus. Unknown input is coerced
// to StatusPending and reported at warning level.
func NormalizeStatus(raw string) Status {
	s, ok := ParseStatus(raw)
	if !ok {
		log.Printf("[status][warn] unknown status normalized raw=%q to=%s", raw, StatusPending)
	}
	return s
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText never fails: the system boundary coerces unknown values.
func (s *Status) UnmarshalText(text []byte) error {
	*s = NormalizeStatus(string(text))
	return nil
}

// StatusMachine validates booking status changes.
//
// Normal transitions only move forward along
// pending → confirmed → inspecting → inspected → in-progress → finished,
// possibly skipping intermediate stages. Any non-terminal status may move to
// cancelled. Moving backward, or out of a terminal status, requires Override.
type StatusMachine struct{}

func NewStatusMachine() *StatusMachine {
	return &StatusMachine{}
}

// Transition returns the status the booking should hold after moving from
// current to target, or an error wrapping ErrTransitionRejected.
// Re-applying the current status is accepted as a no-op.
func (m *StatusMachine) Transition(current, target Status) (Status, error) {
	if !current.IsValid() || !target.IsValid() {
		return current, fmt.Errorf("%w: invalid status %s -> %s", ErrTransitionRejected, current, target)
	}
	if current == target {
		return current, nil
	}
	if current.IsTerminal() {
		return current, fmt.Errorf("%w: %s is terminal", ErrTransitionRejected, current)
	}
	if target == StatusCancelled {
		return target, nil
	}
	if target < current {
		return current, fmt.Errorf("%w: %s -> %s moves backward", ErrTransitionRejected, current, target)
	}
	return target, nil
}

// Override applies an administrative status change that bypasses the forward
// rule. It is logged separately from normal transitions.
func (m *StatusMachine) Override(bookingID string, current, target Status, actor, reason string) (Status, error) {
	if !target.IsValid() {
		return current, fmt.Errorf("%w: invalid override target %s", ErrTransitionRejected, target)
	}
	if strings.TrimSpace(reason) == "" {
		return current, fmt.Errorf("%w: override requires a reason", ErrTransitionRejected)
	}
	log.Printf("[status][override] booking_id=%s from=%s to=%s actor=%q reason=%q", bookingID, current, target, actor, reason)
	return target, nil
}
