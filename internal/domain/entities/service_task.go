package entities

import "time"

// ServiceTask is one step of a valet job. AllocatedTime (minutes) is the
// task's weight for progress purposes; ActualTime is informational only.
type ServiceTask struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Completed     bool   `json:"completed"`
	AllocatedTime int    `json:"allocatedTime"`
	ActualTime    int    `json:"actualTime,omitempty"`
}

// ProgressRecord is derived from a task list and never edited by hand.
type ProgressRecord struct {
	BookingID          string    `json:"bookingId"`
	ProgressPercentage int       `json:"progressPercentage"`
	CurrentStepLabel   string    `json:"currentStepLabel"`
	CompletedTasks     int       `json:"completedTasks"`
	TotalTasks         int       `json:"totalTasks"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// IsComplete reports whether the record represents a finished job.
func (p ProgressRecord) IsComplete() bool {
	return p.ProgressPercentage == 100
}

// ServiceProgress is the persisted task list of one booking (serviceProgress
// store). The list is replaced wholesale on every edit.
type ServiceProgress struct {
	BookingID          string        `json:"bookingId"`
	Tasks              []ServiceTask `json:"tasks"`
	ProgressPercentage int           `json:"progressPercentage"`
	LastUpdated        time.Time     `json:"lastUpdated"`
}

// TrackingRecord is the customer-facing cache derived from ServiceProgress
// (trackingProgress store).
type TrackingRecord struct {
	BookingID          string    `json:"bookingId"`
	ProgressPercentage int       `json:"progressPercentage"`
	CurrentStep        string    `json:"currentStep"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// TrackingFromProgress projects a progress record into its cached form.
func TrackingFromProgress(p ProgressRecord) TrackingRecord {
	return TrackingRecord{
		BookingID:          p.BookingID,
		ProgressPercentage: p.ProgressPercentage,
		CurrentStep:        p.CurrentStepLabel,
		LastUpdated:        p.LastUpdated,
	}
}
