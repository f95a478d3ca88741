package schedule

import (
	"fmt"
	"math"
	"time"

	"valet_manager/internal/domain/entities"
)

const (
	StepNotStarted = "Not started"
	StepComplete   = "Complete"
)

// ComputeProgress derives a ProgressRecord from a task list.
//
// The percentage is weighted by AllocatedTime, not by task count. Tasks with
// a non-positive AllocatedTime carry no weight. An empty or zero-weight list
// yields 0. Rounding never reports 100 while a weighted task is still open.
func ComputeProgress(bookingID string, tasks []entities.ServiceTask, now time.Time) entities.ProgressRecord {
	var total, done, completed, openWeighted int
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
		if t.AllocatedTime <= 0 {
			continue
		}
		total += t.AllocatedTime
		if t.Completed {
			done += t.AllocatedTime
		} else {
			openWeighted++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(done) / float64(total)))
		if pct >= 100 && openWeighted > 0 {
			pct = 99
		}
	}

	return entities.ProgressRecord{
		BookingID:          bookingID,
		ProgressPercentage: pct,
		CurrentStepLabel:   stepLabel(pct, completed, len(tasks)),
		CompletedTasks:     completed,
		TotalTasks:         len(tasks),
		LastUpdated:        now,
	}
}

func stepLabel(pct, completed, total int) string {
	switch pct {
	case 0:
		return StepNotStarted
	case 100:
		return StepComplete
	default:
		return fmt.Sprintf("In progress (%d/%d tasks)", completed, total)
	}
}
