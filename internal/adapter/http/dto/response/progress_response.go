package response

import (
	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase"
)

type ProgressResponse struct {
	BookingID string                  `json:"bookingId"`
	Tasks     []entities.ServiceTask  `json:"tasks"`
	Progress  entities.ProgressRecord `json:"progress"`
}

func FromProgressView(v usecase.ProgressView) ProgressResponse {
	tasks := v.Tasks
	if tasks == nil {
		tasks = []entities.ServiceTask{}
	}
	return ProgressResponse{BookingID: v.BookingID, Tasks: tasks, Progress: v.Progress}
}

type TaskCommitResponse struct {
	Progress       entities.ProgressRecord `json:"progress"`
	Booking        BookingResponse         `json:"booking"`
	TrackingSynced bool                    `json:"trackingSynced"`
	AutoFinished   bool                    `json:"autoFinished"`
	FinishBlocked  string                  `json:"finishBlocked,omitempty"`
	Finish         *SyncResponse           `json:"finish,omitempty"`
}

func FromTaskCommit(r usecase.TaskCommitResult) TaskCommitResponse {
	out := TaskCommitResponse{
		Progress:       r.Progress,
		Booking:        FromBooking(r.Booking),
		TrackingSynced: r.TrackingSynced,
		AutoFinished:   r.AutoFinished,
		FinishBlocked:  r.FinishBlocked,
	}
	if r.FinishOutcome != nil {
		f := FromOutcome(*r.FinishOutcome)
		out.Finish = &f
	}
	return out
}
