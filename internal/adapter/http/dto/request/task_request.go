package request

import (
	"strings"

	"valet_manager/internal/domain/entities"
)

type TaskRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name" binding:"required"`
	Completed     bool   `json:"completed"`
	AllocatedTime int    `json:"allocatedTime" binding:"gte=0"`
	ActualTime    int    `json:"actualTime" binding:"gte=0"`
}

// TasksRequest replaces the whole task list of a booking.
type TasksRequest struct {
	Tasks []TaskRequest `json:"tasks" binding:"required,dive"`
}

func (r TasksRequest) ToEntities() []entities.ServiceTask {
	out := make([]entities.ServiceTask, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		out = append(out, entities.ServiceTask{
			ID:            strings.TrimSpace(t.ID),
			Name:          strings.TrimSpace(t.Name),
			Completed:     t.Completed,
			AllocatedTime: t.AllocatedTime,
			ActualTime:    t.ActualTime,
		})
	}
	return out
}
