package handlers

//go:generate mockgen -source=../../../usecase/progress_usecase.go -destination=mocks/progress_usecase.go -package=mocks

import (
	"net/http"

	request "valet_manager/internal/adapter/http/dto/request"
	response "valet_manager/internal/adapter/http/dto/response"
	"valet_manager/internal/usecase"
	"valet_manager/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidTasksPayload = pkg.NewDomainErrorSimple("INVALID_TASKS_INPUT", "Invalid task list payload", http.StatusBadRequest)

type ProgressHandler struct {
	usecase usecase.IProgressUseCase
}

func NewProgressHandler(uc usecase.IProgressUseCase) *ProgressHandler {
	return &ProgressHandler{usecase: uc}
}

// CommitTasks replaces the task list. Reaching 100% finishes the booking.
func (h *ProgressHandler) CommitTasks(c *gin.Context) {
	var payload request.TasksRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidTasksPayload.HTTPStatus, errInvalidTasksPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.CommitTasks(c.Request.Context(), c.Param("id"), payload.ToEntities())
	if err != nil {
		abortWith(c, "progress", err)
		return
	}
	c.JSON(http.StatusOK, response.FromTaskCommit(res))
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	v, err := h.usecase.GetProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, "progress", err)
		return
	}
	c.JSON(http.StatusOK, response.FromProgressView(v))
}

func (h *ProgressHandler) GetConsistency(c *gin.Context) {
	rep, err := h.usecase.CheckConsistency(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, "consistency", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
