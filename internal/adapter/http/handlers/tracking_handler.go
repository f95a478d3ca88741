package handlers

//go:generate mockgen -source=../../../usecase/tracking_usecase.go -destination=mocks/tracking_usecase.go -package=mocks

import (
	"net/http"

	"valet_manager/internal/usecase"

	"github.com/gin-gonic/gin"
)

// TrackingHandler serves the customer-facing tracking page.
type TrackingHandler struct {
	usecase usecase.ITrackingUseCase
}

func NewTrackingHandler(uc usecase.ITrackingUseCase) *TrackingHandler {
	return &TrackingHandler{usecase: uc}
}

func (h *TrackingHandler) Track(c *gin.Context) {
	view, err := h.usecase.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, "tracking", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, view)
}
