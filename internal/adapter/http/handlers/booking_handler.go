package handlers

//go:generate mockgen -source=../../../usecase/booking_usecase.go -destination=mocks/booking_usecase.go -package=mocks

import (
	"net/http"

	request "valet_manager/internal/adapter/http/dto/request"
	response "valet_manager/internal/adapter/http/dto/response"
	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves booking intake, status changes, edits and the
// unified schedule.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var payload request.CreateBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.Create(c.Request.Context(), payload.ToEntity())
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusCreated, response.FromCreateResult(res))
}

// ListBookings returns the unified list, optionally for one day (?date=).
func (h *BookingHandler) ListBookings(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBookings(list))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var payload request.UpdateBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}
	if payload.IsEmpty() {
		c.JSON(errEmptyUpdate.HTTPStatus, errEmptyUpdate.ToHTTPError())
		return
	}

	out, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToChanges())
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromOutcome(out))
}

func (h *BookingHandler) TransitionStatus(c *gin.Context) {
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}
	target, ok := entities.ParseStatus(payload.Status)
	if !ok {
		c.JSON(errInvalidStatus.HTTPStatus, errInvalidStatus.ToHTTPError())
		return
	}

	out, err := h.usecase.Transition(c.Request.Context(), c.Param("id"), target)
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromOutcome(out))
}

func (h *BookingHandler) OverrideStatus(c *gin.Context) {
	var payload request.OverrideRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}
	target, ok := entities.ParseStatus(payload.Status)
	if !ok {
		c.JSON(errInvalidStatus.HTTPStatus, errInvalidStatus.ToHTTPError())
		return
	}

	out, err := h.usecase.Override(c.Request.Context(), c.Param("id"), target, payload.Actor, payload.Reason)
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromOutcome(out))
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var payload request.AvailabilityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.CheckAvailability(c.Request.Context(), payload.ToCandidate())
	if err != nil {
		abortWith(c, "booking", err)
		return
	}
	c.JSON(http.StatusOK, response.FromConflict(res))
}
