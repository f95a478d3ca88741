package handlers

import (
	"errors"
	"log"
	"net/http"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/infrastructure/observability"
	"valet_manager/internal/usecase"
	"valet_manager/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidBookingPayload = pkg.NewDomainErrorSimple("INVALID_BOOKING_INPUT", "Invalid booking payload", http.StatusBadRequest)
	errInvalidStatus         = pkg.NewDomainErrorSimple("INVALID_STATUS", "Unknown booking status", http.StatusBadRequest)
	errEmptyUpdate           = pkg.NewDomainErrorSimple("EMPTY_UPDATE", "No fields to update", http.StatusBadRequest)
)

func mapBookingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidBookingID),
		errors.Is(err, usecase.ErrInvalidBookingDate),
		errors.Is(err, usecase.ErrInvalidBookingTime),
		errors.Is(err, usecase.ErrInvalidBookingStatus),
		errors.Is(err, usecase.ErrInvalidTask):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOverrideReason):
		return pkg.NewDomainErrorSimple("OVERRIDE_REASON_REQUIRED", "Override requires a reason", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBookingAlreadyExists):
		return pkg.NewDomainErrorSimple("BOOKING_ALREADY_EXISTS", "Booking already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrSlotUnavailable):
		return pkg.NewDomainError("SLOT_UNAVAILABLE", "Requested slot overlaps a scheduled booking", err, http.StatusConflict)
	case errors.Is(err, entities.ErrTransitionRejected):
		return pkg.NewDomainError("TRANSITION_REJECTED", "Status transition not allowed", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrTrackingExpired):
		return pkg.NewDomainErrorSimple("TRACKING_EXPIRED", "Tracking has expired, please re-enter your booking reference", http.StatusGone)
	case errors.Is(err, usecase.ErrCommitFailed):
		return pkg.NewDomainError("STORE_UNAVAILABLE", "Booking store unavailable, nothing was saved", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func abortWith(c *gin.Context, area string, err error) {
	appErr := mapBookingError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[%s][handler] request failed path=%s trace_id=%s err=%v", area, c.FullPath(), observability.TraceID(c), err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
