package routes

import (
	"valet_manager/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathBookings     = "/bookings"
	PathAvailability = "/availability"
	PathTracking     = "/tracking"
)

func addBookingRoutes(rg *gin.RouterGroup, bookingHandler *handlers.BookingHandler, progressHandler *handlers.ProgressHandler, eventsHandler *handlers.EventsHandler) {
	bookings := rg.Group(PathBookings)
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("", bookingHandler.ListBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PATCH("/:id", bookingHandler.UpdateBooking)
		bookings.PATCH("/:id/status", bookingHandler.TransitionStatus)
		bookings.PATCH("/:id/override", bookingHandler.OverrideStatus)

		// Staff task list and diagnostics.
		bookings.PUT("/:id/tasks", progressHandler.CommitTasks)
		bookings.GET("/:id/progress", progressHandler.GetProgress)
		bookings.GET("/:id/consistency", progressHandler.GetConsistency)

		bookings.GET("/:id/events", eventsHandler.Stream)
	}

	rg.POST(PathAvailability, bookingHandler.CheckAvailability)
}

func addTrackingRoutes(rg *gin.RouterGroup, trackingHandler *handlers.TrackingHandler) {
	rg.GET(PathTracking+"/:id", trackingHandler.Track)
}
