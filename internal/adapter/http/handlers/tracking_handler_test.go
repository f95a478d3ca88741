package handlers

import (
	"net/http"
	"testing"

	"valet_manager/internal/adapter/http/handlers/mocks"
	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestTrackingHandler_Track(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		view   usecase.TrackingView
		err    error
		status int
	}{
		{name: "live", view: usecase.TrackingView{BookingID: "b-1", Status: entities.StatusInProgress, ProgressPercentage: 40}, status: http.StatusOK},
		{name: "expired", err: usecase.ErrTrackingExpired, status: http.StatusGone},
		{name: "unknown", err: usecase.ErrBookingNotFound, status: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockITrackingUseCase(ctrl)
			uc.EXPECT().Track(gomock.Any(), "b-1").Return(tc.view, tc.err)

			r := gin.New()
			r.GET("/v1/tracking/:id", NewTrackingHandler(uc).Track)
			w := doJSON(r, http.MethodGet, "/v1/tracking/b-1", "")
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.err == nil && w.Header().Get("Cache-Control") != "no-store" {
				t.Fatalf("expected no-store cache header")
			}
		})
	}
}
