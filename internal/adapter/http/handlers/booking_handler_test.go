package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"valet_manager/internal/adapter/http/handlers/mocks"
	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"
	"valet_manager/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newBookingRouter(t *testing.T) (*gin.Engine, *mocks.MockIBookingUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIBookingUseCase(ctrl)
	h := NewBookingHandler(uc)

	r := gin.New()
	r.POST("/v1/bookings", h.CreateBooking)
	r.GET("/v1/bookings", h.ListBookings)
	r.GET("/v1/bookings/:id", h.GetBooking)
	r.PATCH("/v1/bookings/:id", h.UpdateBooking)
	r.PATCH("/v1/bookings/:id/status", h.TransitionStatus)
	r.PATCH("/v1/bookings/:id/override", h.OverrideStatus)
	r.POST("/v1/availability", h.CheckAvailability)
	return r, uc
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body.Code
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		r, _ := newBookingRouter(t)
		w := doJSON(r, http.MethodPost, "/v1/bookings", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing date", func(t *testing.T) {
		r, _ := newBookingRouter(t)
		w := doJSON(r, http.MethodPost, "/v1/bookings", `{"startTime":"09:00"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("slot conflict", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		blocking := entities.Booking{ID: "b-0", Date: "2024-05-01", StartTime: "09:00", Status: entities.StatusConfirmed}
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(usecase.CreateResult{}, &usecase.SlotConflictError{Blocking: blocking})

		w := doJSON(r, http.MethodPost, "/v1/bookings", `{"date":"2024-05-01","startTime":"09:30"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if code := decodeError(t, w); code != "SLOT_UNAVAILABLE" {
			t.Fatalf("unexpected code %q", code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, b entities.Booking) (usecase.CreateResult, error) {
			if b.Status != entities.StatusPending || b.Date != "2024-05-01" {
				t.Fatalf("unexpected entity %+v", b)
			}
			b.ID = "b-1"
			return usecase.CreateResult{
				Outcome:  entities.SyncOutcome{State: entities.SyncStateSynced, Booking: b},
				Advisory: []entities.Booking{{ID: "b-2", Date: "2024-05-01", StartTime: "09:00"}},
			}, nil
		})

		w := doJSON(r, http.MethodPost, "/v1/bookings", `{"date":"2024-05-01","startTime":"09:00","customer":{"name":"Ann"}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var body struct {
			State    string                `json:"state"`
			Booking  struct{ ID string }   `json:"booking"`
			Advisory []struct{ ID string } `json:"advisory"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if body.State != "synced" || body.Booking.ID != "b-1" || len(body.Advisory) != 1 {
			t.Fatalf("unexpected body %+v", body)
		}
	})
}

func TestBookingHandler_ListAndGet(t *testing.T) {
	t.Run("list passes the date filter", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().List(gomock.Any(), "2024-05-01").Return([]entities.Booking{{ID: "b-1"}, {ID: "b-2"}}, nil)

		w := doJSON(r, http.MethodGet, "/v1/bookings?date=2024-05-01", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var list []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &list)
		if len(list) != 2 {
			t.Fatalf("expected 2 bookings, got %d", len(list))
		}
	})

	t.Run("list with bad date", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().List(gomock.Any(), "01/05/2024").Return(nil, usecase.ErrInvalidBookingDate)

		w := doJSON(r, http.MethodGet, "/v1/bookings?date=01/05/2024", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("get not found", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().Get(gomock.Any(), "ghost").Return(entities.Booking{}, usecase.ErrBookingNotFound)

		w := doJSON(r, http.MethodGet, "/v1/bookings/ghost", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("get success", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().Get(gomock.Any(), "b-1").Return(entities.Booking{ID: "b-1", Status: entities.StatusInProgress}, nil)

		w := doJSON(r, http.MethodGet, "/v1/bookings/b-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct{ Status string }
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Status != "in-progress" {
			t.Fatalf("unexpected status %q", body.Status)
		}
	})
}

func TestBookingHandler_UpdateBooking(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		r, _ := newBookingRouter(t)
		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if code := decodeError(t, w); code != "EMPTY_UPDATE" {
			t.Fatalf("unexpected code %q", code)
		}
	})

	t.Run("partial sync is still 200", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().Update(gomock.Any(), "b-1", gomock.Any()).DoAndReturn(func(_ any, _ string, ch usecase.BookingChanges) (entities.SyncOutcome, error) {
			if ch.Notes == nil || *ch.Notes != "gate code 42" {
				t.Fatalf("unexpected changes %+v", ch)
			}
			return entities.SyncOutcome{State: entities.SyncStatePartiallySynced, FailedStores: []string{"plannerCalendarBookings"}, Booking: entities.Booking{ID: "b-1"}}, nil
		})

		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1", `{"notes":"gate code 42"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			State        string   `json:"state"`
			FailedStores []string `json:"failedStores"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.State != "partially_synced" || len(body.FailedStores) != 1 {
			t.Fatalf("unexpected body %+v", body)
		}
	})
}

func TestBookingHandler_TransitionStatus(t *testing.T) {
	t.Run("unknown status", func(t *testing.T) {
		r, _ := newBookingRouter(t)
		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1/status", `{"status":"washing"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("accepts spelling variants", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().Transition(gomock.Any(), "b-1", entities.StatusInProgress).Return(entities.SyncOutcome{State: entities.SyncStateSynced}, nil)

		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1/status", `{"status":"In_Progress"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("rejected transition", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		err := fmt.Errorf("%w: finished -> confirmed", entities.ErrTransitionRejected)
		uc.EXPECT().Transition(gomock.Any(), "b-1", entities.StatusConfirmed).Return(entities.SyncOutcome{}, err)

		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1/status", `{"status":"confirmed"}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})
}

func TestBookingHandler_OverrideStatus(t *testing.T) {
	t.Run("reason required", func(t *testing.T) {
		r, _ := newBookingRouter(t)
		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1/override", `{"status":"confirmed"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, uc := newBookingRouter(t)
		uc.EXPECT().Override(gomock.Any(), "b-1", entities.StatusConfirmed, "ops", "customer came back").
			Return(entities.SyncOutcome{State: entities.SyncStateSynced, Booking: entities.Booking{ID: "b-1", Status: entities.StatusConfirmed}}, nil)

		w := doJSON(r, http.MethodPatch, "/v1/bookings/b-1/override", `{"status":"confirmed","actor":"ops","reason":"customer came back"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestBookingHandler_CheckAvailability(t *testing.T) {
	r, uc := newBookingRouter(t)
	blocking := entities.Booking{ID: "b-0", Date: "2024-05-01", StartTime: "09:00", Status: entities.StatusConfirmed}
	uc.EXPECT().CheckAvailability(gomock.Any(), schedule.Candidate{Date: "2024-05-01", Time: "10:00", TravelMinutes: 15}).
		Return(schedule.ConflictResult{Blocking: &blocking}, nil)

	w := doJSON(r, http.MethodPost, "/v1/availability", `{"date":"2024-05-01","time":"10:00","travelMinutes":15}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Available bool `json:"available"`
		Blocking  *struct {
			ID string `json:"id"`
		} `json:"blocking"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Available || body.Blocking == nil || body.Blocking.ID != "b-0" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestMapBookingError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid id", usecase.ErrInvalidBookingID, http.StatusBadRequest, "INVALID_REQUEST"},
		{"invalid time", usecase.ErrInvalidBookingTime, http.StatusBadRequest, "INVALID_REQUEST"},
		{"terminal create", usecase.ErrInvalidBookingStatus, http.StatusBadRequest, "INVALID_REQUEST"},
		{"invalid task", usecase.ErrInvalidTask, http.StatusBadRequest, "INVALID_REQUEST"},
		{"override reason", usecase.ErrOverrideReason, http.StatusBadRequest, "OVERRIDE_REASON_REQUIRED"},
		{"not found", usecase.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"duplicate", usecase.ErrBookingAlreadyExists, http.StatusConflict, "BOOKING_ALREADY_EXISTS"},
		{"slot", &usecase.SlotConflictError{}, http.StatusConflict, "SLOT_UNAVAILABLE"},
		{"transition", entities.ErrTransitionRejected, http.StatusUnprocessableEntity, "TRANSITION_REJECTED"},
		{"expired", usecase.ErrTrackingExpired, http.StatusGone, "TRACKING_EXPIRED"},
		{"store down", fmt.Errorf("%w: confirmedBookings: timeout", usecase.ErrCommitFailed), http.StatusBadGateway, "STORE_UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := mapBookingError(tc.err)
			if appErr.HTTPStatus != tc.status || appErr.Code != tc.code {
				t.Fatalf("expected %d/%s, got %d/%s", tc.status, tc.code, appErr.HTTPStatus, appErr.Code)
			}
		})
	}
}
