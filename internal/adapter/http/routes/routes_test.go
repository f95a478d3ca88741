package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"valet_manager/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func localConfig(t *testing.T) config.App {
	t.Helper()
	return config.App{
		Port:             "0",
		StoreBackend:     config.BackendLocal,
		LocalStoreDir:    t.TempDir(),
		PollInterval:     time.Hour,
		BusinessDayEnd:   "18:00",
		BusinessTimeZone: "UTC",
	}
}

func TestGetRoutes_LocalBackend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	cleanup, err := getRoutes(ctx, router, localConfig(t))
	defer cleanup()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := send(http.MethodGet, "/v1/ping/", ""); w.Code != http.StatusOK {
		t.Fatalf("ping: expected 200, got %d", w.Code)
	}

	w := send(http.MethodPost, "/v1/bookings", `{"id":"b-1","date":"2030-05-01","startTime":"09:00","status":"confirmed"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = send(http.MethodPost, "/v1/bookings", `{"id":"b-2","date":"2030-05-01","startTime":"10:00","status":"confirmed"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("overlapping create: expected 409, got %d", w.Code)
	}

	w = send(http.MethodPatch, "/v1/bookings/b-1/status", `{"status":"inspecting"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("transition: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = send(http.MethodGet, "/v1/bookings?date=2030-05-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "b-1" || list[0].Status != "inspecting" {
		t.Fatalf("unexpected list %+v", list)
	}

	w = send(http.MethodGet, "/v1/bookings/b-1/consistency", "")
	var rep struct {
		Consistent bool     `json:"consistent"`
		Issues     []string `json:"issues"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &rep)
	if !rep.Consistent {
		t.Fatalf("expected consistent stores, got %v", rep.Issues)
	}
}

func TestGetRoutes_RejectsUnknownZone(t *testing.T) {
	cfg := localConfig(t)
	cfg.BusinessTimeZone = "Mars/Olympus"
	cleanup, err := getRoutes(context.Background(), gin.New(), cfg)
	defer cleanup()
	if err == nil {
		t.Fatalf("expected error for unknown time zone")
	}
}
