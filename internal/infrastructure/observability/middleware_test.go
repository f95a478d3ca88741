package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var seen string
	r := gin.New()
	r.Use(GinMiddleware("valet-test"))
	r.GET("/v1/bookings/:id", func(c *gin.Context) {
		seen = TraceID(c)
		c.Status(http.StatusOK)
	})
	r.GET("/v1/boom", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	for _, path := range []string{"/v1/bookings/b-1", "/v1/boom"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "GET /v1/bookings/:id" {
		t.Fatalf("unexpected span name %q", spans[0].Name())
	}
	if seen == "" || seen != spans[0].SpanContext().TraceID().String() {
		t.Fatalf("handler saw trace id %q", seen)
	}
	if spans[1].Status().Code != codes.Error {
		t.Fatalf("expected error status for 502, got %v", spans[1].Status())
	}
}

func TestTraceID_Untraced(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if id := TraceID(c); id != "" {
		t.Fatalf("expected empty trace id, got %q", id)
	}
}
