package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "valet_manager/docs"
	"valet_manager/internal/adapter/http/routes"
	"valet_manager/internal/infrastructure/config"
	"valet_manager/internal/infrastructure/observability"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Valet Manager API
// @version         1.0
// @description     Mobile valeting bookings, staff progress and customer tracking.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.InitTracer(ctx, routes.ServiceName, cfg.OTLPEndpoint, cfg.ServiceEnv)
	if err != nil {
		log.Fatalf("tracer: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("[otel][warn] shutdown: %v", err)
		}
	}()

	if err := routes.Run(ctx, cfg); err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}
}
