package routes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	_ "valet_manager/docs" // swag init output
	"valet_manager/internal/adapter/events"
	"valet_manager/internal/adapter/http/handlers"
	"valet_manager/internal/adapter/persistence/repository"
	"valet_manager/internal/domain/entities"
	"valet_manager/internal/infrastructure/config"
	"valet_manager/internal/infrastructure/database"
	"valet_manager/internal/infrastructure/localstore"
	"valet_manager/internal/infrastructure/messaging"
	"valet_manager/internal/infrastructure/observability"
	"valet_manager/internal/usecase"
	"valet_manager/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	ServiceName     = "valet-manager"
	shutdownTimeout = 10 * time.Second
	busBuffer       = 64
)

// Run starts the HTTP server and the background sync workers and blocks
// until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg config.App) error {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cleanup, err := getRoutes(ctx, router, cfg)
	defer cleanup()
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[http] listening addr=%s backend=%s", srv.Addr, cfg.StoreBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to startup the application: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("[http] stopped")
	return nil
}

func getRoutes(ctx context.Context, router *gin.Engine, cfg config.App) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	stores, closeStores, err := buildStores(ctx, cfg)
	if err != nil {
		return cleanup, err
	}
	closers = append(closers, closeStores)
	loc, err := cfg.Location()
	if err != nil {
		return cleanup, fmt.Errorf("BUSINESS_TZ: %w", err)
	}

	clk := clockwork.NewRealClock()
	machine := entities.NewStatusMachine()
	bus := events.NewBus(busBuffer)

	instanceID := strings.TrimSpace(cfg.InstanceID)
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	publishers := events.Fanout{bus}
	if cfg.RabbitURL != "" {
		pub, err := messaging.NewPublisher(cfg.RabbitURL, cfg.BookingExchange, instanceID)
		if err != nil {
			return cleanup, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		closers = append(closers, func() { _ = pub.Close() })
		publishers = append(publishers, pub)

		cons, err := messaging.NewConsumer(cfg.RabbitURL, cfg.BookingExchange, cfg.RabbitQueue, instanceID, messaging.DefaultBindings)
		if err != nil {
			return cleanup, fmt.Errorf("rabbitmq consumer: %w", err)
		}
		closers = append(closers, func() { _ = cons.Close() })
		go func() {
			if err := cons.Forward(ctx, bus); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[amqp][warn] consumer stopped err=%v", err)
			}
		}()
	} else {
		log.Printf("[amqp] RABBIT_URL not set, change events stay in-process")
	}

	coordinator := usecase.NewSyncCoordinator(stores, machine, publishers, clk, cfg.CommitDebounce)
	closers = append(closers, func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		coordinator.Flush(flushCtx)
	})
	validator := usecase.NewConsistencyValidator(stores, clk)
	reconciler := usecase.NewReconciler(coordinator, validator, publishers, bus, clk, cfg.PollInterval, cfg.ReconcileMinSpacing)
	go func() {
		_ = reconciler.Run(ctx)
	}()

	bookingUseCase := usecase.NewBookingUseCase(coordinator, machine, reconciler)
	progressUseCase := usecase.NewProgressUseCase(coordinator, validator, clk)
	trackingUseCase, err := usecase.NewTrackingUseCase(coordinator, reconciler, clk, cfg.BusinessDayEnd, loc)
	if err != nil {
		return cleanup, err
	}

	bookingHandler := handlers.NewBookingHandler(bookingUseCase)
	progressHandler := handlers.NewProgressHandler(progressUseCase)
	trackingHandler := handlers.NewTrackingHandler(trackingUseCase)
	eventsHandler := handlers.NewEventsHandler(bus, 0)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBookingRoutes(v1, bookingHandler, progressHandler, eventsHandler)
	addTrackingRoutes(v1, trackingHandler)
	return cleanup, nil
}

// buildStores wires the five named stores. The authoritative booking list and
// serviceProgress live in DynamoDB unless STORE_BACKEND=local; the pending
// list, calendar mirror and tracking cache are always local documents. The
// returned func closes the local database.
func buildStores(ctx context.Context, cfg config.App) (usecase.SyncStores, func(), error) {
	fs, err := localstore.Open(cfg.LocalStoreDir)
	if err != nil {
		return usecase.SyncStores{}, nil, fmt.Errorf("local store: %w", err)
	}
	closeLocal := func() {
		if err := fs.Close(); err != nil {
			log.Printf("[store][local][warn] close failed err=%v", err)
		}
	}

	stores := usecase.SyncStores{
		Pending:        repository.NewBookingCollectionRepository(fs, repository.KeyPendingBookings),
		CalendarMirror: repository.NewBookingCollectionRepository(fs, repository.KeyPlannerCalendarBookings),
		Tracking:       repository.NewTrackingCollectionRepository(fs),
	}

	var authoritative interfaces.IBookingStore
	var progress interfaces.IServiceProgressStore
	switch strings.ToLower(cfg.StoreBackend) {
	case config.BackendLocal:
		authoritative = repository.NewBookingCollectionRepository(fs, repository.KeyConfirmedBookings)
		progress = repository.NewServiceProgressCollectionRepository(fs)
	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			closeLocal()
			return usecase.SyncStores{}, nil, fmt.Errorf("dynamodb: %w", err)
		}
		authoritative = repository.NewBookingDynamoRepository(ddb, cfg.ConfirmedBookingsTable)
		progress = repository.NewServiceProgressDynamoRepository(ddb, cfg.ServiceProgressTable)
	}
	stores.Authoritative = authoritative
	stores.ServiceProgress = progress
	log.Printf("[store] backend=%s local_dir=%s", cfg.StoreBackend, cfg.LocalStoreDir)
	return stores, closeLocal, nil
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(observability.GinMiddleware(ServiceName))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
