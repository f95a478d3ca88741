package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendLocal    = "local"
)

type App struct {
	// HTTP
	Port string `envconfig:"PORT" default:"8080"`
	// Stores
	StoreBackend           string `envconfig:"STORE_BACKEND" default:"dynamodb"`
	AWSRegion              string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKeyID         string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
	AWSSecretAccessKey     string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	DynamoDBEndpoint       string `envconfig:"DYNAMODB_ENDPOINT"`
	ConfirmedBookingsTable string `envconfig:"CONFIRMED_BOOKINGS_TABLE" default:"confirmed_bookings"`
	ServiceProgressTable   string `envconfig:"SERVICE_PROGRESS_TABLE" default:"service_progress"`
	LocalStoreDir          string `envconfig:"LOCAL_STORE_DIR" default:"./data"`
	// Sync
	CommitDebounce      time.Duration `envconfig:"COMMIT_DEBOUNCE" default:"1s"`
	PollInterval        time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	ReconcileMinSpacing time.Duration `envconfig:"RECONCILE_MIN_SPACING" default:"1s"`
	BusinessDayEnd      string        `envconfig:"BUSINESS_DAY_END" default:"23:59"`
	BusinessTimeZone    string        `envconfig:"BUSINESS_TZ" default:"Local"`
	// Messaging
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`
	RabbitQueue     string `envconfig:"RABBIT_QUEUE"`
	InstanceID      string `envconfig:"INSTANCE_ID"`
	// Observability
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceEnv   string `envconfig:"SERVICE_ENV" default:"dev"`
}

func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c App) Validate() error {
	switch strings.ToLower(c.StoreBackend) {
	case BackendDynamoDB, BackendLocal:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendDynamoDB, BackendLocal, c.StoreBackend)
	}
	if c.CommitDebounce < 0 {
		return fmt.Errorf("COMMIT_DEBOUNCE must not be negative")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	return nil
}

// Location resolves BUSINESS_TZ.
func (c App) Location() (*time.Location, error) {
	return time.LoadLocation(c.BusinessTimeZone)
}
