package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/domain/schedule"

	"github.com/jinzhu/now"
	"github.com/jonboulle/clockwork"
)

var (
	ErrTrackingExpired = errors.New("tracking expired")
)

// TrackingView is what a customer sees on the tracking page.
type TrackingView struct {
	BookingID          string           `json:"bookingId"`
	Status             entities.Status  `json:"status"`
	Date               string           `json:"date"`
	StartTime          string           `json:"startTime,omitempty"`
	PackageType        string           `json:"packageType,omitempty"`
	Vehicle            entities.Vehicle `json:"vehicle"`
	ProgressPercentage int              `json:"progressPercentage"`
	CurrentStep        string           `json:"currentStep"`
	LastUpdated        time.Time        `json:"lastUpdated"`
	ExpiresAt          *time.Time       `json:"expiresAt,omitempty"`
}

type ITrackingUseCase interface {
	Track(ctx context.Context, bookingID string) (TrackingView, error)
}

// TrackingUseCase serves customer tracking from the trackingProgress cache,
// rebuilding it from serviceProgress when it is missing. Tracking of a
// finished booking closes at the end of the business day it finished on.
type TrackingUseCase struct {
	coordinator *SyncCoordinator
	watcher     Watcher
	clock       clockwork.Clock
	dayEnd      time.Duration
	loc         *time.Location
}

var _ ITrackingUseCase = (*TrackingUseCase)(nil)

// NewTrackingUseCase parses businessDayEnd as "HH:MM"; empty means midnight.
func NewTrackingUseCase(coordinator *SyncCoordinator, watcher Watcher, clk clockwork.Clock, businessDayEnd string, loc *time.Location) (*TrackingUseCase, error) {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	dayEnd := time.Duration(-1)
	if raw := strings.TrimSpace(businessDayEnd); raw != "" {
		m, err := entities.ParseClock(raw)
		if err != nil {
			return nil, fmt.Errorf("business day end: %w", err)
		}
		dayEnd = time.Duration(m) * time.Minute
	}
	return &TrackingUseCase{coordinator: coordinator, watcher: watcher, clock: clk, dayEnd: dayEnd, loc: loc}, nil
}

// ExpiresAt returns when tracking for a booking finished at finishedAt closes.
func (u *TrackingUseCase) ExpiresAt(finishedAt time.Time) time.Time {
	day := now.With(finishedAt.In(u.loc))
	if u.dayEnd < 0 {
		return day.EndOfDay()
	}
	end := day.BeginningOfDay().Add(u.dayEnd)
	if end.Before(finishedAt) {
		return day.EndOfDay()
	}
	return end
}

func (u *TrackingUseCase) Track(ctx context.Context, bookingID string) (TrackingView, error) {
	ctx, span := tracer.Start(ctx, "TrackingUseCase.Track")
	defer span.End()

	b, found, err := u.coordinator.Locate(ctx, bookingID)
	if err != nil && !found {
		return TrackingView{}, err
	}
	if !found {
		return TrackingView{}, ErrBookingNotFound
	}

	view := TrackingView{
		BookingID:   b.ID,
		Status:      b.Status,
		Date:        b.Date,
		StartTime:   b.Start(),
		PackageType: b.PackageType,
		Vehicle:     b.Vehicle,
		CurrentStep: schedule.StepNotStarted,
	}
	if b.Status == entities.StatusFinished {
		finished := b.UpdatedAt
		if b.FinishedAt != nil {
			finished = *b.FinishedAt
		}
		exp := u.ExpiresAt(finished)
		if !u.clock.Now().Before(exp) {
			log.Printf("[tracking][track] expired booking_id=%s expired_at=%s", b.ID, exp.Format(time.RFC3339))
			return TrackingView{}, ErrTrackingExpired
		}
		view.ExpiresAt = &exp
	}

	rec, ok := u.trackingRecord(ctx, b.ID)
	if ok {
		view.ProgressPercentage = rec.ProgressPercentage
		view.CurrentStep = rec.CurrentStep
		view.LastUpdated = rec.LastUpdated
	}

	if u.watcher != nil && !b.Status.IsTerminal() {
		u.watcher.Watch(b.ID)
	}
	return view, nil
}

func (u *TrackingUseCase) trackingRecord(ctx context.Context, id string) (entities.TrackingRecord, bool) {
	stores := u.coordinator.Stores()
	rec, ok, err := stores.Tracking.GetTracking(ctx, id)
	if err != nil {
		log.Printf("[tracking][warn] cache read failed booking_id=%s err=%v", id, err)
	}
	if ok {
		return rec, true
	}

	sp, ok, err := stores.ServiceProgress.GetProgress(ctx, id)
	if err != nil {
		log.Printf("[tracking][warn] service progress read failed booking_id=%s err=%v", id, err)
		return entities.TrackingRecord{}, false
	}
	if !ok {
		return entities.TrackingRecord{}, false
	}
	rec = entities.TrackingFromProgress(schedule.ComputeProgress(id, sp.Tasks, sp.LastUpdated))
	if err := stores.Tracking.PutTracking(ctx, rec); err != nil {
		log.Printf("[tracking][warn] cache rebuild write failed booking_id=%s err=%v", id, err)
	} else {
		log.Printf("[tracking] cache rebuilt booking_id=%s progress=%d", id, rec.ProgressPercentage)
	}
	return rec, true
}
