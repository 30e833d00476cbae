package service

import (
	"context"

	"garage_monitor/internal/config"
	"garage_monitor/internal/logger"
	"garage_monitor/internal/models"
	"garage_monitor/internal/notify"
	"garage_monitor/internal/repository"
)

// Prober reports the current door state. On failure the state is DoorUnknown
// and err says why.
type Prober interface {
	Probe(ctx context.Context) (models.DoorState, error)
}

// Watcher runs the poll-evaluate-notify loop.
type Watcher interface {
	Run(ctx context.Context)
	Cycle(ctx context.Context) CycleReport
}

// Monitoring exposes the latest observation.
type Monitoring interface {
	GetState(ctx context.Context) (DoorStatus, error)
}

// History exposes the observation journal with filtering access.
type History interface {
	List(ctx context.Context, f HistoryFilter) ([]models.Observation, error)
	Notifications(ctx context.Context, observationID string) ([]models.NotificationAttempt, error)
}

type Service struct {
	Watcher
	Monitoring
	History
}

// NewService wires the repositories, the device prober and the notifier into
// concrete services sharing one clock.
func NewService(s config.Settings, repos *repository.Repository, prober Prober, notifier notify.Notifier, log *logger.Logger) *Service {
	clock := SystemClock()
	return &Service{
		Watcher:    NewWatcherService(s, prober, notifier, repos, clock, log),
		Monitoring: NewMonitoringService(repos.StateRepo, s.Interval, clock),
		History:    NewHistoryService(repos.ObservationRepo, repos.NotificationRepo),
	}
}
