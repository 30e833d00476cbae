package service

import (
	"context"
	"time"

	"garage_monitor/internal/models"
	"garage_monitor/internal/repository"

	"github.com/hako/durafmt"
)

// DoorStatus is the latest observation plus polling cadence.
type DoorStatus struct {
	models.Observation
	Interval   string `json:"interval"`
	NextPollIn string `json:"next_poll_in,omitempty"`
}

type MonitoringService struct {
	stateRepo repository.StateRepo
	interval  time.Duration
	clock     Clock
}

func NewMonitoringService(stateRepo repository.StateRepo, interval time.Duration, clock Clock) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, interval: interval, clock: clock}
}

// GetState returns the latest persisted observation.
// Before the first cycle completes it reports an UNKNOWN baseline.
func (s *MonitoringService) GetState(ctx context.Context) (DoorStatus, error) {
	obs, err := s.stateRepo.Load(ctx)
	if err != nil {
		return DoorStatus{}, err
	}
	if obs.ID == "" {
		obs = baselineObservation()
	}
	obs.ObservedAt = toUTC(obs.ObservedAt)

	return DoorStatus{
		Observation: obs,
		Interval:    durafmt.Parse(s.interval).String(),
		NextPollIn:  s.nextPollIn(obs.ObservedAt),
	}, nil
}

// nextPollIn estimates the time left until the following probe.
func (s *MonitoringService) nextPollIn(last time.Time) string {
	if last.IsZero() {
		return ""
	}
	left := last.Add(s.interval).Sub(s.clock.Now())
	if left < time.Second {
		return "due"
	}
	return durafmt.Parse(left.Round(time.Second)).LimitFirstN(2).String()
}

func baselineObservation() models.Observation {
	return models.Observation{State: models.DoorUnknown}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
