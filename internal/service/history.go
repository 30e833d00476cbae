package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"garage_monitor/internal/models"
	"garage_monitor/internal/repository"
)

type HistoryService struct {
	obsRepo   repository.ObservationRepo
	notifRepo repository.NotificationRepo
}

func NewHistoryService(obsRepo repository.ObservationRepo, notifRepo repository.NotificationRepo) *HistoryService {
	return &HistoryService{obsRepo: obsRepo, notifRepo: notifRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidState     = errors.New("invalid state: must be OPEN, CLOSED or UNKNOWN")
	errMissingID        = errors.New("observation id is required")
)

// normalizeStateFilter trims and uppercases the state filter and checks it names a DoorState.
func normalizeStateFilter(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if _, err := models.ParseDoorState(s); err != nil {
		return "", errInvalidState
	}
	return s, nil
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f HistoryFilter) (time.Time, time.Time, string, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	state, err := normalizeStateFilter(f.State)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	return from, to, state, nil
}

func (s *HistoryService) List(ctx context.Context, f HistoryFilter) ([]models.Observation, error) {
	from, to, state, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.obsRepo.List(ctx, from, to, state)
}

func (s *HistoryService) Notifications(ctx context.Context, observationID string) ([]models.NotificationAttempt, error) {
	observationID = strings.TrimSpace(observationID)
	if observationID == "" {
		return nil, errMissingID
	}
	return s.notifRepo.ListByObservation(ctx, observationID)
}

// IsValidationError reports whether err came from filter validation rather
// than storage.
func IsValidationError(err error) bool {
	return errors.Is(err, errInvalidTimeRange) || errors.Is(err, errInvalidState) || errors.Is(err, errMissingID)
}
