package repository

import (
	"context"
	"database/sql"
	"time"

	"garage_monitor/internal/models"
)

// StateRepo keeps the most recent observation in a single row.
type StateRepo interface {
	Save(ctx context.Context, o models.Observation) error
	Load(ctx context.Context) (models.Observation, error)
	Clear(ctx context.Context) error
}

// ObservationRepo is the append-only journal of poll cycles.
type ObservationRepo interface {
	Append(ctx context.Context, o models.Observation) error
	List(ctx context.Context, from, to time.Time, state string) ([]models.Observation, error)
}

// NotificationRepo records every delivery attempt.
type NotificationRepo interface {
	Append(ctx context.Context, a models.NotificationAttempt) error
	ListByObservation(ctx context.Context, observationID string) ([]models.NotificationAttempt, error)
}

type Repository struct {
	StateRepo        StateRepo
	ObservationRepo  ObservationRepo
	NotificationRepo NotificationRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo:        NewStateSQLite(db),
		ObservationRepo:  NewObservationSQLite(db),
		NotificationRepo: NewNotificationSQLite(db),
	}
}
