package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"garage_monitor/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	doorStateRowID = 1

	upsertDoorStateSQL = `
		INSERT INTO door_state (id, observation_id, observed_at, state, hour, minute, in_window, notified, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			observation_id=excluded.observation_id,
			observed_at=excluded.observed_at,
			state=excluded.state,
			hour=excluded.hour,
			minute=excluded.minute,
			in_window=excluded.in_window,
			notified=excluded.notified,
			failed=excluded.failed,
			error=excluded.error
	`

	deleteDoorStateSQL = `DELETE FROM door_state WHERE id=?`

	selectDoorStateSQL = `
		SELECT observation_id, observed_at, state, hour, minute, in_window, notified, failed, error
		FROM door_state WHERE id=?
	`
)

// Save replaces the door_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, o models.Observation) error {
	_, err := r.db.ExecContext(ctx, upsertDoorStateSQL,
		doorStateRowID,
		o.ID,
		utcOrNow(o.ObservedAt),
		o.State.String(),
		o.Hour,
		o.Minute,
		o.InWindow,
		o.Notified,
		o.Failed,
		nullString(o.Error),
	)
	return err
}

// Clear drops the row so Load reports nothing until the next Save.
func (r *StateSQLite) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, deleteDoorStateSQL, doorStateRowID)
	return err
}

// Load returns the zero Observation when nothing has been saved yet.
func (r *StateSQLite) Load(ctx context.Context) (models.Observation, error) {
	row := r.db.QueryRowContext(ctx, selectDoorStateSQL, doorStateRowID)

	var (
		o        models.Observation
		stateStr string
		errStr   sql.NullString
	)
	if err := row.Scan(
		&o.ID,
		&o.ObservedAt,
		&stateStr,
		&o.Hour,
		&o.Minute,
		&o.InWindow,
		&o.Notified,
		&o.Failed,
		&errStr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Observation{}, nil
		}
		return models.Observation{}, err
	}

	state, err := models.ParseDoorState(stateStr)
	if err != nil {
		return models.Observation{}, err
	}
	o.State = state
	o.Error = errStr.String
	o.ObservedAt = o.ObservedAt.UTC()
	return o, nil
}

// utcOrNow normalizes t to UTC, substituting the current time for zero.
func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
