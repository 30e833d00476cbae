package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"garage_monitor/internal/models"

	"github.com/google/uuid"
)

type ObservationSQLite struct {
	db *sql.DB
}

func NewObservationSQLite(db *sql.DB) *ObservationSQLite { return &ObservationSQLite{db: db} }

const insertObservationSQL = `
		INSERT INTO observations (id, observed_at, state, hour, minute, in_window, notified, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

// Append inserts an observation, generating ID and timestamp when empty.
func (r *ObservationSQLite) Append(ctx context.Context, o models.Observation) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertObservationSQL,
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

// List returns observations within [from, to] (zero bounds are open) and,
// when state is non-empty, of that state only. Oldest first.
func (r *ObservationSQLite) List(ctx context.Context, from, to time.Time, state string) ([]models.Observation, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "observed_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "observed_at <= ?")
		args = append(args, to.UTC())
	}
	if state = strings.ToUpper(strings.TrimSpace(state)); state != "" {
		conds = append(conds, "state = ?")
		args = append(args, state)
	}

	q := `SELECT id, observed_at, state, hour, minute, in_window, notified, failed, error FROM observations`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY observed_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Observation, 0, 64)
	for rows.Next() {
		var (
			o        models.Observation
			stateStr string
			errStr   sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.ObservedAt, &stateStr, &o.Hour, &o.Minute, &o.InWindow, &o.Notified, &o.Failed, &errStr); err != nil {
			return nil, err
		}
		// rows written by a newer build may carry states this one does not know
		o.State, _ = models.ParseDoorState(stateStr)
		o.ObservedAt = o.ObservedAt.UTC()
		o.Error = errStr.String
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
