package repository

import (
	"context"
	"database/sql"

	"garage_monitor/internal/models"

	"github.com/google/uuid"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite { return &NotificationSQLite{db: db} }

const (
	insertNotificationSQL = `
		INSERT INTO notifications (id, observation_id, recipient, provider, delivered, error, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectNotificationsSQL = `
		SELECT id, observation_id, recipient, provider, delivered, error, attempted_at
		FROM notifications WHERE observation_id = ?
		ORDER BY attempted_at ASC
	`
)

func (r *NotificationSQLite) Append(ctx context.Context, a models.NotificationAttempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertNotificationSQL,
		a.ID,
		a.ObservationID,
		a.Recipient,
		a.Provider,
		a.Delivered,
		nullString(a.Error),
		utcOrNow(a.AttemptedAt),
	)
	return err
}

func (r *NotificationSQLite) ListByObservation(ctx context.Context, observationID string) ([]models.NotificationAttempt, error) {
	rows, err := r.db.QueryContext(ctx, selectNotificationsSQL, observationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.NotificationAttempt, 0, 4)
	for rows.Next() {
		var (
			a      models.NotificationAttempt
			errStr sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ObservationID, &a.Recipient, &a.Provider, &a.Delivered, &errStr, &a.AttemptedAt); err != nil {
			return nil, err
		}
		a.Error = errStr.String
		a.AttemptedAt = a.AttemptedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
