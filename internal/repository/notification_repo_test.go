package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"garage_monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNotificationAppend_StoresAttempt(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewNotificationSQLite(db)

	at := time.Date(2026, 3, 1, 23, 0, 1, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(insertNotificationSQL)).
		WithArgs("n1", "o1", "a@x.com", "email", false, "notification provider returned non-2xx status: 401", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.NotificationAttempt{
		ID:            "n1",
		ObservationID: "o1",
		Recipient:     "a@x.com",
		Provider:      "email",
		Error:         "notification provider returned non-2xx status: 401",
		AttemptedAt:   at,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestNotificationListByObservation(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewNotificationSQLite(db)

	at := time.Date(2026, 3, 1, 23, 0, 1, 0, time.UTC)
	cols := []string{"id", "observation_id", "recipient", "provider", "delivered", "error", "attempted_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("n1", "o1", "a@x.com", "email", false, "boom", at).
		AddRow("n2", "o1", "b@x.com", "email", true, nil, at.Add(time.Second))

	mock.ExpectQuery(regexp.QuoteMeta(selectNotificationsSQL)).
		WithArgs("o1").
		WillReturnRows(rows)

	got, err := repo.ListByObservation(ctx(t), "o1")
	if err != nil {
		t.Fatalf("ListByObservation: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 attempts, got %d", len(got))
	}
	if got[0].Recipient != "a@x.com" || got[0].Delivered || got[0].Error != "boom" {
		t.Fatalf("unexpected first attempt: %+v", got[0])
	}
	if got[1].Recipient != "b@x.com" || !got[1].Delivered || got[1].Error != "" {
		t.Fatalf("unexpected second attempt: %+v", got[1])
	}
}

func TestNotificationListByObservation_NoneIsEmptyNotNil(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewNotificationSQLite(db)

	cols := []string{"id", "observation_id", "recipient", "provider", "delivered", "error", "attempted_at"}
	mock.ExpectQuery(regexp.QuoteMeta(selectNotificationsSQL)).
		WithArgs("o-quiet").
		WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.ListByObservation(ctx(t), "o-quiet")
	if err != nil {
		t.Fatalf("ListByObservation: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestNotificationListByObservation_Error(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewNotificationSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectNotificationsSQL)).
		WithArgs("o1").
		WillReturnError(errors.New("locked"))

	if _, err := repo.ListByObservation(ctx(t), "o1"); err == nil {
		t.Fatalf("expected error")
	}
}
