package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"pet_feeder/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var scheduleCols = []string{"id", "hour", "minute", "amount", "enabled", "created_at", "updated_at"}

func TestScheduleList_OrdersAndScans(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewScheduleSQLite(db)

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, hour, minute, amount, enabled, created_at, updated_at FROM schedules ORDER BY hour ASC, minute ASC`)).
		WillReturnRows(sqlmock.NewRows(scheduleCols).
			AddRow("a", 7, 0, 90.0, true, ts, ts).
			AddRow("b", 19, 30, 45.0, false, ts, ts))

	got, err := repo.List(ctx(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].Time() != "07:00" || got[0].Amount != 90 || !got[0].Enabled {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].Time() != "19:30" || got[1].Enabled {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}

func TestScheduleGet_NotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewScheduleSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM schedules WHERE id = ?`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(ctx(t), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleCreate_AssignsIDAndTimestamps(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewScheduleSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schedules`)).
		WithArgs(sqlmock.AnyArg(), 7, 15, 60.0, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	got, err := repo.Create(ctx(t), models.ScheduleEntry{Hour: 7, Minute: 15, Amount: 60, Enabled: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated id")
	}
	if got.CreatedAt.IsZero() || got.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC CreatedAt, got %v", got.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestScheduleSetEnabled_ZeroRowsIsNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewScheduleSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE schedules SET enabled = ?`)).
		WithArgs(false, sqlmock.AnyArg(), "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetEnabled(ctx(t), "gone", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleUpdateAndDelete(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewScheduleSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE schedules SET hour = ?, minute = ?, amount = ?, enabled = ?, updated_at = ? WHERE id = ?`)).
		WithArgs(8, 45, 30.0, true, sqlmock.AnyArg(), "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedules WHERE id = ?`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(ctx(t), models.ScheduleEntry{ID: "s1", Hour: 8, Minute: 45, Amount: 30, Enabled: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Delete(ctx(t), "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestScheduleDelete_ExecErrorIsPropagated(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewScheduleSQLite(db)

	mock.ExpectExec("DELETE FROM schedules").WillReturnError(errors.New("db down"))

	err := repo.Delete(ctx(t), "s1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}
}
