package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet_feeder/internal/models"

	"github.com/google/uuid"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite {
	return &ScheduleSQLite{db: db}
}

var _ ScheduleRepo = (*ScheduleSQLite)(nil)

const (
	selectSchedulesSQL = `SELECT id, hour, minute, amount, enabled, created_at, updated_at FROM schedules`

	insertScheduleSQL = `
		INSERT INTO schedules (id, hour, minute, amount, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	updateScheduleSQL = `UPDATE schedules SET hour = ?, minute = ?, amount = ?, enabled = ?, updated_at = ? WHERE id = ?`

	updateScheduleEnabledSQL = `UPDATE schedules SET enabled = ?, updated_at = ? WHERE id = ?`

	deleteScheduleSQL = `DELETE FROM schedules WHERE id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (models.ScheduleEntry, error) {
	var s models.ScheduleEntry
	if err := row.Scan(&s.ID, &s.Hour, &s.Minute, &s.Amount, &s.Enabled, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return models.ScheduleEntry{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// List returns every schedule ordered by time of day. Callers must not rely on the order.
func (r *ScheduleSQLite) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectSchedulesSQL+" ORDER BY hour ASC, minute ASC")
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	out := make([]models.ScheduleEntry, 0, 8)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single schedule by id.
func (r *ScheduleSQLite) Get(ctx context.Context, id string) (models.ScheduleEntry, error) {
	s, err := scanSchedule(r.db.QueryRowContext(ctx, selectSchedulesSQL+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduleEntry{}, ErrNotFound
		}
		return models.ScheduleEntry{}, fmt.Errorf("get schedule %q: %w", id, err)
	}
	return s, nil
}

// Create inserts a schedule, assigning its id and timestamps.
func (r *ScheduleSQLite) Create(ctx context.Context, s models.ScheduleEntry) (models.ScheduleEntry, error) {
	now := time.Now().UTC()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, insertScheduleSQL,
		s.ID, s.Hour, s.Minute, s.Amount, s.Enabled, s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return models.ScheduleEntry{}, fmt.Errorf("insert schedule: %w", err)
	}
	return s, nil
}

// Update overwrites the mutable fields of an existing schedule.
func (r *ScheduleSQLite) Update(ctx context.Context, s models.ScheduleEntry) error {
	res, err := r.db.ExecContext(ctx, updateScheduleSQL,
		s.Hour, s.Minute, s.Amount, s.Enabled, time.Now().UTC(), s.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule %q: %w", s.ID, err)
	}
	return expectOneRow(res)
}

// SetEnabled toggles a schedule.
func (r *ScheduleSQLite) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, updateScheduleEnabledSQL, enabled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("toggle schedule %q: %w", id, err)
	}
	return expectOneRow(res)
}

// Delete removes a schedule.
func (r *ScheduleSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteScheduleSQL, id)
	if err != nil {
		return fmt.Errorf("delete schedule %q: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
