package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet_feeder/internal/models"

	"github.com/google/uuid"
)

const defaultAuditLimit = 200

type AuditSQLite struct {
	db *sql.DB
}

func NewAuditSQLite(db *sql.DB) *AuditSQLite { return &AuditSQLite{db: db} }

var _ AuditRepo = (*AuditSQLite)(nil)

// Append inserts a new entry. If ID or Timestamp are empty, they're set.
func (r *AuditSQLite) Append(ctx context.Context, e models.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	} else {
		e.Timestamp = e.Timestamp.UTC()
	}

	var msg *string
	if e.Message != "" {
		msg = &e.Message
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, occurred_at, command, angle, weight, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Timestamp,
		strings.ToUpper(strings.TrimSpace(e.Command)),
		e.Angle,
		e.Weight,
		msg,
	)
	return err
}

// List returns entries filtered by [from, to] (inclusive) and/or command, newest first.
// A non-positive limit falls back to the default page size.
func (r *AuditSQLite) List(ctx context.Context, from, to time.Time, command string, limit int) ([]models.AuditEntry, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if command = strings.ToUpper(strings.TrimSpace(command)); command != "" {
		conds = append(conds, "command = ?")
		args = append(args, command)
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	q := `SELECT id, occurred_at, command, angle, weight, message FROM audit_entries`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.AuditEntry, 0, 64)
	for rows.Next() {
		var (
			e      models.AuditEntry
			angle  sql.NullFloat64
			weight sql.NullFloat64
			msg    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Command, &angle, &weight, &msg); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		if angle.Valid {
			e.Angle = models.Float(angle.Float64)
		}
		if weight.Valid {
			e.Weight = models.Float(weight.Float64)
		}
		e.Message = msg.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
