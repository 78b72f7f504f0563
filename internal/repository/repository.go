package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet_feeder/internal/models"
	"pet_feeder/internal/repository/db"
)

// ErrNotFound is returned when a keyed document does not exist.
var ErrNotFound = errors.New("not found")

// ScheduleRepo stores feeding schedules keyed by an opaque id.
type ScheduleRepo interface {
	List(ctx context.Context) ([]models.ScheduleEntry, error)
	Get(ctx context.Context, id string) (models.ScheduleEntry, error)
	Create(ctx context.Context, s models.ScheduleEntry) (models.ScheduleEntry, error)
	Update(ctx context.Context, s models.ScheduleEntry) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// AuditRepo is the append-only audit sink.
type AuditRepo interface {
	Append(ctx context.Context, e models.AuditEntry) error
	List(ctx context.Context, from, to time.Time, command string, limit int) ([]models.AuditEntry, error)
}

// DeviceRepo holds the per-device state document (connectivity, weight, last command).
type DeviceRepo interface {
	Ensure(ctx context.Context, deviceID string) error
	Load(ctx context.Context, deviceID string) (models.DeviceSnapshot, error)
	SaveConnectivity(ctx context.Context, deviceID string, c models.ConnectivityStatus) error
	MarkOffline(ctx context.Context, deviceID string, lastSeen int64) (bool, error)
	SaveWeight(ctx context.Context, deviceID string, grams float64) error
	SaveLastCommand(ctx context.Context, deviceID string, c models.LastCommand) error
}

type Repository struct {
	Schedules ScheduleRepo
	Audit     AuditRepo
	Devices   DeviceRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Schedules: NewScheduleSQLite(conn),
		Audit:     NewAuditSQLite(conn),
		Devices:   NewDeviceSQLite(conn),
	}
}

// InitDB opens the SQLite file at path and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
