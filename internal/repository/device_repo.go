package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet_feeder/internal/models"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite {
	return &DeviceSQLite{db: db}
}

var _ DeviceRepo = (*DeviceSQLite)(nil)

const (
	ensureDeviceSQL = `
		INSERT INTO device_state (device_id, online, last_seen, ip, current_weight, last_command, updated_at)
		VALUES (?, FALSE, 0, NULL, 0, NULL, ?)
		ON CONFLICT(device_id) DO NOTHING
	`

	selectDeviceSQL = `
		SELECT device_id, online, last_seen, ip, current_weight, last_command, updated_at
		FROM device_state WHERE device_id = ?
	`

	upsertConnectivitySQL = `
		INSERT INTO device_state (device_id, online, last_seen, ip, current_weight, updated_at)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			online=excluded.online,
			last_seen=excluded.last_seen,
			ip=excluded.ip,
			updated_at=excluded.updated_at
	`

	// markOfflineSQL only demotes the heartbeat it was derived from; a newer
	// last_seen means the device reported again in the meantime.
	markOfflineSQL = `
		UPDATE device_state SET online=FALSE, updated_at=?
		WHERE device_id=? AND online=TRUE AND last_seen=?
	`

	upsertWeightSQL = `
		INSERT INTO device_state (device_id, online, last_seen, current_weight, updated_at)
		VALUES (?, FALSE, 0, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			current_weight=excluded.current_weight,
			updated_at=excluded.updated_at
	`

	upsertLastCommandSQL = `
		INSERT INTO device_state (device_id, online, last_seen, current_weight, last_command, updated_at)
		VALUES (?, FALSE, 0, 0, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			last_command=excluded.last_command,
			updated_at=excluded.updated_at
	`
)

// marshalLastCommand converts the command to a JSON string.
func marshalLastCommand(c models.LastCommand) (string, error) {
	c.IssuedAt = c.IssuedAt.UTC()
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalLastCommand parses the stored JSON; empty means no command yet.
func unmarshalLastCommand(s string) (*models.LastCommand, error) {
	if s == "" {
		return nil, nil
	}
	var c models.LastCommand
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return nil, err
	}
	c.IssuedAt = c.IssuedAt.UTC()
	return &c, nil
}

// Ensure creates a default offline snapshot for the device if none exists.
func (r *DeviceSQLite) Ensure(ctx context.Context, deviceID string) error {
	if _, err := r.db.ExecContext(ctx, ensureDeviceSQL, deviceID, time.Now().UTC()); err != nil {
		return fmt.Errorf("ensure device %q: %w", deviceID, err)
	}
	return nil
}

// Load fetches the device snapshot.
func (r *DeviceSQLite) Load(ctx context.Context, deviceID string) (models.DeviceSnapshot, error) {
	var (
		s       models.DeviceSnapshot
		ip      sql.NullString
		lastCmd sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectDeviceSQL, deviceID).Scan(
		&s.DeviceID,
		&s.Connectivity.Online,
		&s.Connectivity.LastSeen,
		&ip,
		&s.CurrentWeight,
		&lastCmd,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceSnapshot{}, ErrNotFound
		}
		return models.DeviceSnapshot{}, err
	}

	cmd, err := unmarshalLastCommand(lastCmd.String)
	if err != nil {
		return models.DeviceSnapshot{}, fmt.Errorf("decode last_command: %w", err)
	}
	s.Connectivity.IP = ip.String
	s.LastCommand = cmd
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// SaveConnectivity writes the heartbeat record for the device.
func (r *DeviceSQLite) SaveConnectivity(ctx context.Context, deviceID string, c models.ConnectivityStatus) error {
	var ip *string
	if c.IP != "" {
		ip = &c.IP
	}
	_, err := r.db.ExecContext(ctx, upsertConnectivitySQL, deviceID, c.Online, c.LastSeen, ip, time.Now().UTC())
	return err
}

// MarkOffline clears the online flag if the stored record still carries lastSeen.
// It reports whether a row was changed.
func (r *DeviceSQLite) MarkOffline(ctx context.Context, deviceID string, lastSeen int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, markOfflineSQL, time.Now().UTC(), deviceID, lastSeen)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveWeight records the latest bowl weight in grams.
func (r *DeviceSQLite) SaveWeight(ctx context.Context, deviceID string, grams float64) error {
	_, err := r.db.ExecContext(ctx, upsertWeightSQL, deviceID, grams, time.Now().UTC())
	return err
}

// SaveLastCommand persists the most recent actuator command.
func (r *DeviceSQLite) SaveLastCommand(ctx context.Context, deviceID string, c models.LastCommand) error {
	js, err := marshalLastCommand(c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertLastCommandSQL, deviceID, js, time.Now().UTC())
	return err
}
