package device

import (
	"context"
	"errors"

	"pet_feeder/internal/models"
)

// MaxAngle is the servo travel limit in degrees.
const MaxAngle = 180.0

var ErrInvalidAngle = errors.New("angle out of range")

// Channel is the command side of the device transport.
//
//go:generate mockgen -source=channel.go -destination=mock_channel.go -package=device
type Channel interface {
	// SetAngle moves the dispenser servo. 0 closes it.
	SetAngle(ctx context.Context, angle float64) error
	// Tare zeroes the bowl scale.
	Tare(ctx context.Context) error
	// AwaitIdle blocks until the servo reports idle or ctx is done.
	AwaitIdle(ctx context.Context) error
	// SyncSchedule mirrors a schedule change to the device's local copy.
	SyncSchedule(ctx context.Context, s models.ScheduleSync) error
}

func validAngle(angle float64) error {
	if angle < 0 || angle > MaxAngle {
		return ErrInvalidAngle
	}
	return nil
}
