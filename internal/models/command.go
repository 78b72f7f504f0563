package models

import "time"

// CommandKind is the actuator operation requested from the feeder.
type CommandKind string

const (
	CommandDispense CommandKind = "DISPENSE"
	CommandClose    CommandKind = "CLOSE"
	CommandTare     CommandKind = "TARE"
)

// Reason tells whether a command came from a user or from a schedule.
type Reason string

const (
	ReasonManual Reason = "MANUAL"
	ReasonAuto   Reason = "AUTO"
)

// CommandRequest is consumed by the dispatcher.
type CommandRequest struct {
	Kind       CommandKind `json:"kind"`
	Angle      *float64    `json:"angle,omitempty"`
	ScheduleID string      `json:"schedule_id,omitempty"`
	Reason     Reason      `json:"reason"`
}

// LastCommand is the most recent actuator command persisted for a device.
type LastCommand struct {
	Kind     CommandKind `json:"type"`
	Angle    float64     `json:"angle"`
	Reason   Reason      `json:"reason"`
	IssuedAt time.Time   `json:"timestamp"`
}

// IsOpen reports whether the command left the dispenser open.
func (c LastCommand) IsOpen() bool {
	return c.Kind == CommandDispense && c.Angle > 0
}

// Float returns a pointer to v; handy for optional angles and weights.
func Float(v float64) *float64 {
	return &v
}
