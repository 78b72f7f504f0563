package models

import "time"

// ConnectivityStatus is the device heartbeat record.
type ConnectivityStatus struct {
	Online   bool   `json:"online"`
	LastSeen int64  `json:"last_seen"` // epoch seconds
	IP       string `json:"ip,omitempty"`
}

// Servo states reported by the device.
const (
	ServoIdle   = "idle"
	ServoMoving = "moving"
)

// ServoStatus is the device status feed payload.
type ServoStatus struct {
	Status      string  `json:"status"` // idle | moving
	TargetAngle float64 `json:"target_angle"`
}

// DeviceSnapshot is the persisted per-device state document.
type DeviceSnapshot struct {
	DeviceID      string             `json:"device_id"`
	Connectivity  ConnectivityStatus `json:"connectivity"`
	CurrentWeight float64            `json:"current_weight"` // grams
	LastCommand   *LastCommand       `json:"last_command,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
