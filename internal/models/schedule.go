package models

import (
	"fmt"
	"time"
)

// ScheduleEntry is a time-of-day feeding rule.
type ScheduleEntry struct {
	ID        string    `json:"id"`
	Hour      int       `json:"hour"`   // 0-23
	Minute    int       `json:"minute"` // 0-59
	Amount    float64   `json:"amount"` // servo angle / portion
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Time renders the entry's time of day as "HH:MM".
func (s ScheduleEntry) Time() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Schedule sync operations pushed to the device.
const (
	SyncAdd    = "ADD"
	SyncUpdate = "UPDATE"
	SyncToggle = "TOGGLE"
	SyncDelete = "DELETE"
)

// ScheduleSync mirrors a schedule change to the device's local copy.
type ScheduleSync struct {
	Op         string  `json:"type"` // ADD | UPDATE | TOGGLE | DELETE
	ScheduleID string  `json:"schedule_id"`
	Hour       int     `json:"hour,omitempty"`
	Minute     int     `json:"minute,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Enabled    bool    `json:"enabled"`
	Timestamp  int64   `json:"timestamp"` // epoch ms
}
