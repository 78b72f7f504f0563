package models

import "time"

// Audit command names. The AUTO_ prefix marks schedule-driven commands.
const (
	AuditDispense       = "DISPENSE"
	AuditClose          = "CLOSE"
	AuditTare           = "TARE"
	AuditDispenseDenied = "DISPENSE_DENIED"
	AuditAutoDispense   = "AUTO_DISPENSE"
	AuditAutoClose      = "AUTO_CLOSE"
	AuditAutoSkipped    = "AUTO_SKIPPED"
)

// AuditEntry is an append-only record of a command and its outcome.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Angle     *float64  `json:"angle,omitempty"`
	Weight    *float64  `json:"weight,omitempty"`
	Message   string    `json:"message,omitempty"`
}
