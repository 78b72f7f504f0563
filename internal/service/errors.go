package service

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport means the command never reached the device.
	ErrTransport = errors.New("device transport failure")

	// ErrPolicyDenied is the parent of every dispense policy refusal.
	ErrPolicyDenied    = errors.New("dispense denied by policy")
	ErrBowlNotEmpty    = fmt.Errorf("%w: bowl is not empty", ErrPolicyDenied)
	ErrOutsideSchedule = fmt.Errorf("%w: no enabled schedule at this time", ErrPolicyDenied)

	ErrDeviceOffline = errors.New("device is offline")
	ErrDeviceTimeout = errors.New("device did not report idle in time")
	ErrWriteFailure  = errors.New("store write failed")

	ErrInvalidSchedule  = errors.New("invalid schedule")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
)
