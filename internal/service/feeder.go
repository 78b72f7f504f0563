package service

import (
	"context"
	"errors"
	"time"

	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
)

// FeederState is the UI view of the device.
type FeederState struct {
	DeviceID          string                    `json:"device_id"`
	Connectivity      models.ConnectivityStatus `json:"connectivity"`
	ConnectivityKnown bool                      `json:"connectivity_known"`
	CurrentWeight     float64                   `json:"current_weight"`
	MaxWeight         float64                   `json:"max_weight"`
	LastCommand       *models.LastCommand       `json:"last_command,omitempty"`
	CanDispense       bool                      `json:"can_dispense"`
	PendingCloses     int                       `json:"pending_closes"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// FeederService is the manual control surface.
type FeederService struct {
	deviceID   string
	maxWeight  float64
	dispatcher *Dispatcher
	liveness   Liveness
	devices    repository.DeviceRepo
}

func NewFeederService(deviceID string, maxWeight float64, dispatcher *Dispatcher, liveness Liveness, devices repository.DeviceRepo) *FeederService {
	return &FeederService{
		deviceID:   deviceID,
		maxWeight:  maxWeight,
		dispatcher: dispatcher,
		liveness:   liveness,
		devices:    devices,
	}
}

// Dispense opens the dispenser; a nil angle uses the configured default.
func (s *FeederService) Dispense(ctx context.Context, angle *float64) (Outcome, error) {
	out := s.dispatcher.Dispatch(ctx, models.CommandRequest{
		Kind: models.CommandDispense, Angle: angle, Reason: models.ReasonManual,
	})
	return out, out.Err
}

func (s *FeederService) Close(ctx context.Context) (Outcome, error) {
	out := s.dispatcher.Dispatch(ctx, models.CommandRequest{Kind: models.CommandClose, Reason: models.ReasonManual})
	return out, out.Err
}

func (s *FeederService) Tare(ctx context.Context) (Outcome, error) {
	out := s.dispatcher.Dispatch(ctx, models.CommandRequest{Kind: models.CommandTare, Reason: models.ReasonManual})
	return out, out.Err
}

// State merges the stored device document with the monitor's derived liveness.
func (s *FeederService) State(ctx context.Context) (FeederState, error) {
	snap, err := s.devices.Load(ctx, s.deviceID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return FeederState{}, err
	}

	st := FeederState{
		DeviceID:      s.deviceID,
		Connectivity:  snap.Connectivity,
		CurrentWeight: snap.CurrentWeight,
		MaxWeight:     s.maxWeight,
		LastCommand:   snap.LastCommand,
		PendingCloses: s.dispatcher.PendingCloses(),
		UpdatedAt:     toUTC(snap.UpdatedAt),
	}
	if c, known := s.liveness.Current(); known {
		st.Connectivity = c
		st.ConnectivityKnown = true
	}
	if w, known := s.liveness.Weight(); known {
		st.CurrentWeight = w
	}

	online := !st.ConnectivityKnown || st.Connectivity.Online
	st.CanDispense = online && CanDispense(st.CurrentWeight, s.maxWeight, nil, time.Now(), false)
	return st, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
