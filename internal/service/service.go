package service

import (
	"context"
	"time"

	"pet_feeder/internal/config"
	"pet_feeder/internal/device"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
	"pet_feeder/internal/telemetry"
)

// Feeder exposes manual control and the device state view.
type Feeder interface {
	Dispense(ctx context.Context, angle *float64) (Outcome, error)
	Close(ctx context.Context) (Outcome, error)
	Tare(ctx context.Context) (Outcome, error)
	State(ctx context.Context) (FeederState, error)
}

// Schedules manages feeding schedules.
type Schedules interface {
	List(ctx context.Context) ([]models.ScheduleEntry, error)
	Get(ctx context.Context, id string) (models.ScheduleEntry, error)
	Create(ctx context.Context, in ScheduleInput) (models.ScheduleEntry, error)
	Update(ctx context.Context, id string, in ScheduleInput) (models.ScheduleEntry, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// AuditLog exposes the append-only audit trail with filtering.
type AuditLog interface {
	List(ctx context.Context, f AuditFilter) ([]models.AuditEntry, error)
}

// Service aggregates the request-facing services and the background engine.
// Run the monitor and evaluator from main; stop them via context cancellation,
// then call Dispatcher.Shutdown.
type Service struct {
	Feeder
	Schedules
	AuditLog

	Monitor    *ConnectivityMonitor
	Evaluator  *ScheduleEvaluator
	Dispatcher *Dispatcher
}

// Options carries what NewService needs beyond the repositories.
type Options struct {
	DeviceID  string
	Feeder    config.FeederConfig
	Channel   device.Channel
	Telemetry telemetry.Recorder
	Clock     Clock
	Log       *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) (*Service, error) {
	loc, err := opts.Feeder.Location()
	if err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.Nop{}
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	monitor := NewConnectivityMonitor(repos.Devices, opts.DeviceID, opts.Feeder.OfflineThreshold(),
		opts.Clock, opts.Telemetry, opts.Log.With("component", "connectivity"))

	dispatcher := NewDispatcher(DispatcherDeps{
		DeviceID:  opts.DeviceID,
		Config:    opts.Feeder,
		Location:  loc,
		Channel:   opts.Channel,
		Liveness:  monitor,
		Audit:     repos.Audit,
		Devices:   repos.Devices,
		Schedules: repos.Schedules,
		Telemetry: opts.Telemetry,
		Clock:     opts.Clock,
		Log:       opts.Log.With("component", "dispatcher"),
	})

	evaluator := NewScheduleEvaluator(repos.Schedules, dispatcher, loc, opts.Clock,
		opts.Log.With("component", "evaluator"))

	return &Service{
		Feeder:     NewFeederService(opts.DeviceID, opts.Feeder.MaxBowlWeight, dispatcher, monitor, repos.Devices),
		Schedules:  NewScheduleService(repos.Schedules, opts.Channel, opts.Clock, opts.Log.With("component", "schedules")),
		AuditLog:   NewAuditLogService(repos.Audit),
		Monitor:    monitor,
		Evaluator:  evaluator,
		Dispatcher: dispatcher,
	}, nil
}

// Run starts the monitor and evaluator loops and blocks until ctx is done.
func (s *Service) Run(ctx context.Context, statusPoll, schedulePoll time.Duration) {
	done := make(chan struct{})
	go func() {
		s.Monitor.Run(ctx, statusPoll)
		close(done)
	}()
	s.Evaluator.Run(ctx, schedulePoll)
	<-done
}
