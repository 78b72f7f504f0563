package device

import (
	"context"
	"math"
	"sync"
	"time"

	"pet_feeder/internal/config"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
)

// simulatedIP is reported in simulator heartbeats.
const simulatedIP = "127.0.0.1"

// Simulator is an in-process feeder. It moves the servo at a fixed rate, fills
// the bowl while the dispenser is open, lets the pet eat, and writes heartbeats
// and weight to the device repository the way real firmware would.
type Simulator struct {
	cfg      config.SimulatorConfig
	deviceID string
	devices  repository.DeviceRepo
	feed     *StatusFeed
	log      *logger.Logger

	mu        sync.Mutex
	angle     float64
	target    float64
	pending   bool
	weight    float64
	lastTick  time.Time
	schedules map[string]models.ScheduleSync
}

func NewSimulator(cfg config.SimulatorConfig, deviceID string, devices repository.DeviceRepo, log *logger.Logger) *Simulator {
	s := &Simulator{
		cfg:       cfg,
		deviceID:  deviceID,
		devices:   devices,
		feed:      NewStatusFeed(),
		log:       log.With("device_id", deviceID, "transport", config.TransportSim),
		weight:    cfg.InitialBowlWeightG,
		schedules: make(map[string]models.ScheduleSync),
	}
	s.feed.Publish(models.ServoStatus{Status: models.ServoIdle})
	return s
}

var _ Channel = (*Simulator)(nil)

// Feed exposes the servo status feed.
func (s *Simulator) Feed() *StatusFeed { return s.feed }

func (s *Simulator) SetAngle(ctx context.Context, angle float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validAngle(angle); err != nil {
		return err
	}
	s.mu.Lock()
	s.target = angle
	s.pending = true
	s.mu.Unlock()
	s.feed.markMoving(angle)
	return nil
}

func (s *Simulator) Tare(ctx context.Context) error {
	s.mu.Lock()
	s.weight = 0
	s.mu.Unlock()
	return s.devices.SaveWeight(ctx, s.deviceID, 0)
}

func (s *Simulator) AwaitIdle(ctx context.Context) error {
	return s.feed.WaitIdle(ctx)
}

func (s *Simulator) SyncSchedule(ctx context.Context, op models.ScheduleSync) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch op.Op {
	case models.SyncDelete:
		delete(s.schedules, op.ScheduleID)
		return nil
	case models.SyncToggle:
		if cur, ok := s.schedules[op.ScheduleID]; ok {
			cur.Enabled = op.Enabled
			s.schedules[op.ScheduleID] = cur
			return nil
		}
	}
	s.schedules[op.ScheduleID] = op
	return nil
}

// LocalSchedules returns the device's copy of the schedule table.
func (s *Simulator) LocalSchedules() map[string]models.ScheduleSync {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.ScheduleSync, len(s.schedules))
	for k, v := range s.schedules {
		out[k] = v
	}
	return out
}

// Run ticks at the given interval until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.step(ctx, now)
		}
	}
}

// step advances the model to now and reports heartbeat and weight.
func (s *Simulator) step(ctx context.Context, now time.Time) {
	s.mu.Lock()
	if s.lastTick.IsZero() {
		s.lastTick = now
	}
	elapsed := now.Sub(s.lastTick).Seconds()
	s.lastTick = now

	s.angle = moveToward(s.angle, s.target, s.cfg.ServoDegPerSec*elapsed)
	arrived := s.pending && s.angle == s.target
	if arrived {
		s.pending = false
	}

	s.weight = s.nextWeight(s.weight, s.angle, elapsed)
	weight := s.weight
	angle := s.angle
	s.mu.Unlock()

	if arrived {
		s.feed.Publish(models.ServoStatus{Status: models.ServoIdle, TargetAngle: angle})
	}

	hb := models.ConnectivityStatus{Online: true, LastSeen: now.Unix(), IP: simulatedIP}
	if err := s.devices.SaveConnectivity(ctx, s.deviceID, hb); err != nil {
		s.log.Warnw("sim_heartbeat_failed", "err", err)
	}
	if err := s.devices.SaveWeight(ctx, s.deviceID, weight); err != nil {
		s.log.Warnw("sim_weight_failed", "err", err)
	}
}

// nextWeight fills the bowl in proportion to how far the dispenser is open
// and drains it at the pet's eating rate. Never negative.
func (s *Simulator) nextWeight(weight, angle, elapsed float64) float64 {
	if angle > 0 {
		weight += s.cfg.FillGramsPerSec * (angle / MaxAngle) * elapsed
	}
	return math.Max(weight-s.cfg.EatGramsPerSec*elapsed, 0)
}

// moveToward steps cur toward target by at most maxStep.
func moveToward(cur, target, maxStep float64) float64 {
	if maxStep <= 0 {
		return cur
	}
	if math.Abs(target-cur) <= maxStep {
		return target
	}
	if target > cur {
		return cur + maxStep
	}
	return cur - maxStep
}
