package service

import (
	"context"
	"sync"
	"time"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
	"pet_feeder/internal/telemetry"
)

// Liveness is what the dispatcher needs to know about the device.
type Liveness interface {
	Current() (models.ConnectivityStatus, bool)
	Weight() (float64, bool)
}

// ConnectivityMonitor derives device liveness from the heartbeat record and
// keeps the latest bowl weight.
type ConnectivityMonitor struct {
	devices   repository.DeviceRepo
	deviceID  string
	threshold time.Duration
	clock     Clock
	telemetry telemetry.Recorder
	log       *logger.Logger

	mu          sync.RWMutex
	status      models.ConnectivityStatus
	known       bool
	weight      float64
	weightKnown bool
}

func NewConnectivityMonitor(devices repository.DeviceRepo, deviceID string, threshold time.Duration,
	clock Clock, rec telemetry.Recorder, log *logger.Logger) *ConnectivityMonitor {
	return &ConnectivityMonitor{
		devices:   devices,
		deviceID:  deviceID,
		threshold: threshold,
		clock:     clock,
		telemetry: rec,
		log:       log,
	}
}

var _ Liveness = (*ConnectivityMonitor)(nil)

// Observe derives liveness from a raw heartbeat record. A record that claims
// online but is older than the threshold is corrected in the store once. The
// correction is conditional on last_seen so a heartbeat that arrived after the
// read is never overwritten.
func (m *ConnectivityMonitor) Observe(ctx context.Context, raw models.ConnectivityStatus) models.ConnectivityStatus {
	derived := raw
	derived.Online = raw.Online && m.fresh(raw.LastSeen)

	if raw.Online && !derived.Online {
		changed, err := m.devices.MarkOffline(ctx, m.deviceID, raw.LastSeen)
		switch {
		case err != nil:
			m.log.Warnw("connectivity_correction_failed", "err", err, "last_seen", raw.LastSeen)
		case changed:
			m.log.Infow("device_marked_offline", "last_seen", raw.LastSeen)
		default:
			m.log.Debugw("connectivity_correction_superseded", "last_seen", raw.LastSeen)
		}
	}

	m.mu.Lock()
	m.status = derived
	m.known = true
	m.mu.Unlock()
	return derived
}

func (m *ConnectivityMonitor) fresh(lastSeen int64) bool {
	age := m.clock.Now().Sub(time.Unix(lastSeen, 0))
	return age <= m.threshold
}

// Current returns the last derived status; known is false until the first
// successful read and after a failed one.
func (m *ConnectivityMonitor) Current() (models.ConnectivityStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.known
}

// Weight returns the last bowl weight read from the store.
func (m *ConnectivityMonitor) Weight() (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.weight, m.weightKnown
}

// PollOnce reads the device snapshot and refreshes liveness and weight.
func (m *ConnectivityMonitor) PollOnce(ctx context.Context) error {
	snap, err := m.devices.Load(ctx, m.deviceID)
	if err != nil {
		m.mu.Lock()
		m.known = false
		m.weightKnown = false
		m.mu.Unlock()
		return err
	}

	m.Observe(ctx, snap.Connectivity)

	m.mu.Lock()
	m.weight = snap.CurrentWeight
	m.weightKnown = true
	m.mu.Unlock()
	m.telemetry.RecordWeight(m.deviceID, snap.CurrentWeight)
	return nil
}

// Run polls on every tick until ctx is canceled.
func (m *ConnectivityMonitor) Run(ctx context.Context, tick time.Duration) {
	if err := m.PollOnce(ctx); err != nil {
		m.log.Warnw("connectivity_poll_failed", "err", err)
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := m.PollOnce(ctx); err != nil {
				m.log.Warnw("connectivity_poll_failed", "err", err)
			}
		}
	}
}
