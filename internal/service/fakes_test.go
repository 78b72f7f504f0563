package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pet_feeder/internal/config"
	"pet_feeder/internal/device"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
	"pet_feeder/internal/telemetry"
)

// ---- clock ----

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	c       *fakeClock
	at      time.Time
	f       func()
	fired   bool
	stopped bool
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due timers on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// Set jumps to an absolute time, firing timers due on the way.
func (c *fakeClock) Set(t time.Time) {
	c.Advance(t.Sub(c.Now()))
}

// ---- repositories ----

type fakeScheduleRepo struct {
	items   map[string]models.ScheduleEntry
	order   []string
	listErr error
	nextID  int
}

func newFakeScheduleRepo(entries ...models.ScheduleEntry) *fakeScheduleRepo {
	r := &fakeScheduleRepo{items: map[string]models.ScheduleEntry{}}
	for _, e := range entries {
		r.items[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	return r
}

func (r *fakeScheduleRepo) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.ScheduleEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *fakeScheduleRepo) Get(ctx context.Context, id string) (models.ScheduleEntry, error) {
	e, ok := r.items[id]
	if !ok {
		return models.ScheduleEntry{}, repository.ErrNotFound
	}
	return e, nil
}

func (r *fakeScheduleRepo) Create(ctx context.Context, s models.ScheduleEntry) (models.ScheduleEntry, error) {
	r.nextID++
	s.ID = "sched-" + strconv.Itoa(r.nextID)
	r.items[s.ID] = s
	r.order = append(r.order, s.ID)
	return s, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, s models.ScheduleEntry) error {
	if _, ok := r.items[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	e, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Enabled = enabled
	r.items[id] = e
	return nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []models.AuditEntry
	appendErr error

	listArgs struct {
		from, to time.Time
		command  string
		limit    int
	}
}

func (r *fakeAuditRepo) Append(ctx context.Context, e models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, from, to time.Time, command string, limit int) ([]models.AuditEntry, error) {
	r.listArgs.from, r.listArgs.to, r.listArgs.command, r.listArgs.limit = from, to, command, limit
	return r.entries, nil
}

func (r *fakeAuditRepo) commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Command)
	}
	return out
}

type fakeDeviceRepo struct {
	mu       sync.Mutex
	snap     models.DeviceSnapshot
	loadErr  error
	connErr  error
	conns    []models.ConnectivityStatus
	demoted  []int64
	lastCmds []models.LastCommand

	// rejectCanceled makes writes fail like a real driver once ctx is done.
	rejectCanceled bool
}

func (r *fakeDeviceRepo) Ensure(ctx context.Context, deviceID string) error { return nil }

func (r *fakeDeviceRepo) Load(ctx context.Context, deviceID string) (models.DeviceSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return models.DeviceSnapshot{}, r.loadErr
	}
	return r.snap, nil
}

func (r *fakeDeviceRepo) SaveConnectivity(ctx context.Context, deviceID string, c models.ConnectivityStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns = append(r.conns, c)
	if r.connErr != nil {
		return r.connErr
	}
	r.snap.Connectivity = c
	return nil
}

func (r *fakeDeviceRepo) MarkOffline(ctx context.Context, deviceID string, lastSeen int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.demoted = append(r.demoted, lastSeen)
	if r.connErr != nil {
		return false, r.connErr
	}
	if !r.snap.Connectivity.Online || r.snap.Connectivity.LastSeen != lastSeen {
		return false, nil
	}
	r.snap.Connectivity.Online = false
	return true, nil
}

func (r *fakeDeviceRepo) SaveWeight(ctx context.Context, deviceID string, grams float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.CurrentWeight = grams
	return nil
}

func (r *fakeDeviceRepo) SaveLastCommand(ctx context.Context, deviceID string, c models.LastCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejectCanceled && ctx.Err() != nil {
		return ctx.Err()
	}
	r.lastCmds = append(r.lastCmds, c)
	r.snap.LastCommand = &c
	return nil
}

// ---- liveness ----

type livenessStub struct {
	status      models.ConnectivityStatus
	known       bool
	weight      float64
	weightKnown bool
}

func (l *livenessStub) Current() (models.ConnectivityStatus, bool) { return l.status, l.known }
func (l *livenessStub) Weight() (float64, bool)                     { return l.weight, l.weightKnown }

// ---- fixtures ----

var seven = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

func testFeederConfig() config.FeederConfig {
	return config.FeederConfig{
		OfflineThresholdSeconds: 20,
		DispenseDwellMS:         3000,
		SchedulePollIntervalMS:  5000,
		StatusPollIntervalMS:    1000,
		IdleWaitTimeoutMS:       10000,
		WaitForIdle:             true,
		MaxBowlWeight:           20,
		DefaultDispenseAngle:    90,
		Timezone:                "UTC",
	}
}

type dispatchFixture struct {
	d         *Dispatcher
	ch        *device.MockChannel
	live      *livenessStub
	audit     *fakeAuditRepo
	devices   *fakeDeviceRepo
	schedules *fakeScheduleRepo
	clock     *fakeClock
}

func newDispatchFixture(t *testing.T, cfg config.FeederConfig) *dispatchFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &dispatchFixture{
		ch:        device.NewMockChannel(ctrl),
		live:      &livenessStub{},
		audit:     &fakeAuditRepo{},
		devices:   &fakeDeviceRepo{},
		schedules: newFakeScheduleRepo(),
		clock:     newFakeClock(seven),
	}
	f.d = NewDispatcher(DispatcherDeps{
		DeviceID:  "feeder_001",
		Config:    cfg,
		Location:  time.UTC,
		Channel:   f.ch,
		Liveness:  f.live,
		Audit:     f.audit,
		Devices:   f.devices,
		Schedules: f.schedules,
		Telemetry: telemetry.Nop{},
		Clock:     f.clock,
		Log:       logger.Nop(),
	})
	require.NotNil(t, f.d)
	return f
}
