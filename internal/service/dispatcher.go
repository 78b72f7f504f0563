package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"

	"pet_feeder/internal/config"
	"pet_feeder/internal/device"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
	"pet_feeder/internal/telemetry"
)

// Result classifies a dispatch.
type Result string

const (
	ResultOK      Result = "OK"
	ResultDenied  Result = "DENIED"
	ResultTimeout Result = "TIMEOUT"
	ResultFailed  Result = "FAILED"
)

// closeTimeout bounds a deferred close, which runs detached from any request.
const closeTimeout = 10 * time.Second

// Outcome is the result of one dispatch. CloseAt is set when a deferred close
// was scheduled.
type Outcome struct {
	Request models.CommandRequest `json:"request"`
	Result  Result                `json:"result"`
	Err     error                 `json:"-"`
	Angle   float64               `json:"angle"`
	CloseAt time.Time             `json:"close_at,omitempty"`

	// closeNow is set when the close could not be deferred because the
	// dispatcher is draining. Dispatch runs it after the open is audited.
	closeNow func()
}

// DispatcherDeps are the collaborators of a Dispatcher.
type DispatcherDeps struct {
	DeviceID  string
	Config    config.FeederConfig
	Location  *time.Location
	Channel   device.Channel
	Liveness  Liveness
	Audit     repository.AuditRepo
	Devices   repository.DeviceRepo
	Schedules repository.ScheduleRepo
	Telemetry telemetry.Recorder
	Clock     Clock
	Log       *logger.Logger
}

// Dispatcher turns command requests into device commands, enforces the
// liveness and weight gates, writes one audit entry per dispatch, and owns the
// deferred close timers.
type Dispatcher struct {
	DispatcherDeps

	mu       sync.Mutex
	pending  map[string]pendingClose
	draining bool
	wg       sync.WaitGroup
}

type pendingClose struct {
	timer  Timer
	reason models.Reason
}

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.Nop{}
	}
	return &Dispatcher{
		DispatcherDeps: deps,
		pending:        make(map[string]pendingClose),
	}
}

var _ CommandSink = (*Dispatcher)(nil)

// Dispatch executes req. It never panics on collaborator failures; the outcome
// carries the error.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.CommandRequest) Outcome {
	var out Outcome
	switch req.Kind {
	case models.CommandDispense:
		out = d.dispense(ctx, req)
	case models.CommandClose:
		out = d.close(ctx, req)
	case models.CommandTare:
		out = d.tare(ctx, req)
	default:
		out = Outcome{Request: req, Result: ResultFailed, Err: fmt.Errorf("%w: unknown kind %q", ErrInvalidCommand, req.Kind)}
	}

	command := auditCommand(req, out.Result)
	d.audit(ctx, command, out)
	d.Telemetry.RecordDispense(d.DeviceID, command, out.Angle, string(out.Result))
	d.logOutcome(command, out)

	if out.closeNow != nil {
		out.closeNow()
		out.closeNow = nil
	}
	return out
}

func (d *Dispatcher) dispense(ctx context.Context, req models.CommandRequest) Outcome {
	angle := d.Config.DefaultDispenseAngle
	if req.Angle != nil {
		angle = *req.Angle
	}
	out := Outcome{Request: req, Angle: angle}

	if angle < 0 || angle > device.MaxAngle {
		out.Result = ResultFailed
		out.Err = fmt.Errorf("%w: angle %.1f outside [0, %.0f]", ErrInvalidCommand, angle, device.MaxAngle)
		return out
	}

	if err := d.gate(ctx, req); err != nil {
		out.Result = ResultDenied
		out.Err = err
		return out
	}

	if err := d.Channel.SetAngle(ctx, angle); err != nil {
		out.Result = ResultFailed
		out.Err = fmt.Errorf("%w: %w", ErrTransport, err)
		return out
	}
	// The servo is open now: the record that lets Recover close it must be
	// written even if the caller is going away.
	d.saveLastCommand(context.WithoutCancel(ctx), models.CommandDispense, angle, req.Reason)

	out.Result = ResultOK
	if d.Config.WaitForIdle {
		waitCtx, cancel := context.WithTimeout(ctx, d.Config.IdleWaitTimeout())
		err := d.Channel.AwaitIdle(waitCtx)
		cancel()
		if err != nil {
			out.Result = ResultTimeout
			out.Err = fmt.Errorf("%w: %w", ErrDeviceTimeout, err)
		}
	}

	out.CloseAt, out.closeNow = d.scheduleClose(d.Config.DispenseDwell(), req.Reason)
	return out
}

// gate applies the liveness and weight checks. Unknown liveness and unknown
// weight do not block.
func (d *Dispatcher) gate(ctx context.Context, req models.CommandRequest) error {
	if st, known := d.Liveness.Current(); known && !st.Online {
		return ErrDeviceOffline
	}

	weight, _ := d.Liveness.Weight()
	gated := req.Reason == models.ReasonManual && d.Config.ManualRequiresSchedule

	var schedules []models.ScheduleEntry
	if gated {
		list, err := d.Schedules.List(ctx)
		if err != nil {
			return fmt.Errorf("%w: schedules unavailable: %w", ErrOutsideSchedule, err)
		}
		schedules = list
	}
	return CheckDispense(weight, d.Config.MaxBowlWeight, schedules, d.Clock.Now().In(d.Location), gated)
}

func (d *Dispatcher) close(ctx context.Context, req models.CommandRequest) Outcome {
	out := Outcome{Request: req}
	if err := d.Channel.SetAngle(ctx, 0); err != nil {
		out.Result = ResultFailed
		out.Err = fmt.Errorf("%w: %w", ErrTransport, err)
		return out
	}
	d.saveLastCommand(ctx, models.CommandClose, 0, req.Reason)
	out.Result = ResultOK
	return out
}

func (d *Dispatcher) tare(ctx context.Context, req models.CommandRequest) Outcome {
	out := Outcome{Request: req}
	if err := d.Channel.Tare(ctx); err != nil {
		out.Result = ResultFailed
		out.Err = fmt.Errorf("%w: %w", ErrTransport, err)
		return out
	}
	out.Result = ResultOK
	return out
}

func (d *Dispatcher) saveLastCommand(ctx context.Context, kind models.CommandKind, angle float64, reason models.Reason) {
	lc := models.LastCommand{Kind: kind, Angle: angle, Reason: reason, IssuedAt: d.Clock.Now().UTC()}
	if err := d.Devices.SaveLastCommand(ctx, d.DeviceID, lc); err != nil {
		d.Log.Errorw("last_command_write_failed", "err", fmt.Errorf("%w: %w", ErrWriteFailure, err))
	}
}

// scheduleClose arms a close after delay. While draining nothing is armed;
// the returned func closes at once and must be called. It is nil otherwise.
func (d *Dispatcher) scheduleClose(delay time.Duration, reason models.Reason) (time.Time, func()) {
	closeAt := d.Clock.Now().Add(delay)
	id := xid.New().String()

	d.mu.Lock()
	d.wg.Add(1)
	if d.draining {
		d.mu.Unlock()
		return d.Clock.Now(), func() {
			defer d.wg.Done()
			d.runClose(reason)
		}
	}
	d.pending[id] = pendingClose{
		timer:  d.Clock.AfterFunc(delay, func() { d.fireClose(id) }),
		reason: reason,
	}
	d.mu.Unlock()

	d.Log.Debugw("close_scheduled", "close_id", id, "close_at", closeAt.UTC(), "reason", reason)
	return closeAt, nil
}

func (d *Dispatcher) fireClose(id string) {
	d.mu.Lock()
	pc, ok := d.pending[id]
	delete(d.pending, id)
	d.mu.Unlock()
	if !ok {
		return
	}
	defer d.wg.Done()
	d.runClose(pc.reason)
}

func (d *Dispatcher) runClose(reason models.Reason) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	d.Dispatch(ctx, models.CommandRequest{Kind: models.CommandClose, Reason: reason})
}

// PendingCloses returns the number of armed close timers.
func (d *Dispatcher) PendingCloses() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Recover re-arms the close for an open command persisted before a restart.
func (d *Dispatcher) Recover(ctx context.Context) error {
	snap, err := d.Devices.Load(ctx, d.DeviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("recover pending close: %w", err)
	}
	lc := snap.LastCommand
	if lc == nil || !lc.IsOpen() {
		return nil
	}

	remaining := d.Config.DispenseDwell() - d.Clock.Now().Sub(lc.IssuedAt)
	d.Log.Infow("recovering_open_dispenser", "issued_at", lc.IssuedAt, "remaining", remaining)
	if remaining <= 0 {
		d.Dispatch(ctx, models.CommandRequest{Kind: models.CommandClose, Reason: lc.Reason})
		return nil
	}
	if _, closeNow := d.scheduleClose(remaining, lc.Reason); closeNow != nil {
		closeNow()
	}
	return nil
}

// Shutdown fires every pending close now and waits for them to finish.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.draining = true
	armed := make(map[string]Timer, len(d.pending))
	for id, pc := range d.pending {
		armed[id] = pc.timer
	}
	d.mu.Unlock()

	for id, t := range armed {
		// A timer that already fired is finishing on its own goroutine.
		if t.Stop() {
			d.fireClose(id)
		}
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) audit(ctx context.Context, command string, out Outcome) {
	entry := models.AuditEntry{
		Timestamp: d.Clock.Now().UTC(),
		Command:   command,
		Message:   auditMessage(out),
	}
	if out.Request.Kind == models.CommandDispense {
		entry.Angle = models.Float(out.Angle)
	} else if out.Request.Kind == models.CommandClose {
		entry.Angle = models.Float(0)
	}
	if w, ok := d.Liveness.Weight(); ok {
		entry.Weight = models.Float(w)
	}
	if err := d.Audit.Append(ctx, entry); err != nil {
		d.Log.Errorw("audit_write_failed", "command", command, "err", fmt.Errorf("%w: %w", ErrWriteFailure, err))
	}
}

func (d *Dispatcher) logOutcome(command string, out Outcome) {
	kv := []interface{}{"command", command, "angle", out.Angle, "reason", out.Request.Reason}
	if out.Request.ScheduleID != "" {
		kv = append(kv, "schedule_id", out.Request.ScheduleID)
	}
	switch out.Result {
	case ResultOK:
		d.Log.Infow("dispatch_ok", kv...)
	case ResultDenied:
		d.Log.Warnw("dispatch_denied", append(kv, "err", out.Err)...)
	default:
		d.Log.Errorw("dispatch_failed", append(kv, "result", out.Result, "err", out.Err)...)
	}
}

// auditCommand names the audit entry for a dispatch.
func auditCommand(req models.CommandRequest, res Result) string {
	auto := req.Reason == models.ReasonAuto
	switch req.Kind {
	case models.CommandDispense:
		switch {
		case res == ResultDenied && auto:
			return models.AuditAutoSkipped
		case res == ResultDenied:
			return models.AuditDispenseDenied
		case auto:
			return models.AuditAutoDispense
		default:
			return models.AuditDispense
		}
	case models.CommandClose:
		if auto {
			return models.AuditAutoClose
		}
		return models.AuditClose
	case models.CommandTare:
		return models.AuditTare
	default:
		return string(req.Kind)
	}
}

func auditMessage(out Outcome) string {
	if out.Err == nil {
		return ""
	}
	if out.Result == ResultDenied {
		return "denied: " + out.Err.Error()
	}
	return "error: " + out.Err.Error()
}
