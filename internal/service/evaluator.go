package service

import (
	"context"
	"time"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
)

// stampLayout is the minute-resolution key used for execution state.
const stampLayout = "15:04"

// CommandSink receives evaluator output. *Dispatcher implements it.
type CommandSink interface {
	Dispatch(ctx context.Context, req models.CommandRequest) Outcome
}

// ScheduleEvaluator fires each enabled schedule at most once per matching
// minute. Its execution state is owned by the goroutine calling Tick.
type ScheduleEvaluator struct {
	schedules repository.ScheduleRepo
	sink      CommandSink
	loc       *time.Location
	clock     Clock
	log       *logger.Logger

	// fired maps schedule id to the HH:MM stamp it last fired at.
	fired map[string]string
}

func NewScheduleEvaluator(schedules repository.ScheduleRepo, sink CommandSink, loc *time.Location,
	clock Clock, log *logger.Logger) *ScheduleEvaluator {
	return &ScheduleEvaluator{
		schedules: schedules,
		sink:      sink,
		loc:       loc,
		clock:     clock,
		log:       log,
		fired:     make(map[string]string),
	}
}

// Tick evaluates every schedule against now and dispatches the ones due.
// A failed store read leaves execution state untouched.
func (e *ScheduleEvaluator) Tick(ctx context.Context, now time.Time) ([]models.CommandRequest, error) {
	list, err := e.schedules.List(ctx)
	if err != nil {
		e.log.Errorw("schedule_list_failed", "err", err)
		return nil, err
	}

	stamp := now.In(e.loc).Format(stampLayout)
	due := make(map[string]struct{})
	var emitted []models.CommandRequest

	for _, s := range list {
		if !s.Enabled || s.Time() != stamp {
			continue
		}
		due[s.ID] = struct{}{}
		if e.fired[s.ID] == stamp {
			continue
		}
		e.fired[s.ID] = stamp
		emitted = append(emitted, models.CommandRequest{
			Kind:       models.CommandDispense,
			Angle:      models.Float(s.Amount),
			ScheduleID: s.ID,
			Reason:     models.ReasonAuto,
		})
	}

	for id, st := range e.fired {
		if _, ok := due[id]; !ok && st != stamp {
			delete(e.fired, id)
		}
	}

	for _, req := range emitted {
		e.log.Infow("schedule_due", "schedule_id", req.ScheduleID, "stamp", stamp)
		e.sink.Dispatch(ctx, req)
	}
	return emitted, nil
}

// Fired reports the stamp a schedule last fired at. For tests and diagnostics;
// call it from the goroutine that runs Tick.
func (e *ScheduleEvaluator) Fired(id string) (string, bool) {
	st, ok := e.fired[id]
	return st, ok
}

// Run ticks at the given interval until ctx is canceled. Ticks never overlap.
func (e *ScheduleEvaluator) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = e.Tick(ctx, e.clock.Now())
		}
	}
}
