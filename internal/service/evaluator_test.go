package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
)

// sinkRecorder collects dispatched requests.
type sinkRecorder struct {
	mu   sync.Mutex
	reqs []models.CommandRequest
}

func (s *sinkRecorder) Dispatch(ctx context.Context, req models.CommandRequest) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return Outcome{Request: req, Result: ResultOK}
}

func newTestEvaluator(repo *fakeScheduleRepo, sink CommandSink, loc *time.Location) *ScheduleEvaluator {
	return NewScheduleEvaluator(repo, sink, loc, newFakeClock(seven), logger.Nop())
}

func TestTick_FiresOncePerMatchingMinute(t *testing.T) {
	repo := newFakeScheduleRepo(models.ScheduleEntry{ID: "s1", Hour: 7, Minute: 0, Amount: 90, Enabled: true})
	sink := &sinkRecorder{}
	e := newTestEvaluator(repo, sink, time.UTC)
	ctx := context.Background()

	got, err := e.Tick(ctx, seven)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CommandRequest{
		Kind: models.CommandDispense, Angle: models.Float(90), ScheduleID: "s1", Reason: models.ReasonAuto,
	}, got[0])

	for _, at := range []time.Duration{5 * time.Second, 30 * time.Second, 59 * time.Second} {
		again, err := e.Tick(ctx, seven.Add(at))
		require.NoError(t, err)
		assert.Empty(t, again, "re-tick at +%v must not refire", at)
	}
	assert.Len(t, sink.reqs, 1)

	stamp, ok := e.Fired("s1")
	assert.True(t, ok)
	assert.Equal(t, "07:00", stamp)
}

func TestTick_DisabledNeverFires(t *testing.T) {
	repo := newFakeScheduleRepo(models.ScheduleEntry{ID: "s1", Hour: 7, Minute: 0, Amount: 90, Enabled: false})
	sink := &sinkRecorder{}
	e := newTestEvaluator(repo, sink, time.UTC)

	got, err := e.Tick(context.Background(), seven)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, sink.reqs)
	_, ok := e.Fired("s1")
	assert.False(t, ok)
}

func TestTick_PrunesAndRefiresNextDay(t *testing.T) {
	repo := newFakeScheduleRepo(models.ScheduleEntry{ID: "s1", Hour: 7, Minute: 0, Amount: 45, Enabled: true})
	sink := &sinkRecorder{}
	e := newTestEvaluator(repo, sink, time.UTC)
	ctx := context.Background()

	_, _ = e.Tick(ctx, seven)
	_, _ = e.Tick(ctx, seven.Add(time.Minute))
	_, ok := e.Fired("s1")
	assert.False(t, ok, "state is pruned once the minute passes")

	got, err := e.Tick(ctx, seven.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Len(t, sink.reqs, 2)
}

func TestTick_ListFailureKeepsState(t *testing.T) {
	repo := newFakeScheduleRepo(models.ScheduleEntry{ID: "s1", Hour: 7, Minute: 0, Amount: 45, Enabled: true})
	sink := &sinkRecorder{}
	e := newTestEvaluator(repo, sink, time.UTC)
	ctx := context.Background()

	_, _ = e.Tick(ctx, seven)

	repo.listErr = errors.New("store down")
	_, err := e.Tick(ctx, seven.Add(time.Minute))
	assert.Error(t, err)
	stamp, ok := e.Fired("s1")
	assert.True(t, ok)
	assert.Equal(t, "07:00", stamp)

	repo.listErr = nil
	got, err := e.Tick(ctx, seven.Add(10*time.Second))
	require.NoError(t, err)
	assert.Empty(t, got, "recovered store within the same minute still does not refire")
}

func TestTick_UsesConfiguredTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	repo := newFakeScheduleRepo(models.ScheduleEntry{ID: "s1", Hour: 9, Minute: 0, Amount: 30, Enabled: true})
	sink := &sinkRecorder{}
	e := newTestEvaluator(repo, sink, loc)

	// 07:00 UTC is 09:00 local
	got, err := e.Tick(context.Background(), seven)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTick_MultipleSchedulesSameMinute(t *testing.T) {
	repo := newFakeScheduleRepo(
		models.ScheduleEntry{ID: "a", Hour: 7, Minute: 0, Amount: 30, Enabled: true},
		models.ScheduleEntry{ID: "b", Hour: 7, Minute: 0, Amount: 60, Enabled: true},
		models.ScheduleEntry{ID: "c", Hour: 12, Minute: 30, Amount: 60, Enabled: true},
	)
	sink := &sinkRecorder{}
	e := newTestEvaluator(repo, sink, time.UTC)

	got, err := e.Tick(context.Background(), seven)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, sink.reqs, 2)
}
