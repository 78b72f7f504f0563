package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pet_feeder/internal/device"
	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
)

func newTestScheduleService(t *testing.T, repo *fakeScheduleRepo) (*ScheduleService, *device.MockChannel) {
	t.Helper()
	ch := device.NewMockChannel(gomock.NewController(t))
	return NewScheduleService(repo, ch, newFakeClock(seven), logger.Nop()), ch
}

func TestParseTimeOfDay(t *testing.T) {
	h, m, err := ParseTimeOfDay("07:05")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 5, m)

	h, m, err = ParseTimeOfDay(" 23:59 ")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	h, m, err = ParseTimeOfDay("7:05")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{
		"", "7", "24:00", "12:60", "ab:cd", "12:5", "-1:30",
		"+7:05", "007:05", "12:+5", "12:005", " 7 :05", "12:0x",
	} {
		_, _, err := ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, ErrInvalidSchedule, "input %q", bad)
	}
}

func TestScheduleService_CreateValidatesAndSyncs(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc, ch := newTestScheduleService(t, repo)
	ctx := context.Background()

	for _, in := range []ScheduleInput{
		{Hour: 24, Minute: 0, Amount: 10},
		{Hour: 7, Minute: 60, Amount: 10},
		{Hour: 7, Minute: 0, Amount: -1},
		{Hour: 7, Minute: 0, Amount: 181},
	} {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidSchedule, "%+v", in)
	}
	assert.Empty(t, repo.items)

	ch.EXPECT().SyncSchedule(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s models.ScheduleSync) error {
		assert.Equal(t, models.SyncAdd, s.Op)
		assert.Equal(t, 7, s.Hour)
		assert.Equal(t, 90.0, s.Amount)
		assert.True(t, s.Enabled)
		assert.Equal(t, seven.UnixMilli(), s.Timestamp)
		return nil
	})
	e, err := svc.Create(ctx, ScheduleInput{Hour: 7, Minute: 0, Amount: 90, Enabled: true})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
}

func TestScheduleService_SyncFailureIsNotReturned(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc, ch := newTestScheduleService(t, repo)

	ch.EXPECT().SyncSchedule(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	_, err := svc.Create(context.Background(), ScheduleInput{Hour: 8, Minute: 30, Amount: 45, Enabled: true})
	assert.NoError(t, err)
	assert.Len(t, repo.items, 1)
}

func TestScheduleService_UpdateToggleDelete(t *testing.T) {
	repo := newFakeScheduleRepo(models.ScheduleEntry{ID: "s1", Hour: 7, Minute: 0, Amount: 90, Enabled: true})
	svc, ch := newTestScheduleService(t, repo)
	ctx := context.Background()

	var ops []string
	ch.EXPECT().SyncSchedule(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s models.ScheduleSync) error {
		ops = append(ops, s.Op)
		return nil
	}).Times(3)

	updated, err := svc.Update(ctx, "s1", ScheduleInput{Hour: 8, Minute: 15, Amount: 60, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Hour)
	assert.Equal(t, 15, updated.Minute)

	require.NoError(t, svc.SetEnabled(ctx, "s1", false))
	assert.False(t, repo.items["s1"].Enabled)

	require.NoError(t, svc.Delete(ctx, "s1"))
	assert.Empty(t, repo.items)

	assert.Equal(t, []string{models.SyncUpdate, models.SyncToggle, models.SyncDelete}, ops)
}

func TestScheduleService_NotFound(t *testing.T) {
	svc, _ := newTestScheduleService(t, newFakeScheduleRepo())
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	_, err = svc.Update(ctx, "missing", ScheduleInput{Hour: 1, Minute: 1, Amount: 1})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
	assert.ErrorIs(t, svc.SetEnabled(ctx, "missing", true), ErrScheduleNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrScheduleNotFound)
}
