package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pet_feeder/internal/models"
	"pet_feeder/internal/repository"
)

func newTestFeeder(t *testing.T) (*FeederService, *dispatchFixture) {
	t.Helper()
	cfg := testFeederConfig()
	cfg.WaitForIdle = false
	f := newDispatchFixture(t, cfg)
	return NewFeederService("feeder_001", cfg.MaxBowlWeight, f.d, f.live, f.devices), f
}

func TestFeederService_State(t *testing.T) {
	svc, f := newTestFeeder(t)
	f.devices.snap = models.DeviceSnapshot{
		DeviceID:      "feeder_001",
		Connectivity:  models.ConnectivityStatus{Online: true, LastSeen: seven.Unix() - 60},
		CurrentWeight: 3,
	}

	st, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.False(t, st.ConnectivityKnown)
	assert.True(t, st.CanDispense, "unknown liveness does not block")

	f.live.known = true
	f.live.status = models.ConnectivityStatus{Online: false, LastSeen: seven.Unix() - 60}
	f.live.weight, f.live.weightKnown = 21, true

	st, err = svc.State(context.Background())
	require.NoError(t, err)
	assert.True(t, st.ConnectivityKnown)
	assert.False(t, st.Connectivity.Online)
	assert.Equal(t, 21.0, st.CurrentWeight)
	assert.Equal(t, 20.0, st.MaxWeight)
	assert.False(t, st.CanDispense)
}

func TestFeederService_StateMissingDevice(t *testing.T) {
	svc, f := newTestFeeder(t)
	f.devices.loadErr = repository.ErrNotFound

	st, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feeder_001", st.DeviceID)

	f.devices.loadErr = errors.New("db locked")
	_, err = svc.State(context.Background())
	assert.Error(t, err)
}

func TestFeederService_ManualCommands(t *testing.T) {
	svc, f := newTestFeeder(t)
	ctx := context.Background()

	f.ch.EXPECT().SetAngle(gomock.Any(), 45.0).Return(nil)
	out, err := svc.Dispense(ctx, models.Float(45))
	require.NoError(t, err)
	assert.Equal(t, ResultOK, out.Result)
	assert.False(t, out.CloseAt.IsZero())

	f.ch.EXPECT().SetAngle(gomock.Any(), 0.0).Return(nil)
	_, err = svc.Close(ctx)
	require.NoError(t, err)

	f.ch.EXPECT().Tare(gomock.Any()).Return(nil)
	_, err = svc.Tare(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{models.AuditDispense, models.AuditClose, models.AuditTare}, f.audit.commands())

	f.live.known = true
	_, err = svc.Dispense(ctx, nil)
	assert.ErrorIs(t, err, ErrDeviceOffline)
}
