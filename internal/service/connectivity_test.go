package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/telemetry"
)

func newTestMonitor(repo *fakeDeviceRepo, clock Clock) *ConnectivityMonitor {
	return NewConnectivityMonitor(repo, "feeder_001", 20*time.Second, clock, telemetry.Nop{}, logger.Nop())
}

func TestObserve_StaleOnlineIsCorrectedOnce(t *testing.T) {
	repo := &fakeDeviceRepo{}
	clock := newFakeClock(seven)
	m := newTestMonitor(repo, clock)

	raw := models.ConnectivityStatus{Online: true, LastSeen: seven.Add(-30 * time.Second).Unix(), IP: "10.0.0.7"}
	repo.snap.Connectivity = raw

	require.NoError(t, m.PollOnce(context.Background()))
	require.NoError(t, m.PollOnce(context.Background()))

	require.Len(t, repo.demoted, 1, "exactly one corrective write")
	assert.Equal(t, raw.LastSeen, repo.demoted[0])
	assert.False(t, repo.snap.Connectivity.Online)
	assert.Equal(t, raw.IP, repo.snap.Connectivity.IP)

	st, known := m.Current()
	assert.True(t, known)
	assert.False(t, st.Online)
}

func TestObserve_FreshOnlineStaysOnline(t *testing.T) {
	repo := &fakeDeviceRepo{}
	m := newTestMonitor(repo, newFakeClock(seven))

	got := m.Observe(context.Background(), models.ConnectivityStatus{Online: true, LastSeen: seven.Add(-20 * time.Second).Unix()})
	assert.True(t, got.Online, "exactly at the threshold is still online")
	assert.Empty(t, repo.demoted)
}

func TestObserve_OfflineRecordNeedsNoCorrection(t *testing.T) {
	repo := &fakeDeviceRepo{}
	m := newTestMonitor(repo, newFakeClock(seven))

	got := m.Observe(context.Background(), models.ConnectivityStatus{Online: false, LastSeen: seven.Add(-time.Hour).Unix()})
	assert.False(t, got.Online)
	assert.Empty(t, repo.demoted)
}

func TestObserve_FailedCorrectionKeepsDerivedOffline(t *testing.T) {
	repo := &fakeDeviceRepo{connErr: errors.New("disk full")}
	m := newTestMonitor(repo, newFakeClock(seven))

	got := m.Observe(context.Background(), models.ConnectivityStatus{Online: true, LastSeen: seven.Add(-time.Minute).Unix()})
	assert.False(t, got.Online)
	assert.Len(t, repo.demoted, 1)
}

func TestObserve_CorrectionDoesNotClobberNewerHeartbeat(t *testing.T) {
	repo := &fakeDeviceRepo{}
	m := newTestMonitor(repo, newFakeClock(seven))

	stale := models.ConnectivityStatus{Online: true, LastSeen: seven.Add(-time.Minute).Unix()}
	// the device reported again between the read and the correction
	fresh := models.ConnectivityStatus{Online: true, LastSeen: seven.Unix(), IP: "10.0.0.7"}
	repo.snap.Connectivity = fresh

	got := m.Observe(context.Background(), stale)
	assert.False(t, got.Online, "the observed record is still stale")
	assert.Equal(t, []int64{stale.LastSeen}, repo.demoted)
	assert.Equal(t, fresh, repo.snap.Connectivity, "newer heartbeat must survive")

	require.NoError(t, m.PollOnce(context.Background()))
	st, known := m.Current()
	assert.True(t, known)
	assert.True(t, st.Online)
}

func TestPollOnce_ReadFailureMakesStatusUnknown(t *testing.T) {
	repo := &fakeDeviceRepo{}
	repo.snap.Connectivity = models.ConnectivityStatus{Online: true, LastSeen: seven.Unix()}
	repo.snap.CurrentWeight = 7
	m := newTestMonitor(repo, newFakeClock(seven))

	_, known := m.Current()
	assert.False(t, known, "unknown before the first read")

	require.NoError(t, m.PollOnce(context.Background()))
	st, known := m.Current()
	assert.True(t, known)
	assert.True(t, st.Online)
	w, wk := m.Weight()
	assert.True(t, wk)
	assert.Equal(t, 7.0, w)

	repo.loadErr = errors.New("store unreachable")
	assert.Error(t, m.PollOnce(context.Background()))
	_, known = m.Current()
	assert.False(t, known)
	_, wk = m.Weight()
	assert.False(t, wk)
}
