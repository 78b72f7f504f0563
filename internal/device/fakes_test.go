package device

import (
	"context"
	"sync"

	"pet_feeder/internal/models"
)

// deviceRepoStub records writes made by channels and the simulator.
type deviceRepoStub struct {
	mu      sync.Mutex
	conns   []models.ConnectivityStatus
	weights []float64
}

func (d *deviceRepoStub) Ensure(ctx context.Context, deviceID string) error { return nil }

func (d *deviceRepoStub) Load(ctx context.Context, deviceID string) (models.DeviceSnapshot, error) {
	return models.DeviceSnapshot{DeviceID: deviceID}, nil
}

func (d *deviceRepoStub) SaveConnectivity(ctx context.Context, deviceID string, c models.ConnectivityStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns = append(d.conns, c)
	return nil
}

func (d *deviceRepoStub) MarkOffline(ctx context.Context, deviceID string, lastSeen int64) (bool, error) {
	return false, nil
}

func (d *deviceRepoStub) SaveWeight(ctx context.Context, deviceID string, grams float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.weights = append(d.weights, grams)
	return nil
}

func (d *deviceRepoStub) SaveLastCommand(ctx context.Context, deviceID string, c models.LastCommand) error {
	return nil
}
