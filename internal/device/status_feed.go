package device

import (
	"context"
	"sync"

	"pet_feeder/internal/models"
)

// StatusFeed fans servo status updates out to waiters.
type StatusFeed struct {
	mu     sync.Mutex
	latest models.ServoStatus
	known  bool
	subs   map[int]chan models.ServoStatus
	nextID int
}

func NewStatusFeed() *StatusFeed {
	return &StatusFeed{subs: make(map[int]chan models.ServoStatus)}
}

// Publish records s as the latest status and notifies subscribers.
// Slow subscribers only ever see the newest value.
func (f *StatusFeed) Publish(s models.ServoStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = s
	f.known = true
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// Latest returns the last published status.
func (f *StatusFeed) Latest() (models.ServoStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.known
}

// Subscribe returns a channel of updates and the func that releases it.
func (f *StatusFeed) Subscribe() (<-chan models.ServoStatus, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	ch := make(chan models.ServoStatus, 1)
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (f *StatusFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// WaitIdle returns once the latest status is idle. The subscription is
// released on every return path.
func (f *StatusFeed) WaitIdle(ctx context.Context) error {
	ch, unsubscribe := f.Subscribe()
	defer unsubscribe()

	if s, ok := f.Latest(); ok && s.Status == models.ServoIdle {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-ch:
			if s.Status == models.ServoIdle {
				return nil
			}
		}
	}
}

// markMoving is called before a command goes out so that a stale idle status
// cannot satisfy the next wait.
func (f *StatusFeed) markMoving(target float64) {
	f.Publish(models.ServoStatus{Status: models.ServoMoving, TargetAngle: target})
}
