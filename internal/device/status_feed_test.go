package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet_feeder/internal/models"
)

func TestStatusFeed_WaitIdleReturnsWhenAlreadyIdle(t *testing.T) {
	f := NewStatusFeed()
	f.Publish(models.ServoStatus{Status: models.ServoIdle})

	if err := f.WaitIdle(context.Background()); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	if n := f.Subscribers(); n != 0 {
		t.Fatalf("subscribers after return = %d, want 0", n)
	}
}

func TestStatusFeed_WaitIdleWaitsForIdle(t *testing.T) {
	f := NewStatusFeed()
	f.markMoving(90)

	done := make(chan error, 1)
	go func() { done <- f.WaitIdle(context.Background()) }()

	// wait until the waiter is subscribed
	deadline := time.Now().Add(time.Second)
	for f.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("waiter never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	f.Publish(models.ServoStatus{Status: models.ServoMoving, TargetAngle: 90})
	f.Publish(models.ServoStatus{Status: models.ServoIdle, TargetAngle: 90})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WaitIdle: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIdle did not return after idle")
	}
	if n := f.Subscribers(); n != 0 {
		t.Fatalf("subscribers after return = %d, want 0", n)
	}
}

func TestStatusFeed_WaitIdleUnsubscribesOnTimeout(t *testing.T) {
	f := NewStatusFeed()
	f.markMoving(45)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := f.WaitIdle(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if n := f.Subscribers(); n != 0 {
		t.Fatalf("subscribers after timeout = %d, want 0", n)
	}
}

func TestStatusFeed_LatestUnknownUntilPublished(t *testing.T) {
	f := NewStatusFeed()
	if _, ok := f.Latest(); ok {
		t.Fatal("expected unknown status")
	}
	f.Publish(models.ServoStatus{Status: models.ServoMoving, TargetAngle: 30})
	s, ok := f.Latest()
	if !ok || s.Status != models.ServoMoving || s.TargetAngle != 30 {
		t.Fatalf("Latest = %+v, %v", s, ok)
	}
}
