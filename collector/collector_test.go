package collector

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingTarget struct {
	calls atomic.Int32
	err   error
}

func (c *countingTarget) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestStartRefreshesImmediately(t *testing.T) {
	target := &countingTarget{}
	r := NewRefresher(target, time.Hour)
	stop := r.Start(context.Background())
	defer stop()

	if got := target.calls.Load(); got != 1 {
		t.Fatalf("calls after Start = %d, want 1", got)
	}
	if runs, errs := r.Stats(); runs != 1 || errs != 0 {
		t.Errorf("stats = %d runs, %d errors", runs, errs)
	}
}

func TestRefreshRepeatsOnInterval(t *testing.T) {
	target := &countingTarget{}
	r := NewRefresher(target, time.Second)
	stop := r.Start(context.Background())
	defer stop()

	deadline := time.Now().Add(5 * time.Second)
	for target.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("no scheduled refresh after %v", 5*time.Second)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestFailuresAreCounted(t *testing.T) {
	target := &countingTarget{err: errors.New("upstream down")}
	r := NewRefresher(target, time.Hour)
	stop := r.Start(context.Background())
	stop()

	if runs, errs := r.Stats(); runs != 1 || errs != 1 {
		t.Errorf("stats = %d runs, %d errors, want 1 and 1", runs, errs)
	}
}

func TestDefaultInterval(t *testing.T) {
	if got := NewRefresher(&countingTarget{}, 0).Interval(); got != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", got)
	}
}
