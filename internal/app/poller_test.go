package app

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingLister struct {
	calls atomic.Int32
	err   error
}

func (c *countingLister) List(context.Context) ([]catalog.Product, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return []catalog.Product{{ID: "1", Name: "Pen"}}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestStartPoller_RefreshesStore(t *testing.T) {
	lister := &countingLister{}
	store := state.New(lister)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartPoller(ctx, store, 10*time.Millisecond, quietLogger())

	deadline := time.Now().Add(2 * time.Second)
	for lister.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d refreshes, want at least 2", lister.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := len(store.Snapshot().Products); got != 1 {
		t.Fatalf("store products = %d, want 1", got)
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := lister.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if lister.calls.Load() != stopped {
		t.Fatalf("poller kept refreshing after cancel")
	}
}

func TestStartPoller_ZeroIntervalDisabled(t *testing.T) {
	lister := &countingLister{}
	StartPoller(context.Background(), state.New(lister), 0, quietLogger())

	time.Sleep(30 * time.Millisecond)
	if got := lister.calls.Load(); got != 0 {
		t.Fatalf("refreshes = %d, want 0", got)
	}
}

func TestStartPoller_BacksOffOnFailure(t *testing.T) {
	lister := &countingLister{err: errors.New("offline")}
	store := state.New(lister)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartPoller(ctx, store, 20*time.Millisecond, quietLogger())

	// Waits grow 20ms, 40ms, 80ms, 160ms, so three attempts fit in 250ms.
	time.Sleep(250 * time.Millisecond)
	if got := lister.calls.Load(); got < 1 || got > 4 {
		t.Fatalf("refreshes = %d, want backoff to limit attempts", got)
	}
	if store.Snapshot().ConsecutiveFailures == 0 {
		t.Fatalf("failures not recorded")
	}
}
