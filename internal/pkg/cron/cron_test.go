package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRegisterIgnoresInvalidJobs(t *testing.T) {
	t.Parallel()
	s := New(nil)
	s.Register(Job{Name: "zero", Fn: func(context.Context) error { return nil }})
	s.Register(Job{Name: "nil fn", Interval: time.Minute})
	if got := len(s.List()); got != 0 {
		t.Fatalf("List() has %d jobs, want 0", got)
	}
}

func TestSchedulerRunsAndRecordsStatus(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ok, failed atomic.Int32
	s := New(nil)
	s.Register(Job{Name: "b_ok", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		ok.Add(1)
		return nil
	}})
	s.Register(Job{Name: "a_fail", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		failed.Add(1)
		return errors.New("nope")
	}})
	s.Start(ctx)

	waitFor(t, func() bool { return ok.Load() >= 2 && failed.Load() >= 1 })
	waitFor(t, func() bool {
		items := s.List()
		return items[0].Status == StatusReject && items[1].Status == StatusFulfill
	})

	items := s.List()
	if items[0].Name != "a_fail" || items[0].Message != "nope" || items[0].LastRunAt == nil {
		t.Fatalf("failed job = %+v", items[0])
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	s := New(nil)
	s.Register(Job{Name: "tick", Interval: 5 * time.Millisecond, Fn: func(context.Context) error {
		runs.Add(1)
		return nil
	}})
	s.Start(ctx)
	waitFor(t, func() bool { return runs.Load() >= 1 })
	cancel()

	time.Sleep(20 * time.Millisecond)
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != stopped {
		t.Fatalf("job kept running after cancel: %d -> %d", stopped, runs.Load())
	}
}
