package orchestrator_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-contentschema/pkg/orchestrator"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var runs atomic.Int32
	d := orchestrator.NewDebouncer(30*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	defer d.Stop()

	for range 5 {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	waitFor(t, func() bool { return runs.Load() == 1 })
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected a single run, got %d", got)
	}
}

func TestDebouncer_TriggerCancelsInFlightRun(t *testing.T) {
	var (
		started   atomic.Int32
		cancelled atomic.Int32
		completed atomic.Int32
		active    atomic.Int32
		overlap   atomic.Bool
	)
	d := orchestrator.NewDebouncer(10*time.Millisecond, func(ctx context.Context) {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		defer active.Add(-1)

		n := started.Add(1)
		if n == 1 {
			<-ctx.Done()
			cancelled.Add(1)
			return
		}
		completed.Add(1)
	})
	defer d.Stop()

	d.Trigger()
	waitFor(t, func() bool { return started.Load() == 1 })
	d.Trigger()
	waitFor(t, func() bool { return completed.Load() == 1 })

	if cancelled.Load() != 1 {
		t.Fatalf("expected the first run to be cancelled")
	}
	if overlap.Load() {
		t.Fatalf("runs overlapped")
	}
}

func TestDebouncer_StopCancelsAndIgnoresTriggers(t *testing.T) {
	var runs atomic.Int32
	d := orchestrator.NewDebouncer(20*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(50 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("expected no runs after Stop, got %d", got)
	}
}

func TestOrchestrator_Debounce(t *testing.T) {
	src, out := sourceTree(t), t.TempDir()
	o := newOrchestrator()

	results := make(chan orchestrator.Result, 4)
	d := o.Debounce(10*time.Millisecond, orchestrator.Request{SourceDir: src, OutputDir: out}, func(result orchestrator.Result, err error) {
		if err != nil {
			t.Errorf("run: %v", err)
		}
		results <- result
	})
	defer d.Stop()

	d.Trigger()
	d.Trigger()

	select {
	case result := <-results:
		if !result.Committed || result.Schema.TotalFields != 3 {
			t.Fatalf("unexpected result %+v", result)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced run did not complete")
	}
}
