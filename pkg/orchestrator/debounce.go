package orchestrator

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounceWindow is the quiet period used by the file watching
// collaborators of the CLI.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single call of run. Every
// trigger restarts the quiet window and cancels a run that is still in
// flight, so the last trigger wins. Runs never overlap: a new run waits for
// its cancelled predecessor to return.
type Debouncer struct {
	window time.Duration
	run    func(ctx context.Context)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	cancel  context.CancelFunc
	stopped bool

	running sync.Mutex
	wg      sync.WaitGroup
}

// NewDebouncer returns a Debouncer calling run once the triggers have been
// quiet for window.
func NewDebouncer(window time.Duration, run func(ctx context.Context)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window, run: run}
}

// Trigger schedules a run after the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.seq++
	if d.cancel != nil {
		d.cancel()
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	defer cancel()

	d.running.Lock()
	defer d.running.Unlock()
	if ctx.Err() == nil {
		d.run(ctx)
	}
}

// Stop cancels any pending or in-flight run and waits for it to return.
// Triggers after Stop are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Debounce returns a Debouncer running req through o on every quiet period
// and handing each outcome to onResult.
func (o *Orchestrator) Debounce(window time.Duration, req Request, onResult func(Result, error)) *Debouncer {
	return NewDebouncer(window, func(ctx context.Context) {
		result, err := o.Run(ctx, req)
		if ctx.Err() != nil {
			o.logger.Debug("run superseded", "source", req.SourceDir)
			return
		}
		if onResult != nil {
			onResult(result, err)
		}
	})
}
