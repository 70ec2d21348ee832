package fault

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/28dev-al/recovery-office-backend/internal/draft"
)

// Fault is a recorded failure: the raw error for the developer panel plus
// its classification and user-facing message.
type Fault struct {
	Err     error
	Class   Class
	Message string
	Async   bool
	At      time.Time
}

// Root is the application-wide boundary. It records every fault reported
// anywhere in the tree and keeps a rolling count within a fixed window;
// exceeding the threshold schedules a full reload after a short delay — a
// circuit breaker against render-loop storms that per-fault recovery cannot
// stop.
//
// The clock and scheduler are injected so the timing logic is testable
// without sleeping. Reports may arrive from multiple goroutines at once (a
// flow's async consumer escalates from its own goroutine), so the sliding
// window is mutex-guarded.
type Root struct {
	// Threshold faults within Window trip the breaker (default 3 in 1s).
	Threshold int
	Window    time.Duration
	// Delay before the scheduled reload fires (default 2s).
	Delay time.Duration

	// Reload forces the full restart. Injected by the host.
	Reload func()

	// Now and Schedule default to time.Now and time.AfterFunc.
	Now      func() time.Time
	Schedule func(d time.Duration, f func())

	Log zerolog.Logger

	// mu guards recent and scheduled: flows escalate async faults from
	// their consumer goroutines while the owner reports synchronously.
	mu        sync.Mutex
	recent    []time.Time
	scheduled bool
}

// NewRoot returns a Root with the standard loop-detection settings.
func NewRoot(reload func(), log zerolog.Logger) *Root {
	return &Root{
		Threshold: 3,
		Window:    time.Second,
		Delay:     2 * time.Second,
		Reload:    reload,
		Now:       time.Now,
		Schedule:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		Log:       log,
	}
}

// Report records a fault and returns true when the error-loop breaker
// tripped and a reload has been scheduled. Reporting after the breaker has
// tripped is a no-op; the reload is already on its way.
func (r *Root) Report(err error) (reloadScheduled bool) {
	now := r.Now()
	r.Log.Error().Err(err).Str("class", Classify(err).String()).Msg("root boundary caught fault")

	r.mu.Lock()
	defer r.mu.Unlock()

	// Slide the window.
	kept := r.recent[:0]
	for _, t := range r.recent {
		if now.Sub(t) <= r.Window {
			kept = append(kept, t)
		}
	}
	r.recent = append(kept, now)

	if r.scheduled || len(r.recent) < r.Threshold {
		return r.scheduled
	}

	r.scheduled = true
	r.Log.Error().Int("faults", len(r.recent)).Dur("window", r.Window).
		Msg("error loop detected, scheduling reload")
	r.Schedule(r.Delay, r.Reload)
	return true
}

// Run executes fn under the root boundary, converting a panic into a
// reported fault instead of letting it escape.
func (r *Root) Run(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			r.Report(err)
		}
	}()
	if err = fn(); err != nil {
		r.Report(err)
	}
	return err
}

// Flow is the feature-scoped boundary wrapping the booking flow. Beyond
// catching synchronous faults, it subscribes to asynchronous failures
// (failed submissions surfacing outside any call stack) for the lifetime of
// the mount and records them with the same state shape. Close tears the
// subscription down.
type Flow struct {
	store    draft.Storage
	draftKey string
	parent   *Root
	log      zerolog.Logger

	// mu guards current: the async consumer records faults from its own
	// goroutine while the flow's owner reads them.
	mu      sync.Mutex
	current *Fault
	done    chan struct{}
	closed  bool
}

// NewFlow mounts a flow boundary. Faults escalate to parent (which feeds
// the loop breaker) in addition to being held locally for display. The
// async channel may be nil when the flow has no asynchronous work.
func NewFlow(parent *Root, store draft.Storage, draftKey string, async <-chan error, log zerolog.Logger) *Flow {
	f := &Flow{
		store:    store,
		draftKey: draftKey,
		parent:   parent,
		log:      log,
		done:     make(chan struct{}),
	}
	if async != nil {
		go f.consume(async)
	}
	return f
}

// consume records asynchronous faults until the subscription is torn down.
func (f *Flow) consume(async <-chan error) {
	for {
		select {
		case err, ok := <-async:
			if !ok {
				return
			}
			if err != nil {
				f.record(err, true)
			}
		case <-f.done:
			return
		}
	}
}

// Run executes fn under the flow boundary. Panics and returned errors are
// recorded as faults; the caller sees the error but the flow holds the
// classified record for display.
func (f *Flow) Run(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			f.record(err, false)
		}
	}()
	if err = fn(); err != nil {
		f.record(err, false)
	}
	return err
}

// record stores the fault locally and escalates it to the root boundary.
func (f *Flow) record(err error, async bool) {
	class := Classify(err)
	f.mu.Lock()
	f.current = &Fault{
		Err:     err,
		Class:   class,
		Message: class.Message(),
		Async:   async,
		At:      time.Now(),
	}
	f.mu.Unlock()
	f.log.Error().Err(err).Bool("async", async).Str("class", class.String()).
		Msg("booking flow fault")
	if f.parent != nil {
		f.parent.Report(err)
	}
}

// Current returns the held fault, or nil when the flow is healthy.
func (f *Flow) Current() *Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Reset is the manual recovery action: it clears the held fault and removes
// the stored draft (a bad rehydration may be the root cause), without
// forcing a full reload.
func (f *Flow) Reset() error {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	return f.store.Remove(f.draftKey)
}

// Close tears down the async subscription. Safe to call once per mount.
func (f *Flow) Close() {
	if !f.closed {
		f.closed = true
		close(f.done)
	}
}
