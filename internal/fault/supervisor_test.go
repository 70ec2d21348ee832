package fault

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/28dev-al/recovery-office-backend/internal/draft"
)

// newTestRoot returns a Root with an injected clock and a scheduler that
// captures scheduled calls instead of sleeping.
func newTestRoot() (*Root, *time.Time, *int) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	scheduledCount := 0

	r := NewRoot(func() {}, zerolog.Nop())
	r.Now = func() time.Time { return now }
	r.Schedule = func(d time.Duration, f func()) {
		scheduledCount++
		if d != r.Delay {
			panic("scheduled with wrong delay")
		}
	}
	return r, &now, &scheduledCount
}

func TestRoot_TwoFaultsInWindowDoNotTrip(t *testing.T) {
	r, now, scheduled := newTestRoot()

	if r.Report(errors.New("boom 1")) {
		t.Fatal("first fault must not trip the breaker")
	}
	*now = now.Add(300 * time.Millisecond)
	if r.Report(errors.New("boom 2")) {
		t.Fatal("second fault must not trip the breaker")
	}
	if *scheduled != 0 {
		t.Fatalf("reload scheduled %d times; want 0", *scheduled)
	}
}

func TestRoot_ThreeFaultsInWindowTrip(t *testing.T) {
	r, now, scheduled := newTestRoot()

	r.Report(errors.New("boom 1"))
	*now = now.Add(200 * time.Millisecond)
	r.Report(errors.New("boom 2"))
	*now = now.Add(200 * time.Millisecond)
	if !r.Report(errors.New("boom 3")) {
		t.Fatal("third fault within the window must trip the breaker")
	}
	if *scheduled != 1 {
		t.Fatalf("reload scheduled %d times; want 1", *scheduled)
	}
}

func TestRoot_SlowFaultsNeverTrip(t *testing.T) {
	r, now, scheduled := newTestRoot()

	for i := 0; i < 5; i++ {
		if r.Report(errors.New("slow boom")) {
			t.Fatal("spaced-out faults must not trip the breaker")
		}
		*now = now.Add(2 * time.Second)
	}
	if *scheduled != 0 {
		t.Fatalf("reload scheduled %d times; want 0", *scheduled)
	}
}

func TestRoot_ReportAfterTripIsNoop(t *testing.T) {
	r, _, scheduled := newTestRoot()

	for i := 0; i < 3; i++ {
		r.Report(errors.New("boom"))
	}
	if !r.Report(errors.New("boom again")) {
		t.Fatal("post-trip Report should still return true")
	}
	if *scheduled != 1 {
		t.Fatalf("reload scheduled %d times; want exactly 1", *scheduled)
	}
}

func TestRoot_ScheduledReloadFires(t *testing.T) {
	reloaded := make(chan struct{})
	r := NewRoot(func() { close(reloaded) }, zerolog.Nop())
	r.Delay = time.Millisecond

	for i := 0; i < 3; i++ {
		r.Report(errors.New("boom"))
	}

	select {
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("scheduled reload never fired")
	}
}

func TestRoot_RunConvertsPanicToFault(t *testing.T) {
	r, _, _ := newTestRoot()

	err := r.Run(func() error { panic("kaboom") })
	if err == nil {
		t.Fatal("Run must surface the recovered panic as an error")
	}
	if len(r.recent) != 1 {
		t.Fatalf("panic should be recorded once, got %d", len(r.recent))
	}
}

func TestFlow_RecordsAndEscalates(t *testing.T) {
	root, _, _ := newTestRoot()
	store := draft.NewMemoryStorage()
	f := NewFlow(root, store, draft.DefaultKey, nil, zerolog.Nop())
	defer f.Close()

	err := f.Run(func() error { return errors.New("network request failed") })
	if err == nil {
		t.Fatal("Run must return the underlying error")
	}

	cur := f.Current()
	if cur == nil {
		t.Fatal("flow should hold the fault")
	}
	if cur.Class != ClassNetwork {
		t.Fatalf("class = %s; want network", cur.Class)
	}
	if cur.Async {
		t.Fatal("synchronous fault marked async")
	}
	if len(root.recent) != 1 {
		t.Fatalf("fault not escalated to root: %d", len(root.recent))
	}
}

func TestFlow_RunRecoversPanic(t *testing.T) {
	f := NewFlow(nil, draft.NewMemoryStorage(), draft.DefaultKey, nil, zerolog.Nop())
	defer f.Close()

	err := f.Run(func() error { panic("render exploded") })
	if err == nil || f.Current() == nil {
		t.Fatalf("panic must become a held fault, err=%v cur=%v", err, f.Current())
	}
}

func TestFlow_AsyncFaultRecorded(t *testing.T) {
	root, _, _ := newTestRoot()
	async := make(chan error, 1)
	f := NewFlow(root, draft.NewMemoryStorage(), draft.DefaultKey, async, zerolog.Nop())
	defer f.Close()

	async <- errors.New("booking submission failed: 503")

	deadline := time.After(time.Second)
	for f.Current() == nil {
		select {
		case <-deadline:
			t.Fatal("async fault never recorded")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cur := f.Current()
	if !cur.Async {
		t.Fatal("async fault not marked async")
	}
	if cur.Class != ClassServiceUnavailable {
		t.Fatalf("class = %s; want service-unavailable", cur.Class)
	}
}

// A flow's async consumer escalates to the root from its own goroutine while
// the owner keeps reporting synchronously; the breaker must survive the storm
// and schedule exactly one reload. Run with -race.
func TestRoot_ConcurrentSyncAndAsyncFaults(t *testing.T) {
	var scheduled atomic.Int32
	root := NewRoot(func() {}, zerolog.Nop())
	root.Schedule = func(d time.Duration, fn func()) { scheduled.Add(1) }

	async := make(chan error)
	f := NewFlow(root, draft.NewMemoryStorage(), draft.DefaultKey, async, zerolog.Nop())
	defer f.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			async <- errors.New("booking submission failed: 503")
		}
	}()
	for i := 0; i < 200; i++ {
		root.Report(errors.New("render exploded"))
	}
	<-done

	if !root.Report(errors.New("after the storm")) {
		t.Fatal("breaker should have tripped during the storm")
	}
	if got := scheduled.Load(); got != 1 {
		t.Fatalf("reload scheduled %d times; want exactly 1", got)
	}
}

func TestFlow_ResetClearsFaultAndDraft(t *testing.T) {
	store := draft.NewMemoryStorage()
	_ = store.Set(draft.DefaultKey, `{"step":2}`)

	f := NewFlow(nil, store, draft.DefaultKey, nil, zerolog.Nop())
	defer f.Close()
	_ = f.Run(func() error { return errors.New("rehydration corrupt") })

	if f.Current() == nil {
		t.Fatal("precondition: fault held")
	}
	if err := f.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if f.Current() != nil {
		t.Fatal("Reset must clear the held fault")
	}
	if _, ok, _ := store.Get(draft.DefaultKey); ok {
		t.Fatal("Reset must remove the stored draft")
	}
}

func TestFlow_CloseStopsConsumption(t *testing.T) {
	async := make(chan error)
	f := NewFlow(nil, draft.NewMemoryStorage(), draft.DefaultKey, async, zerolog.Nop())
	f.Close()
	f.Close() // second close is safe

	// The consumer is gone; a send must not be picked up. Non-blocking send.
	select {
	case async <- errors.New("late"):
		// A racing consumer could still drain one value right around Close;
		// what matters is no panic and no recording afterwards.
	default:
	}
}
