package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soundfield/trackboard/internal/core/domain"
)

// viewRecorder collects completed passes from the scheduler goroutine.
type viewRecorder struct {
	mu    sync.Mutex
	views []View
	ch    chan View
}

func newViewRecorder() *viewRecorder {
	return &viewRecorder{ch: make(chan View, 16)}
}

func (r *viewRecorder) notify(v View) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
	r.ch <- v
}

func (r *viewRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *viewRecorder) wait(t *testing.T, timeout time.Duration) View {
	t.Helper()
	select {
	case v := <-r.ch:
		return v
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a recomputation pass")
		return View{}
	}
}

func TestScheduler_CoalescesBurstIntoOnePass(t *testing.T) {
	rec := newViewRecorder()
	sched := NewScheduler(newTestEngine(), 50*time.Millisecond, rec.notify)
	sched.Start()
	defer sched.Stop()

	// A burst of mutations well inside one coalescing window.
	if err := sched.SetGenre("pop"); err != nil {
		t.Fatal(err)
	}
	if err := sched.SetYearRange(2010, 2011); err != nil {
		t.Fatal(err)
	}
	if err := sched.SetPopularityRange(0, 90); err != nil {
		t.Fatal(err)
	}

	view := rec.wait(t, time.Second)

	// Exactly one pass, computed against the latest state.
	if got := rec.count(); got != 1 {
		t.Fatalf("passes: got %d, want 1", got)
	}
	if view.Summary.Genre != "pop" || view.Summary.YearMax != 2011 || view.Summary.PopularityMax != 90 {
		t.Fatalf("pass did not observe the latest state: %+v", view.Summary)
	}

	// The intermediate states were superseded, never separately computed.
	if len(view.Tracks) != 2 {
		t.Fatalf("filtered count: got %d, want 2", len(view.Tracks))
	}
}

func TestScheduler_RejectedTransitionSchedulesNothing(t *testing.T) {
	rec := newViewRecorder()
	sched := NewScheduler(newTestEngine(), 30*time.Millisecond, rec.notify)
	sched.Start()
	defer sched.Stop()

	err := sched.SetPopularityRange(90, 10)
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	time.Sleep(120 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("rejected transition triggered %d passes", got)
	}
}

func TestScheduler_RefreshDoesNotMutateState(t *testing.T) {
	rec := newViewRecorder()
	engine := newTestEngine()
	sched := NewScheduler(engine, 20*time.Millisecond, rec.notify)
	sched.Start()
	defer sched.Stop()

	before := engine.State().Version()
	if err := sched.Refresh(); err != nil {
		t.Fatal(err)
	}
	view := rec.wait(t, time.Second)

	if view.Summary.StateVersion != before {
		t.Fatalf("refresh mutated state: version %d -> %d", before, view.Summary.StateVersion)
	}
	if len(view.Tracks) != 3 {
		t.Fatalf("refresh changed the subset: %d tracks", len(view.Tracks))
	}
}

func TestScheduler_FlushBypassesWindow(t *testing.T) {
	sched := NewScheduler(newTestEngine(), 10*time.Second, nil)
	sched.Start()
	defer sched.Stop()

	if err := sched.SetGenre("rock"); err != nil {
		t.Fatal(err)
	}
	if err := sched.Flush(); err != nil {
		t.Fatal(err)
	}

	view := sched.View()
	if view.Summary.Genre != "rock" {
		t.Fatalf("flush did not recompute: %+v", view.Summary)
	}
	if len(view.Tracks) != 1 || view.Tracks[0].ID != "3" {
		t.Fatalf("unexpected subset after flush: %+v", view.Tracks)
	}
}

func TestScheduler_ViewAvailableAfterStart(t *testing.T) {
	sched := NewScheduler(newTestEngine(), time.Second, nil)
	sched.Start()
	defer sched.Stop()

	view := sched.View()
	if view.ID == "" || len(view.Tracks) != 3 {
		t.Fatalf("initial view not computed: %+v", view.Summary)
	}
}

func TestScheduler_StopFlushesPendingPass(t *testing.T) {
	rec := newViewRecorder()
	sched := NewScheduler(newTestEngine(), 10*time.Second, rec.notify)
	sched.Start()

	if err := sched.SetGenre("pop"); err != nil {
		t.Fatal(err)
	}
	sched.Stop()

	if got := rec.count(); got != 1 {
		t.Fatalf("pending pass not flushed on stop: %d passes", got)
	}
}

func TestScheduler_CommandsAfterStop(t *testing.T) {
	sched := NewScheduler(newTestEngine(), 20*time.Millisecond, nil)
	sched.Start()
	sched.Stop()

	if err := sched.SetGenre("pop"); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}
