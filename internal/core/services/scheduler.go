package services

import (
	"errors"
	"sync"
	"time"
)

// DefaultWindow is the coalescing window applied when the caller passes a
// non-positive duration.
const DefaultWindow = 200 * time.Millisecond

// ErrStopped is returned for commands submitted after Stop.
var ErrStopped = errors.New("services: scheduler stopped")

// command is one unit of work for the scheduler goroutine. A nil apply is a
// recompute-only trigger (resize, refresh). force bypasses the coalescing
// window.
type command struct {
	apply func(*Engine) error
	force bool
	reply chan error
}

// Scheduler funnels every FilterState mutation through a single goroutine
// and coalesces bursts into one recomputation pass. Mutations arriving
// within the window are applied immediately but computed once, with the
// latest state winning; intermediate states are never separately computed.
//
// Rejected transitions (invalid ranges) do not schedule a pass: the state
// did not change.
type Scheduler struct {
	engine *Engine
	window time.Duration
	notify func(View)

	cmds chan command
	done chan struct{}
	wg   sync.WaitGroup

	mu   sync.RWMutex
	view View
}

// NewScheduler wraps an engine. notify, when non-nil, receives every
// completed View on the scheduler goroutine.
func NewScheduler(engine *Engine, window time.Duration, notify func(View)) *Scheduler {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Scheduler{
		engine: engine,
		window: window,
		notify: notify,
		cmds:   make(chan command, 64),
		done:   make(chan struct{}),
	}
}

// Start computes the initial view synchronously, then launches the
// scheduling loop. View never returns a zero value after Start.
func (s *Scheduler) Start() {
	s.view = s.engine.Compute()
	s.wg.Add(1)
	go s.run()
}

// Stop flushes any pending pass and waits for the loop to exit.
func (s *Scheduler) Stop() {
	close(s.done)
	s.wg.Wait()
}

// View returns the output of the latest completed pass.
func (s *Scheduler) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetGenre applies the genre transition and schedules a pass.
func (s *Scheduler) SetGenre(genre string) error {
	return s.do(func(e *Engine) error { return e.State().SetGenre(genre) })
}

// SetYearRange applies the year-range transition and schedules a pass.
func (s *Scheduler) SetYearRange(lo, hi int) error {
	return s.do(func(e *Engine) error { return e.State().SetYearRange(lo, hi) })
}

// SetPopularityRange applies the popularity-range transition and schedules a pass.
func (s *Scheduler) SetPopularityRange(lo, hi float64) error {
	return s.do(func(e *Engine) error { return e.State().SetPopularityRange(lo, hi) })
}

// SetSelection replaces the explicit selection and schedules a pass.
func (s *Scheduler) SetSelection(ids []string) error {
	return s.do(func(e *Engine) error { e.State().SetSelection(ids); return nil })
}

// ClearSelection drops the explicit selection and schedules a pass.
func (s *Scheduler) ClearSelection() error {
	return s.do(func(e *Engine) error { e.State().ClearSelection(); return nil })
}

// Reset restores the initial state and schedules a pass.
func (s *Scheduler) Reset() error {
	return s.do(func(e *Engine) error { e.State().Reset(); return nil })
}

// Refresh schedules a pass without any state change. Viewport resizes map
// here: an idempotent re-render request that must not alter the state.
func (s *Scheduler) Refresh() error {
	return s.do(nil)
}

// Flush forces an immediate pass, bypassing the coalescing window, and
// returns once it completed. Used by one-shot callers and tests.
func (s *Scheduler) Flush() error {
	return s.submit(command{force: true, reply: make(chan error, 1)})
}

func (s *Scheduler) do(apply func(*Engine) error) error {
	return s.submit(command{apply: apply, reply: make(chan error, 1)})
}

func (s *Scheduler) submit(cmd command) error {
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrStopped
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		return ErrStopped
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	timer := time.NewTimer(s.window)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	stopTimer := func() {
		if pending && !timer.Stop() {
			<-timer.C
		}
		pending = false
	}

	for {
		select {
		case cmd := <-s.cmds:
			var err error
			if cmd.apply != nil {
				err = cmd.apply(s.engine)
			}
			if err == nil {
				if cmd.force {
					stopTimer()
					s.recompute()
				} else if !pending {
					timer.Reset(s.window)
					pending = true
				}
			}
			cmd.reply <- err

		case <-timer.C:
			pending = false
			s.recompute()

		case <-s.done:
			if pending {
				stopTimer()
				s.recompute()
			}
			return
		}
	}
}

// recompute runs one pass against the fully-applied current state. The pass
// is synchronous and fast; there is nothing to cancel.
func (s *Scheduler) recompute() {
	v := s.engine.Compute()
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	if s.notify != nil {
		s.notify(v)
	}
}
