package tween

import (
	"sync"
)

// scheduler is the implementation of the Scheduler interface.
type scheduler struct {
	mu *sync.Mutex

	active   []*Tween
	incoming []*Tween
	clock    float32
}

// Scheduler advances scheduled tweens. Tweens added while an update is running start
// on the following update. When a tween completes mid-step the remaining time is
// carried into its chained tweens so sequences keep exact total durations.
type Scheduler interface {
	// Add schedules tweens to start on the next Update.
	//
	// Parameters:
	//   - tweens: the tweens to schedule
	Add(tweens ...*Tween)

	// Update advances every active tween by dt milliseconds, starting chained tweens on completion.
	//
	// Parameters:
	//   - dtMs: elapsed time in milliseconds
	Update(dtMs float32)

	// Active returns the number of tweens still running or waiting on a delay.
	//
	// Returns:
	//   - int: the active tween count
	Active() int

	// Clear drops all scheduled tweens without completing them.
	Clear()

	// Clock returns the total time advanced through Update in milliseconds.
	//
	// Returns:
	//   - float32: the scheduler clock
	Clock() float32
}

var _ Scheduler = &scheduler{}

// NewScheduler creates an empty Scheduler.
//
// Returns:
//   - Scheduler: the new scheduler
func NewScheduler() Scheduler {
	return &scheduler{
		mu: &sync.Mutex{},
	}
}

// Sequence chains steps so each starts when the previous completes and returns the first
// step, or nil when no steps are given.
//
// Parameters:
//   - steps: the ordered animation steps
//
// Returns:
//   - *Tween: the head of the sequence
func Sequence(steps ...*Tween) *Tween {
	if len(steps) == 0 {
		return nil
	}
	for i := 0; i < len(steps)-1; i++ {
		steps[i].Chain(steps[i+1])
	}
	return steps[0]
}

// TotalDuration returns the length of the longest path through t and its chain,
// including delays.
//
// Parameters:
//   - t: the head tween
//
// Returns:
//   - float32: total duration in milliseconds
func TotalDuration(t *Tween) float32 {
	if t == nil {
		return 0
	}
	var longest float32
	for _, n := range t.next {
		longest = max(longest, TotalDuration(n))
	}
	return t.delay + t.duration + longest
}

func (s *scheduler) Add(tweens ...*Tween) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tweens {
		if t != nil {
			s.incoming = append(s.incoming, t)
		}
	}
}

type step struct {
	tween *Tween
	dt    float32
}

func (s *scheduler) Update(dtMs float32) {
	s.mu.Lock()
	s.clock += dtMs
	work := make([]step, 0, len(s.active)+len(s.incoming))
	for _, t := range s.active {
		work = append(work, step{tween: t, dt: dtMs})
	}
	for _, t := range s.incoming {
		work = append(work, step{tween: t, dt: dtMs})
	}
	s.active = nil
	s.incoming = nil
	s.mu.Unlock()

	// Callbacks run without the lock so they may schedule further tweens.
	var still []*Tween
	for len(work) > 0 {
		w := work[0]
		work = work[1:]
		if w.tween.cancelled {
			continue
		}
		remaining, done := w.tween.advance(w.dt)
		if !done {
			still = append(still, w.tween)
			continue
		}
		if w.tween.cancelled {
			continue
		}
		for _, n := range w.tween.next {
			work = append(work, step{tween: n, dt: remaining})
		}
	}

	s.mu.Lock()
	s.active = append(still, s.active...)
	s.mu.Unlock()
}

func (s *scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) + len(s.incoming)
}

func (s *scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	s.incoming = nil
}

func (s *scheduler) Clock() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}
