// Package tween schedules time-bounded interpolations. Tweens capture their start
// value when they begin, can be delayed, eased and chained, and are advanced by a
// Scheduler once per frame.
package tween

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween is a scheduled interpolation of one or more float components.
// Durations and delays are expressed in milliseconds.
type Tween struct {
	from  func() []float32
	to    []float32
	apply func(values []float32)

	duration float32
	delay    float32
	easing   ease.TweenFunc

	onStart    func()
	onUpdate   func(values []float32)
	onComplete func()

	next []*Tween

	tweens       []*gween.Tween
	values       []float32
	delayElapsed float32
	elapsed      float32
	started      bool
	done         bool
	cancelled    bool
}

// New creates a tween over an arbitrary number of float components.
//
// Parameters:
//   - from: called when the tween starts to capture the start values
//   - to: the end values, one per component
//   - durationMs: tween duration in milliseconds
//   - apply: receives the interpolated values on every step
//   - options: variadic TweenOption functions
//
// Returns:
//   - *Tween: the new tween, not yet scheduled
func New(from func() []float32, to []float32, durationMs float32, apply func(values []float32), options ...TweenOption) *Tween {
	t := &Tween{
		from:     from,
		to:       append([]float32(nil), to...),
		apply:    apply,
		duration: max(durationMs, 0),
		easing:   ease.Linear,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// Scalar creates a tween of a single float value.
//
// Parameters:
//   - get: returns the current value, read when the tween starts
//   - set: receives each interpolated value
//   - to: the end value
//   - durationMs: tween duration in milliseconds
//   - options: variadic TweenOption functions
//
// Returns:
//   - *Tween: the new tween
func Scalar(get func() float32, set func(float32), to float32, durationMs float32, options ...TweenOption) *Tween {
	return New(
		func() []float32 { return []float32{get()} },
		[]float32{to},
		durationMs,
		func(v []float32) { set(v[0]) },
		options...,
	)
}

// Vec3 creates a tween of a three component vector such as a camera position.
//
// Parameters:
//   - get: returns the current vector, read when the tween starts
//   - set: receives each interpolated vector
//   - to: the end vector
//   - durationMs: tween duration in milliseconds
//   - options: variadic TweenOption functions
//
// Returns:
//   - *Tween: the new tween
func Vec3(get func() mgl32.Vec3, set func(mgl32.Vec3), to mgl32.Vec3, durationMs float32, options ...TweenOption) *Tween {
	return New(
		func() []float32 { v := get(); return v[:] },
		to[:],
		durationMs,
		func(v []float32) { set(mgl32.Vec3{v[0], v[1], v[2]}) },
		options...,
	)
}

// Wait creates a tween that interpolates nothing and completes after delayMs, calling fn.
// It is used to schedule a deferred step in a Sequence or on a Scheduler.
func Wait(delayMs float32, fn func()) *Tween {
	return New(func() []float32 { return nil }, nil, 0, nil, WithDelay(delayMs), WithOnComplete(fn))
}

// Chain appends tweens that start when t completes and returns t.
func (t *Tween) Chain(next ...*Tween) *Tween {
	t.next = append(t.next, next...)
	return t
}

// Done reports whether the tween has completed.
func (t *Tween) Done() bool {
	return t.done
}

// Started reports whether the tween has begun interpolating.
func (t *Tween) Started() bool {
	return t.started
}

// Duration returns the interpolation length in milliseconds, excluding delay.
func (t *Tween) Duration() float32 {
	return t.duration
}

// Delay returns the start delay in milliseconds.
func (t *Tween) Delay() float32 {
	return t.delay
}

// Cancel stops the tween and prevents its chain from starting. The last applied value is kept.
func (t *Tween) Cancel() {
	t.cancelled = true
}

func (t *Tween) start() {
	t.started = true
	begin := t.from()
	t.values = make([]float32, len(t.to))
	t.tweens = make([]*gween.Tween, len(t.to))
	for i := range t.to {
		var b float32
		if i < len(begin) {
			b = begin[i]
		}
		t.values[i] = b
		t.tweens[i] = gween.New(b, t.to[i], t.duration, t.easing)
	}
	if t.onStart != nil {
		t.onStart()
	}
}

// advance steps the tween by dt milliseconds.
//
// Returns:
//   - float32: time left over after completion, carried into chained tweens
//   - bool: true once the tween has completed
func (t *Tween) advance(dt float32) (float32, bool) {
	if t.done {
		return dt, true
	}

	if !t.started {
		if t.delay > 0 {
			t.delayElapsed += dt
			if t.delayElapsed < t.delay {
				return 0, false
			}
			dt = t.delayElapsed - t.delay
		}
		t.start()
	}

	t.elapsed += dt
	if t.elapsed >= t.duration {
		copy(t.values, t.to)
		t.applyValues()
		t.done = true
		if t.onComplete != nil {
			t.onComplete()
		}
		return t.elapsed - t.duration, true
	}

	for i, tw := range t.tweens {
		t.values[i], _ = tw.Update(dt)
	}
	t.applyValues()
	return 0, false
}

func (t *Tween) applyValues() {
	if t.apply != nil {
		t.apply(t.values)
	}
	if t.onUpdate != nil {
		t.onUpdate(t.values)
	}
}
