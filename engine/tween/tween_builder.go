package tween

import "github.com/tanema/gween/ease"

// TweenOption is a functional option applied to a Tween during construction.
type TweenOption func(*Tween)

// WithEasing sets the easing curve. Defaults to ease.Linear.
//
// Parameters:
//   - fn: the gween easing function
//
// Returns:
//   - TweenOption: a function that applies the easing option
func WithEasing(fn ease.TweenFunc) TweenOption {
	return func(t *Tween) {
		if fn != nil {
			t.easing = fn
		}
	}
}

// WithDelay delays the start of the tween. The start value is captured after the delay.
//
// Parameters:
//   - delayMs: the delay in milliseconds
//
// Returns:
//   - TweenOption: a function that applies the delay option
func WithDelay(delayMs float32) TweenOption {
	return func(t *Tween) {
		t.delay = max(delayMs, 0)
	}
}

// WithOnStart registers a callback fired when interpolation begins.
func WithOnStart(fn func()) TweenOption {
	return func(t *Tween) {
		t.onStart = fn
	}
}

// WithOnUpdate registers a callback fired after every applied step.
func WithOnUpdate(fn func(values []float32)) TweenOption {
	return func(t *Tween) {
		t.onUpdate = fn
	}
}

// WithOnComplete registers a callback fired once when the tween reaches its end value.
func WithOnComplete(fn func()) TweenOption {
	return func(t *Tween) {
		t.onComplete = fn
	}
}
