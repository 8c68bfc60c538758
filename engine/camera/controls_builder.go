package camera

import (
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

type controlsConfig struct {
	position  mgl32.Vec3
	target    mgl32.Vec3
	width     float32
	height    float32
	scheduler tween.Scheduler
	verbose   bool
}

// ControlsBuilderOption is a functional option for configuring Controls.
type ControlsBuilderOption func(*controlsConfig)

// WithDefaultView sets the initial camera position and target of both pairs.
//
// Parameters:
//   - position: the camera position
//   - target: the orbit target
//
// Returns:
//   - ControlsBuilderOption: option function to apply
func WithDefaultView(position, target mgl32.Vec3) ControlsBuilderOption {
	return func(c *controlsConfig) {
		c.position = position
		c.target = target
	}
}

// WithViewportSize sets the initial viewport size of both cameras.
func WithViewportSize(width, height float32) ControlsBuilderOption {
	return func(c *controlsConfig) {
		c.width = width
		c.height = height
	}
}

// WithScheduler sets the tween scheduler used by ZoomTo and LookAt.
//
// Parameters:
//   - s: the scheduler advanced by the frame loop
//
// Returns:
//   - ControlsBuilderOption: option function to apply
func WithScheduler(s tween.Scheduler) ControlsBuilderOption {
	return func(c *controlsConfig) {
		c.scheduler = s
	}
}

// WithControlsVerbose enables logging of unresolved lookups.
func WithControlsVerbose(verbose bool) ControlsBuilderOption {
	return func(c *controlsConfig) {
		c.verbose = verbose
	}
}
