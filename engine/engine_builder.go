package engine

import (
	"time"

	"github.com/Carmen-Shannon/phoenix-go/engine/config"
	"github.com/Carmen-Shannon/phoenix-go/engine/profiler"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer"
	"github.com/Carmen-Shannon/phoenix-go/engine/selection"
	"github.com/Carmen-Shannon/phoenix-go/engine/window"
	"github.com/Carmen-Shannon/phoenix-go/engine/xr"
)

// EventDisplayBuilderOption is a functional option for configuring an EventDisplay.
// Use the With* functions to create options that are applied directly to the display instance.
type EventDisplayBuilderOption func(*display)

// WithConfiguration sets the configuration the display is built from.
//
// Parameters:
//   - cfg: the configuration, nil keeps the defaults
//
// Returns:
//   - EventDisplayBuilderOption: option function to apply
func WithConfiguration(cfg *config.Configuration) EventDisplayBuilderOption {
	return func(d *display) {
		d.cfg = cfg
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - options: profiler options such as the reporting interval
//
// Returns:
//   - EventDisplayBuilderOption: option function to apply
func WithProfiling(enabled bool, options ...profiler.ProfilerBuilderOption) EventDisplayBuilderOption {
	return func(d *display) {
		d.profilingEnabled = enabled
		d.profiler = profiler.NewProfiler(options...)
	}
}

// WithRenderFrameLimit caps the frame loop. Values <= 0 leave it uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EventDisplayBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EventDisplayBuilderOption {
	return func(d *display) {
		if fps > 0 {
			d.renderFrameLimit = time.Duration(float64(time.Second) / fps)
		}
	}
}

// WithWindow sets a custom configured window for the display to use rather than allowing
// the display to create one.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EventDisplayBuilderOption: option function to apply
func WithWindow(w window.Window) EventDisplayBuilderOption {
	return func(d *display) {
		d.win = w
	}
}

// WithHeadless renders through the headless backend without opening a window.
func WithHeadless() EventDisplayBuilderOption {
	return func(d *display) {
		d.backendType = renderer.BackendTypeHeadless
	}
}

// WithRendererOptions passes options through to the renderer.
//
// Parameters:
//   - options: renderer options, applied after the display's size and verbosity
//
// Returns:
//   - EventDisplayBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EventDisplayBuilderOption {
	return func(d *display) {
		d.rendererOptions = append(d.rendererOptions, options...)
	}
}

// WithXRPlatform links an immersive runtime. Without one every session request fails
// with xr.ErrUnsupportedSession.
func WithXRPlatform(platform xr.Platform) EventDisplayBuilderOption {
	return func(d *display) {
		d.platform = platform
	}
}

// WithInfoLogger routes selection log lines to logger.
func WithInfoLogger(logger selection.InfoLogger) EventDisplayBuilderOption {
	return func(d *display) {
		d.infoLogger = logger
	}
}

// WithVerbose enables diagnostic logging in every manager.
func WithVerbose(verbose bool) EventDisplayBuilderOption {
	return func(d *display) {
		d.verbose = verbose
	}
}
