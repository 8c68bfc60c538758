package selection

import "github.com/Carmen-Shannon/phoenix-go/engine/active"

// ManagerBuilderOption is a functional option for configuring a selection Manager.
type ManagerBuilderOption func(*manager)

// WithRaycaster replaces the default raycaster.
func WithRaycaster(r Raycaster) ManagerBuilderOption {
	return func(m *manager) {
		m.raycaster = r
	}
}

// WithInfoLogger sets where selection messages are recorded.
//
// Parameters:
//   - logger: the logger receiving "Selected" and "Deselected" entries
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithInfoLogger(logger InfoLogger) ManagerBuilderOption {
	return func(m *manager) {
		m.logger = logger
	}
}

// WithActiveObject publishes selections on an existing channel.
func WithActiveObject(v active.Variable[string]) ManagerBuilderOption {
	return func(m *manager) {
		m.activeObject = v
	}
}

// WithClickTolerance sets the pointer travel in pixels still treated as a click.
func WithClickTolerance(pixels float32) ManagerBuilderOption {
	return func(m *manager) {
		m.tolerance = pixels
	}
}

// WithSelecting starts the manager with pointer handling attached.
func WithSelecting(enabled bool) ManagerBuilderOption {
	return func(m *manager) {
		m.selecting = enabled
	}
}

// WithVerbose enables debug logging of selection changes.
func WithVerbose(verbose bool) ManagerBuilderOption {
	return func(m *manager) {
		m.verbose = verbose
	}
}
