package xr

// ManagerBuilderOption is a functional option for configuring a Manager via NewManager.
type ManagerBuilderOption func(*manager)

// WithLoopSwitch sets the function that swaps the display between the standard frame
// loop and the immersive one.
//
// Parameters:
//   - loopSwitch: called with true when a session starts and false when it ends
//
// Returns:
//   - ManagerBuilderOption: a function that applies the loop switch to a manager
func WithLoopSwitch(loopSwitch func(immersive bool)) ManagerBuilderOption {
	return func(m *manager) {
		if loopSwitch != nil {
			m.loopSwitch = loopSwitch
		}
	}
}

// WithDispatcher routes platform end callbacks through dispatch so the rig is torn down
// on the display goroutine. Defaults to running them inline.
func WithDispatcher(dispatch func(func())) ManagerBuilderOption {
	return func(m *manager) {
		if dispatch != nil {
			m.dispatch = dispatch
		}
	}
}

// WithVerbose enables debug logging of session changes.
func WithVerbose(verbose bool) ManagerBuilderOption {
	return func(m *manager) {
		m.verbose = verbose
	}
}
