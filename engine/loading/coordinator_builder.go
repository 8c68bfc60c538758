package loading

// CoordinatorBuilderOption is a functional option for configuring a Coordinator via NewCoordinator.
type CoordinatorBuilderOption func(*coordinator)

// WithVerbose enables logging of ignored completions.
//
// Parameters:
//   - verbose: true to log diagnostics
//
// Returns:
//   - CoordinatorBuilderOption: a function that applies the verbose option
func WithVerbose(verbose bool) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.verbose = verbose
	}
}

// WithLoadListener pre-registers an all-loaded listener.
//
// Parameters:
//   - callback: the listener
//
// Returns:
//   - CoordinatorBuilderOption: a function that applies the listener option
func WithLoadListener(callback func()) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.loadListeners = append(c.loadListeners, callback)
	}
}

// WithProgressListener pre-registers a progress listener.
//
// Parameters:
//   - callback: the listener
//
// Returns:
//   - CoordinatorBuilderOption: a function that applies the listener option
func WithProgressListener(callback func(fraction float64)) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.progressListeners = append(c.progressListeners, callback)
	}
}
