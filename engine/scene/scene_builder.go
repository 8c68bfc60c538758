package scene

// ManagerBuilderOption is a functional option for configuring a Manager.
// Use the With* functions to create options.
type ManagerBuilderOption func(m *manager)

// WithCameraFollowingLight selects the camera-following light rig (default) or the fixed
// four light rig.
//
// Parameters:
//   - following: true for the camera-following rig
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithCameraFollowingLight(following bool) ManagerBuilderOption {
	return func(m *manager) {
		m.cameraFollowing = following
	}
}

// WithDarkBackground starts the scene with the dark theme background.
func WithDarkBackground(dark bool) ManagerBuilderOption {
	return func(m *manager) {
		m.dark = dark
	}
}

// WithIgnorePredicate replaces the predicate selecting nodes dropped from clean clones.
//
// Parameters:
//   - skip: the predicate, IsIgnorable by default
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithIgnorePredicate(skip func(*Object) bool) ManagerBuilderOption {
	return func(m *manager) {
		if skip != nil {
			m.ignorable = skip
		}
	}
}

// WithVerbose enables logging of unresolved lookups.
func WithVerbose(verbose bool) ManagerBuilderOption {
	return func(m *manager) {
		m.verbose = verbose
	}
}
