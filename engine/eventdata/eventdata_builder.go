package eventdata

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMinTrackMomentum is an option builder that sets the momentum magnitude below which
// tracks are not drawn.
//
// Parameters:
//   - momentum: the threshold in GeV, zero keeps every track
//
// Returns:
//   - LoaderBuilderOption: a function that applies the threshold to a loader
func WithMinTrackMomentum(momentum float64) LoaderBuilderOption {
	return func(l *loader) {
		if momentum >= 0 {
			l.minTrackMomentum = momentum
		}
	}
}

// WithVerbose enables debug logging of skipped objects and unknown types.
func WithVerbose(verbose bool) LoaderBuilderOption {
	return func(l *loader) {
		l.verbose = verbose
	}
}
