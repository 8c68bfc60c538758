package loader

import (
	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/loading"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithCoordinator is an option builder that registers asynchronous loads with a
// loading coordinator.
//
// Parameters:
//   - c: the coordinator
//
// Returns:
//   - LoaderBuilderOption: a function that applies the coordinator option to a loader
func WithCoordinator(c loading.Coordinator) LoaderBuilderOption {
	return func(l *loader) {
		l.coordinator = c
	}
}

// WithDispatcher is an option builder that sets how results of asynchronous loads and
// file watches are handed back to the display thread. The default runs them inline.
//
// Parameters:
//   - dispatch: posts a function to the display thread
//
// Returns:
//   - LoaderBuilderOption: a function that applies the dispatcher option to a loader
func WithDispatcher(dispatch func(func())) LoaderBuilderOption {
	return func(l *loader) {
		if dispatch != nil {
			l.dispatch = dispatch
		}
	}
}

// WithDecoder is an option builder that shares an existing decode resource.
func WithDecoder(d Decoder) LoaderBuilderOption {
	return func(l *loader) {
		l.decoder = d
	}
}

// WithAsyncWorkers sets the worker count used by LoadAsync.
func WithAsyncWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		if workers > 0 {
			l.asyncWorkers = workers
		}
	}
}

// WithVerbose enables debug logging.
func WithVerbose(verbose bool) LoaderBuilderOption {
	return func(l *loader) {
		l.verbose = verbose
	}
}

// importSettings collects the per-call import options.
type importSettings struct {
	color       common.Color
	hasColor    bool
	doubleSided bool
	flat        bool
	scale       float32
	visible     *bool
	menuNode    string
}

func newImportSettings(options []ImportOption) *importSettings {
	s := &importSettings{doubleSided: true, flat: true}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ImportOption is a functional option for a single import call.
type ImportOption func(*importSettings)

// WithColor overrides the material color of every drawn object.
//
// Parameters:
//   - color: the color
//
// Returns:
//   - ImportOption: a function that applies the color option
func WithColor(color common.Color) ImportOption {
	return func(s *importSettings) {
		s.color = color
		s.hasColor = true
	}
}

// WithDoubleSided selects double sided rendering. Defaults to true; false keeps the
// side stored in the file.
func WithDoubleSided(doubleSided bool) ImportOption {
	return func(s *importSettings) {
		s.doubleSided = doubleSided
	}
}

// WithFlatShading toggles flat shading of OBJ meshes. Defaults to true.
func WithFlatShading(flat bool) ImportOption {
	return func(s *importSettings) {
		s.flat = flat
	}
}

// WithScale multiplies the root scale. Values <= 0 are ignored.
func WithScale(scale float32) ImportOption {
	return func(s *importSettings) {
		s.scale = scale
	}
}

// WithVisible sets the initial visibility when the file does not store one.
func WithVisible(visible bool) ImportOption {
	return func(s *importSettings) {
		s.visible = &visible
	}
}

// WithMenuNode places the geometry under a menu path, segments separated by " > ".
func WithMenuNode(menuNode string) ImportOption {
	return func(s *importSettings) {
		s.menuNode = menuNode
	}
}
