package selection

import "github.com/Carmen-Shannon/phoenix-go/engine/scene"

// RaycasterBuilderOption is a functional option for configuring a Raycaster.
type RaycasterBuilderOption func(*raycaster)

// WithLineThreshold sets the pick distance for lines in world units.
func WithLineThreshold(threshold float32) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.lineThreshold = threshold
	}
}

// WithPointThreshold sets the pick distance for points in world units.
func WithPointThreshold(threshold float32) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.pointThreshold = threshold
	}
}

// WithLayers sets the layer mask a node must share to be hit.
//
// Parameters:
//   - layers: the layer mask
//
// Returns:
//   - RaycasterBuilderOption: option function to apply
func WithLayers(layers scene.Layers) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.layers = layers
	}
}
