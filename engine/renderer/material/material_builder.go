package material

import (
	"github.com/Carmen-Shannon/phoenix-go/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the diffuse color of the material.
//
// Parameters:
//   - color: the color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithOpacity is an option builder that sets the opacity. Opacity below one also marks
// the material transparent.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
		if m.opacity < 1 {
			m.transparent = true
		}
	}
}

// WithTransparent is an option builder that enables blending.
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = transparent
	}
}

// WithSide is an option builder that sets the rasterized faces.
func WithSide(side Side) MaterialBuilderOption {
	return func(m *material) {
		m.side = side
	}
}

// WithFlatShading is an option builder that enables per-face normals.
func WithFlatShading(flat bool) MaterialBuilderOption {
	return func(m *material) {
		m.flatShading = flat
	}
}

// WithShininess is an option builder that sets the specular exponent.
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}

// WithWireframe is an option builder that enables wireframe drawing.
func WithWireframe(wireframe bool) MaterialBuilderOption {
	return func(m *material) {
		m.wireframe = wireframe
	}
}

// WithClippingPlanes is an option builder that attaches a shared clipping plane set.
//
// Parameters:
//   - planes: the planes, shared by pointer
//   - intersection: true to clip only the intersection of the half-spaces
//
// Returns:
//   - MaterialBuilderOption: a function that applies the clipping option to a material
func WithClippingPlanes(planes []*common.Plane, intersection bool) MaterialBuilderOption {
	return func(m *material) {
		m.clippingPlanes = planes
		m.clipIntersection = intersection
	}
}

// WithDepthTest is an option builder that sets depth testing.
func WithDepthTest(depthTest bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthTest = depthTest
	}
}
