package scene

import (
	"github.com/Carmen-Shannon/phoenix-go/engine/light"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// ObjectBuilderOption is a functional option for configuring an Object.
type ObjectBuilderOption func(*Object)

// WithName sets the object name.
//
// Parameters:
//   - name: the lookup label
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithName(name string) ObjectBuilderOption {
	return func(o *Object) {
		o.Name = name
	}
}

// WithGeometry attaches geometry buffers.
func WithGeometry(g *model.Geometry) ObjectBuilderOption {
	return func(o *Object) {
		o.Geometry = g
	}
}

// WithMaterial attaches a (possibly shared) material.
func WithMaterial(m material.Material) ObjectBuilderOption {
	return func(o *Object) {
		o.Material = m
	}
}

// WithLight attaches a light source to a light node.
func WithLight(l light.Light) ObjectBuilderOption {
	return func(o *Object) {
		o.Light = l
		o.Position = l.Position()
	}
}

// WithPosition sets the local position.
func WithPosition(position mgl32.Vec3) ObjectBuilderOption {
	return func(o *Object) {
		o.Position = position
	}
}

// WithScale sets a uniform local scale.
func WithScale(scale float32) ObjectBuilderOption {
	return func(o *Object) {
		o.Scale = mgl32.Vec3{scale, scale, scale}
	}
}

// WithUserData sets the attribute bag. The map is used as is.
//
// Parameters:
//   - data: provenance attributes
//
// Returns:
//   - ObjectBuilderOption: option function to apply
func WithUserData(data map[string]any) ObjectBuilderOption {
	return func(o *Object) {
		if data != nil {
			o.UserData = data
		}
	}
}

// WithChildren attaches initial children.
func WithChildren(children ...*Object) ObjectBuilderOption {
	return func(o *Object) {
		o.Add(children...)
	}
}
