package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GeometryBuilderOption is a functional option for configuring a Geometry.
type GeometryBuilderOption func(*Geometry)

// WithPositions sets the vertex positions.
//
// Parameters:
//   - positions: object-space vertex positions
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithPositions(positions []mgl32.Vec3) GeometryBuilderOption {
	return func(g *Geometry) {
		g.positions = positions
	}
}

// WithFlatPositions sets the vertex positions from a flat x,y,z array as stored in
// serialized buffers. Trailing components that do not form a full vertex are ignored.
//
// Parameters:
//   - flat: packed positions
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithFlatPositions(flat []float32) GeometryBuilderOption {
	return func(g *Geometry) {
		positions := make([]mgl32.Vec3, 0, len(flat)/3)
		for i := 0; i+2 < len(flat); i += 3 {
			positions = append(positions, mgl32.Vec3{flat[i], flat[i+1], flat[i+2]})
		}
		g.positions = positions
	}
}

// WithIndices sets the element indices.
//
// Parameters:
//   - indices: triangle or segment indices into the positions
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithIndices(indices []uint32) GeometryBuilderOption {
	return func(g *Geometry) {
		g.indices = indices
	}
}

// WithDrawRange sets the initial draw range.
//
// Parameters:
//   - start: first element
//   - count: element count, or DrawAll
//
// Returns:
//   - GeometryBuilderOption: option function to apply
func WithDrawRange(start, count int) GeometryBuilderOption {
	return func(g *Geometry) {
		g.drawRange = DrawRange{Start: start, Count: count}
	}
}
