package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewBoxGeometry builds an indexed box centred on the origin. Each face has its own four
// vertices so faces can be shaded flat.
//
// Parameters:
//   - width: extent along x
//   - height: extent along y
//   - depth: extent along z
//
// Returns:
//   - *Geometry: the box, 24 vertices and 36 indices
func NewBoxGeometry(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	faces := [6][4]mgl32.Vec3{
		{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}},
		{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}},
		{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}},
		{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}},
		{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}},
		{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}},
	}

	positions := make([]mgl32.Vec3, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, face := range faces {
		base := uint32(len(positions))
		positions = append(positions, face[:]...)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewGeometry(WithPositions(positions), WithIndices(indices))
}

// NewConeGeometry builds an open-ended frustum along the y axis, centred on the origin,
// with radiusTop at +height/2 and radiusBottom at -height/2. A zero radius gives a cone.
//
// Parameters:
//   - radiusTop: radius of the +y rim
//   - radiusBottom: radius of the -y rim
//   - height: length along y
//   - radialSegments: segments around the circumference, at least 3
//   - heightSegments: rings along the height, at least 1
//
// Returns:
//   - *Geometry: the side surface
func NewConeGeometry(radiusTop, radiusBottom, height float32, radialSegments, heightSegments int) *Geometry {
	radialSegments = max(radialSegments, 3)
	heightSegments = max(heightSegments, 1)

	positions := make([]mgl32.Vec3, 0, (radialSegments+1)*(heightSegments+1))
	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		radius := v*(radiusBottom-radiusTop) + radiusTop
		for x := 0; x <= radialSegments; x++ {
			u := float64(x) / float64(radialSegments)
			sin, cos := math.Sincos(u * 2 * math.Pi)
			positions = append(positions, mgl32.Vec3{
				radius * float32(sin),
				-v*height + height/2,
				radius * float32(cos),
			})
		}
	}

	row := uint32(radialSegments + 1)
	indices := make([]uint32, 0, radialSegments*heightSegments*6)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < radialSegments; x++ {
			a := uint32(y)*row + uint32(x)
			b := uint32(y+1)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x) + 1
			d := uint32(y)*row + uint32(x) + 1
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return NewGeometry(WithPositions(positions), WithIndices(indices))
}
