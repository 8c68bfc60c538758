package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewSphereGeometry builds an indexed UV sphere centred on the origin with
// (widthSegments+1)*(heightSegments+1) vertices. The pole rows carry one triangle per
// segment instead of two.
//
// Parameters:
//   - radius: the sphere radius
//   - widthSegments: segments around the equator, at least 3
//   - heightSegments: segments from pole to pole, at least 2
//
// Returns:
//   - *Geometry: the sphere
func NewSphereGeometry(radius float32, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	positions := make([]mgl32.Vec3, 0, (widthSegments+1)*(heightSegments+1))
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		sinTheta, cosTheta := math.Sincos(v * math.Pi)
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			sinPhi, cosPhi := math.Sincos(u * 2 * math.Pi)
			positions = append(positions, mgl32.Vec3{
				float32(-cosPhi * sinTheta),
				float32(cosTheta),
				float32(sinPhi * sinTheta),
			}.Mul(radius))
		}
	}

	row := uint32(widthSegments + 1)
	var indices []uint32
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				indices = append(indices, a, b, d)
			}
			if y != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return NewGeometry(WithPositions(positions), WithIndices(indices))
}
