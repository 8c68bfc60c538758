package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Tube defaults used for track rendering.
const (
	DefaultTubeRadius          float32 = 2
	DefaultTubeTubularSegments         = 64
	DefaultTubeRadialSegments          = 8
)

// NewTubeGeometry sweeps a circle of the given radius along path. The path is resampled
// into tubularSegments equal-length pieces; each ring has radialSegments+1 vertices (the
// seam is duplicated) and every quad between rings contributes six indices.
//
// Parameters:
//   - path: the centre line, at least two points
//   - radius: the tube radius
//   - tubularSegments: number of segments along the path
//   - radialSegments: number of segments around the circumference
//
// Returns:
//   - *Geometry: an indexed GeometryTube, or an empty tube when the path is degenerate
func NewTubeGeometry(path []mgl32.Vec3, radius float32, tubularSegments, radialSegments int) *Geometry {
	g := NewGeometry()
	g.kind = GeometryTube
	g.tubePath = append([]mgl32.Vec3(nil), path...)
	g.tubeRadius = radius
	if len(path) < 2 || tubularSegments < 1 || radialSegments < 3 {
		return g
	}

	centres, tangents := resamplePath(path, tubularSegments)
	normals, binormals := parallelTransportFrames(tangents)

	positions := make([]mgl32.Vec3, 0, (tubularSegments+1)*(radialSegments+1))
	for i := range centres {
		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * 2 * math.Pi
			sin, cos := math.Sincos(v)
			dir := normals[i].Mul(float32(-cos)).Add(binormals[i].Mul(float32(sin)))
			positions = append(positions, centres[i].Add(dir.Mul(radius)))
		}
	}

	indices := make([]uint32, 0, tubularSegments*radialSegments*6)
	ring := uint32(radialSegments + 1)
	for j := 1; j <= tubularSegments; j++ {
		for i := 1; i <= radialSegments; i++ {
			a := ring*uint32(j-1) + uint32(i-1)
			b := ring*uint32(j) + uint32(i-1)
			c := ring*uint32(j) + uint32(i)
			d := ring*uint32(j-1) + uint32(i)
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	g.positions = positions
	g.indices = indices
	return g
}

// resamplePath returns segments+1 points evenly spaced by arc length along the polyline,
// with the tangent at each.
func resamplePath(path []mgl32.Vec3, segments int) ([]mgl32.Vec3, []mgl32.Vec3) {
	cumulative := make([]float32, len(path))
	for i := 1; i < len(path); i++ {
		cumulative[i] = cumulative[i-1] + path[i].Sub(path[i-1]).Len()
	}
	total := cumulative[len(cumulative)-1]

	centres := make([]mgl32.Vec3, segments+1)
	tangents := make([]mgl32.Vec3, segments+1)
	seg := 1
	for i := 0; i <= segments; i++ {
		target := total * float32(i) / float32(segments)
		for seg < len(path)-1 && cumulative[seg] < target {
			seg++
		}
		a, b := path[seg-1], path[seg]
		span := cumulative[seg] - cumulative[seg-1]
		t := float32(0)
		if span > 0 {
			t = (target - cumulative[seg-1]) / span
		}
		centres[i] = a.Add(b.Sub(a).Mul(t))
		tangent := b.Sub(a)
		if tangent.Len() == 0 {
			tangent = mgl32.Vec3{0, 0, 1}
		}
		tangents[i] = tangent.Normalize()
	}
	return centres, tangents
}

// parallelTransportFrames computes a rotation-minimizing normal and binormal per tangent.
func parallelTransportFrames(tangents []mgl32.Vec3) ([]mgl32.Vec3, []mgl32.Vec3) {
	normals := make([]mgl32.Vec3, len(tangents))
	binormals := make([]mgl32.Vec3, len(tangents))

	// Seed the first normal with the axis least aligned with the tangent.
	t0 := tangents[0]
	seed := mgl32.Vec3{1, 0, 0}
	smallest := float32(math.Abs(float64(t0.X())))
	if ay := float32(math.Abs(float64(t0.Y()))); ay < smallest {
		smallest = ay
		seed = mgl32.Vec3{0, 1, 0}
	}
	if az := float32(math.Abs(float64(t0.Z()))); az < smallest {
		seed = mgl32.Vec3{0, 0, 1}
	}
	normals[0] = t0.Cross(t0.Cross(seed).Normalize()).Normalize()
	binormals[0] = t0.Cross(normals[0])

	for i := 1; i < len(tangents); i++ {
		normals[i] = normals[i-1]
		axis := tangents[i-1].Cross(tangents[i])
		if axis.Len() > 1e-6 {
			cos := mgl32.Clamp(tangents[i-1].Dot(tangents[i]), -1, 1)
			angle := float32(math.Acos(float64(cos)))
			normals[i] = mgl32.QuatRotate(angle, axis.Normalize()).Rotate(normals[i])
		}
		binormals[i] = tangents[i].Cross(normals[i])
	}
	return normals, binormals
}
