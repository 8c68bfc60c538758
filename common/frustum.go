package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n·p + c = 0
// where n is the unit normal and c is the signed distance from the origin.
// Points with n·p + c >= 0 lie in the positive (kept) half-space.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

// NewPlane creates a plane from a normal and constant. The normal is normalized.
func NewPlane(normal mgl32.Vec3, constant float32) *Plane {
	p := &Plane{Normal: normal, Constant: constant}
	p.normalize()
	return p
}

// DistanceToPoint returns the signed distance from the plane to p.
func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Constant
}

// Set overwrites the plane in place, keeping the pointer identity intact for consumers
// that share this plane.
func (p *Plane) Set(normal mgl32.Vec3, constant float32) {
	p.Normal = normal
	p.Constant = constant
	p.normalize()
}

func (p *Plane) normalize() {
	length := p.Normal.Len()
	if length > 0 {
		inv := 1 / length
		p.Normal = p.Normal.Mul(inv)
		p.Constant *= inv
	}
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix
// using the Gribb/Hartmann method. The matrix is expected in the OpenGL clip
// convention produced by mgl32.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	var f Frustum

	row := func(i int) mgl32.Vec4 { return viewProj.Row(i) }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	set := func(index int, v mgl32.Vec4) {
		f.Planes[index].Set(v.Vec3(), v.W())
	}
	set(FrustumLeft, r3.Add(r0))
	set(FrustumRight, r3.Sub(r0))
	set(FrustumBottom, r3.Add(r1))
	set(FrustumTop, r3.Sub(r1))
	set(FrustumNear, r3.Add(r2))
	set(FrustumFar, r3.Sub(r2))

	return f
}

// IntersectsBox reports whether any part of the box lies inside the frustum.
// Empty boxes are treated as always visible so that objects without geometry bounds
// are never culled.
//
// Parameters:
//   - box: the world-space axis aligned box to test
//
// Returns:
//   - bool: false only when the box is entirely outside one of the planes
func (f *Frustum) IntersectsBox(box Box3) bool {
	if box.IsEmpty() {
		return true
	}
	for i := range f.Planes {
		p := &f.Planes[i]
		// Test the box corner furthest along the plane normal.
		var corner mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if p.Normal[axis] > 0 {
				corner[axis] = box.Max[axis]
			} else {
				corner[axis] = box.Min[axis]
			}
		}
		if p.DistanceToPoint(corner) < 0 {
			return false
		}
	}
	return true
}
