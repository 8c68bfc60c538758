package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with an origin and unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform returns the ray expressed in the space described by m.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	origin := TransformPoint(m, r.Origin)
	end := TransformPoint(m, r.Origin.Add(r.Direction))
	return NewRay(origin, end.Sub(origin))
}

// IntersectBox returns the entry distance of the ray into box using the slab method.
//
// Parameters:
//   - box: the axis aligned box to test
//
// Returns:
//   - float32: distance along the ray to the first intersection (0 when the origin is inside)
//   - bool: true if the ray hits the box
func (r Ray) IntersectBox(box Box3) (float32, bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		d := r.Direction[axis]
		o := r.Origin[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (box.Min[axis] - o) * inv
		t2 := (box.Max[axis] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	return max(tMin, 0), true
}

// IntersectTriangle tests the ray against triangle (a, b, c) using the Moller-Trumbore
// algorithm. Both faces are considered.
//
// Returns:
//   - float32: distance along the ray to the hit point
//   - bool: true if the ray hits the triangle in front of the origin
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	const eps = 1e-7
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := inv * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := inv * edge2.Dot(q)
	if t <= eps {
		return 0, false
	}
	return t, true
}

// DistanceSqToSegment returns the squared distance between the ray and the segment (v0, v1),
// along with the distance along the ray of the closest point.
func (r Ray) DistanceSqToSegment(v0, v1 mgl32.Vec3) (float32, float32) {
	segCenter := v0.Add(v1).Mul(0.5)
	segDir := v1.Sub(v0)
	segExtent := segDir.Len() * 0.5
	if segExtent > 0 {
		segDir = segDir.Normalize()
	}
	diff := r.Origin.Sub(segCenter)

	a01 := -r.Direction.Dot(segDir)
	b0 := diff.Dot(r.Direction)
	b1 := -diff.Dot(segDir)
	det := float32(math.Abs(float64(1 - a01*a01)))

	var s0, s1 float32
	if det > 0 {
		s0 = a01*b1 - b0
		s1 = a01*b0 - b1
		extDet := segExtent * det
		if s0 >= 0 && s1 >= -extDet && s1 <= extDet {
			invDet := 1 / det
			s0 *= invDet
			s1 *= invDet
		} else {
			s1 = max(-segExtent, min(segExtent, s1))
			s0 = max(0, -(a01*s1 + b0))
		}
	} else {
		if a01 > 0 {
			s1 = -segExtent
		} else {
			s1 = segExtent
		}
		s0 = max(0, -(a01*s1 + b0))
	}

	closestRay := r.At(s0)
	closestSeg := segCenter.Add(segDir.Mul(s1))
	d := closestRay.Sub(closestSeg)
	return d.Dot(d), s0
}

// DistanceSqToPoint returns the squared distance from p to the closest point on the ray,
// along with the distance along the ray of that point.
func (r Ray) DistanceSqToPoint(p mgl32.Vec3) (float32, float32) {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		d := p.Sub(r.Origin)
		return d.Dot(d), 0
	}
	d := p.Sub(r.At(t))
	return d.Dot(d), t
}
