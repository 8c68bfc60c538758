package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CatmullRomPoints samples a uniform Catmull-Rom spline through points at divisions+1
// evenly spaced parameter values. The curve passes through every control point; the end
// tangents are extrapolated from the first and last segments.
//
// Parameters:
//   - points: the control points
//   - divisions: number of intervals to sample
//
// Returns:
//   - []mgl32.Vec3: the sampled points, a copy of points when fewer than two are given
func CatmullRomPoints(points []mgl32.Vec3, divisions int) []mgl32.Vec3 {
	n := len(points)
	if n < 2 || divisions < 1 {
		return append([]mgl32.Vec3(nil), points...)
	}

	out := make([]mgl32.Vec3, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		p := float64(n-1) * float64(d) / float64(divisions)
		seg := int(math.Floor(p))
		weight := float32(p - float64(seg))
		if seg >= n-1 {
			seg, weight = n-2, 1
		}

		p1, p2 := points[seg], points[seg+1]
		var p0, p3 mgl32.Vec3
		if seg > 0 {
			p0 = points[seg-1]
		} else {
			p0 = p1.Mul(2).Sub(p2)
		}
		if seg+2 < n {
			p3 = points[seg+2]
		} else {
			p3 = p2.Mul(2).Sub(p1)
		}
		out = append(out, catmullRom(p0, p1, p2, p3, weight))
	}
	return out
}

func catmullRom(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	c1 := p2.Sub(p0).Mul(0.5)
	c2 := p0.Sub(p1.Mul(2.5)).Add(p2.Mul(2)).Sub(p3.Mul(0.5))
	c3 := p1.Sub(p2).Mul(1.5).Add(p3.Sub(p0).Mul(0.5))
	t2 := t * t
	return p1.Add(c1.Mul(t)).Add(c2.Mul(t2)).Add(c3.Mul(t2 * t))
}
