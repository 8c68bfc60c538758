package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the default tolerance used for vector and scalar comparisons.
const Epsilon float32 = 1e-4

// clipSpaceCorrection remaps OpenGL clip depth [-1, 1] produced by mgl32 projections
// onto the WebGPU clip depth range [0, 1].
var clipSpaceCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// WebGPUProjection converts an mgl32 projection matrix (OpenGL depth convention) into one
// suitable for WebGPU clip space.
//
// Parameters:
//   - projection: the OpenGL-style projection matrix
//
// Returns:
//   - mgl32.Mat4: the projection with depth remapped to [0, 1]
func WebGPUProjection(projection mgl32.Mat4) mgl32.Mat4 {
	return clipSpaceCorrection.Mul4(projection)
}

// ComposeMatrix builds a model matrix from a position, rotation quaternion and scale.
// The transform order is T * R * S, matching the scene graph node convention.
//
// Parameters:
//   - position: translation component
//   - rotation: rotation component
//   - scale: per-axis scale component
//
// Returns:
//   - mgl32.Mat4: the composed model matrix
func ComposeMatrix(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	r := rotation.Normalize().Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}

// TransformPoint applies a 4x4 affine matrix to a point (w = 1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// TransformDirection applies the rotational part of a 4x4 matrix to a direction (w = 0).
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformNormal(d, m)
}

// RotateAboutAxis rotates v by angle radians about the given axis.
//
// Parameters:
//   - v: the vector to rotate
//   - axis: the rotation axis, normalized internally
//   - angle: rotation in radians, counter-clockwise looking down the axis
//
// Returns:
//   - mgl32.Vec3: the rotated vector
func RotateAboutAxis(v, axis mgl32.Vec3, angle float32) mgl32.Vec3 {
	return mgl32.QuatRotate(angle, axis.Normalize()).Rotate(v)
}

// ApproxEqualVec3 reports whether every component of a and b differs by at most eps.
// The tolerance is absolute so components near zero compare the same as any other.
func ApproxEqualVec3(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates each component of a and b by t.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Vec3FromSlice converts a loosely typed numeric slice (as decoded from JSON) into a Vec3.
// Missing components default to zero.
//
// Parameters:
//   - values: the source values
//
// Returns:
//   - mgl32.Vec3: the converted vector
//   - bool: false if values held fewer than three numeric entries
func Vec3FromSlice(values []float64) (mgl32.Vec3, bool) {
	var v mgl32.Vec3
	for i := 0; i < 3 && i < len(values); i++ {
		v[i] = float32(values[i])
	}
	return v, len(values) >= 3
}

// Vec3ToSlice returns the components of v as float64 values for serialization.
func Vec3ToSlice(v mgl32.Vec3) []float64 {
	return []float64{float64(v.X()), float64(v.Y()), float64(v.Z())}
}

// EtaToTheta converts pseudorapidity to polar angle.
func EtaToTheta(eta float64) float64 {
	return 2 * math.Atan(math.Exp(-eta))
}

// ThetaToEta converts polar angle to pseudorapidity.
func ThetaToEta(theta float64) float64 {
	return -math.Log(math.Tan(theta / 2))
}
