package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a function that configures a camera controller during construction.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial camera position.
//
// Parameters:
//   - position: the world-space position
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithPosition(position mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = position
	}
}

// WithTarget sets the initial orbit target.
//
// Parameters:
//   - target: the world-space target
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithDamping sets whether damping is enabled and its factor.
//
// Parameters:
//   - enabled: true to ease input out over several updates
//   - factor: fraction of pending input applied per update
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithDamping(enabled bool, factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.enableDamping = enabled
		cc.dampingFactor = factor
	}
}

// WithAutoRotateSpeed sets the auto-rotation speed. A speed of 2 turns once every 30
// seconds.
func WithAutoRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.autoRotateSpeed = speed
	}
}

// WithDistanceBounds clamps the orbit radius.
//
// Parameters:
//   - min: minimum distance to the target
//   - max: maximum distance to the target
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithDistanceBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minDistance = min
		cc.maxDistance = max
	}
}

// WithOrbitSpeed sets the per-call rotation of the keyboard orbit methods in radians.
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithZoomSpeed sets the dolly factor applied per zoom step.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
