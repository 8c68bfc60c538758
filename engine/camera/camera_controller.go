package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController defines an orbit controller: the camera circles a target point,
// rotating, dollying and panning in response to input. Input accumulates as pending
// deltas that Update applies with damping, so motion eases out over several frames.
type CameraController interface {
	// Position returns the camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the world-space position
	Position() mgl32.Vec3

	// SetPosition moves the camera without changing the target.
	//
	// Parameters:
	//   - position: the world-space position
	SetPosition(position mgl32.Vec3)

	// Target returns the orbit target.
	//
	// Returns:
	//   - mgl32.Vec3: the world-space target
	Target() mgl32.Vec3

	// SetTarget sets the orbit target without moving the camera.
	//
	// Parameters:
	//   - target: the world-space target
	SetTarget(target mgl32.Vec3)

	// Rotate queues an orbit of the camera around the target.
	//
	// Parameters:
	//   - azimuth: rotation around the world up axis in radians
	//   - elevation: rotation towards the pole in radians
	Rotate(azimuth, elevation float32)

	// Dolly queues a change of distance to the target. Factors below one move closer.
	//
	// Parameters:
	//   - factor: multiplicative distance change
	Dolly(factor float32)

	// Pan queues a translation of both camera and target in the view plane.
	//
	// Parameters:
	//   - right: distance along the camera right axis
	//   - up: distance along the camera up axis
	Pan(right, up float32)

	// OrbitLeft rotates left by the orbit speed.
	OrbitLeft()

	// OrbitRight rotates right by the orbit speed.
	OrbitRight()

	// OrbitUp rotates up by the orbit speed.
	OrbitUp()

	// OrbitDown rotates down by the orbit speed.
	OrbitDown()

	// Zoom dollies in (positive delta) or out (negative delta) by zoom speed steps.
	//
	// Parameters:
	//   - delta: scroll steps
	Zoom(delta float32)

	// Distance returns the distance between the camera and the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Distance() float32

	// Enabled reports whether input is accepted.
	Enabled() bool

	// SetEnabled enables or disables input. Damping and auto-rotation still run.
	SetEnabled(enabled bool)

	// AutoRotate reports whether the camera turns around the target on its own.
	AutoRotate() bool

	// SetAutoRotate toggles auto-rotation.
	SetAutoRotate(autoRotate bool)

	// DampingFactor returns the fraction of pending input applied per update.
	DampingFactor() float32

	// Update applies pending input and auto-rotation.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - bool: true if the position or target changed
	Update(dt float32) bool
}
