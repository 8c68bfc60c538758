package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// settleEpsilon is the magnitude below which pending deltas are dropped.
	settleEpsilon = 1e-6

	// minPolar keeps the camera off the poles so LookAt never degenerates.
	minPolar = 1e-6
)

// cameraControllerImpl is the orbit implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	// pending input
	azimuthDelta   float32
	elevationDelta float32
	scale          float32
	panOffset      mgl32.Vec3

	enabled         bool
	enableDamping   bool
	dampingFactor   float32
	autoRotate      bool
	autoRotateSpeed float32

	minDistance float32
	maxDistance float32

	orbitSpeed float32
	zoomSpeed  float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller with damping enabled.
// Defaults: position (0,0,200) looking at the origin, damping factor 0.25, auto-rotate
// speed 2 (one turn every 30 seconds).
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:              &sync.Mutex{},
		position:        mgl32.Vec3{0, 0, 200},
		scale:           1,
		enabled:         true,
		enableDamping:   true,
		dampingFactor:   0.25,
		autoRotateSpeed: 2,
		minDistance:     0,
		maxDistance:     float32(math.Inf(1)),
		orbitSpeed:      0.03,
		zoomSpeed:       0.95,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
}

func (cc *cameraControllerImpl) Rotate(azimuth, elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	cc.azimuthDelta += azimuth
	cc.elevationDelta += elevation
}

func (cc *cameraControllerImpl) Dolly(factor float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled || factor <= 0 {
		return
	}
	cc.scale *= factor
}

func (cc *cameraControllerImpl) Pan(right, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	r, u, _ := cc.localAxes()
	cc.panOffset = cc.panOffset.Add(r.Mul(right)).Add(u.Mul(up))
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.Rotate(-cc.orbitSpeed, 0)
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.Rotate(cc.orbitSpeed, 0)
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.Rotate(0, cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.Rotate(0, -cc.orbitSpeed)
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.Dolly(float32(math.Pow(float64(cc.zoomSpeed), float64(delta))))
}

func (cc *cameraControllerImpl) Distance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Sub(cc.target).Len()
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
}

func (cc *cameraControllerImpl) AutoRotate() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.autoRotate
}

func (cc *cameraControllerImpl) SetAutoRotate(autoRotate bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.autoRotate = autoRotate
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) Update(dt float32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.autoRotate {
		cc.azimuthDelta -= 2 * math.Pi / 60 * cc.autoRotateSpeed * dt
	}
	if !cc.pending() {
		return false
	}

	// Spherical coordinates of the offset: theta around +Y from +Z, phi from +Y.
	offset := cc.position.Sub(cc.target)
	radius := offset.Len()
	theta := float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	phi := float32(0)
	if radius > 0 {
		phi = float32(math.Acos(float64(mgl32.Clamp(offset.Y()/radius, -1, 1))))
	}

	factor := float32(1)
	if cc.enableDamping {
		factor = cc.dampingFactor
	}
	theta += cc.azimuthDelta * factor
	phi -= cc.elevationDelta * factor
	phi = mgl32.Clamp(phi, minPolar, math.Pi-minPolar)

	radius *= cc.scale
	radius = mgl32.Clamp(radius, cc.minDistance, cc.maxDistance)
	cc.target = cc.target.Add(cc.panOffset.Mul(factor))

	sinPhi := float32(math.Sin(float64(phi)))
	offset = mgl32.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	}
	cc.position = cc.target.Add(offset)

	cc.scale = 1
	if cc.enableDamping {
		keep := 1 - cc.dampingFactor
		cc.azimuthDelta *= keep
		cc.elevationDelta *= keep
		cc.panOffset = cc.panOffset.Mul(keep)
	} else {
		cc.azimuthDelta, cc.elevationDelta = 0, 0
		cc.panOffset = mgl32.Vec3{}
	}
	cc.settle()
	return true
}

// pending reports whether any input remains to be applied. Caller must hold the mutex.
func (cc *cameraControllerImpl) pending() bool {
	return abs32(cc.azimuthDelta) > settleEpsilon ||
		abs32(cc.elevationDelta) > settleEpsilon ||
		abs32(cc.scale-1) > settleEpsilon ||
		cc.panOffset.Len() > settleEpsilon
}

// settle drops negligible pending deltas. Caller must hold the mutex.
func (cc *cameraControllerImpl) settle() {
	if abs32(cc.azimuthDelta) <= settleEpsilon {
		cc.azimuthDelta = 0
	}
	if abs32(cc.elevationDelta) <= settleEpsilon {
		cc.elevationDelta = 0
	}
	if cc.panOffset.Len() <= settleEpsilon {
		cc.panOffset = mgl32.Vec3{}
	}
}

// localAxes returns the camera right, up and forward axes consistent with LookAt.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up, forward mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up = back.Cross(right)
	forward = back.Mul(-1)
	return
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
