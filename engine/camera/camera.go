package camera

import (
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionKind selects the camera projection.
type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

func (k ProjectionKind) String() string {
	if k == Orthographic {
		return "OrthographicCamera"
	}
	return "PerspectiveCamera"
}

// Default projection parameters.
const (
	DefaultFov  float32 = 75
	DefaultNear float32 = 10
	DefaultFar  float32 = 100000
)

type cameraImpl struct {
	mu *sync.Mutex

	kind ProjectionKind
	up   mgl32.Vec3

	fov    float32 // degrees
	width  float32
	height float32
	near   float32
	far    float32
	zoom   float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds projection settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Kind returns the projection kind.
	//
	// Returns:
	//   - ProjectionKind: perspective or orthographic
	Kind() ProjectionKind

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Zoom returns the zoom factor. Orthographic cameras divide their frustum extents by it.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// Position returns the camera position from the attached controller.
	//
	// Returns:
	//   - mgl32.Vec3: the position, zero without a controller
	Position() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix (OpenGL depth convention).
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() mgl32.Mat4

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from controller and recomputes matrices.
	// Should be called once per frame. If no controller is attached, this method does nothing.
	Update()

	// SetUp sets the camera's up vector.
	SetUp(up mgl32.Vec3)

	// SetFov sets the field of view in degrees and recomputes matrices.
	SetFov(fov float32)

	// SetNear sets the near plane distance and recomputes matrices.
	SetNear(near float32)

	// SetZoom sets the zoom factor and recomputes matrices. Non-positive values are ignored.
	SetZoom(zoom float32)

	// Resize updates the viewport dimensions used for the aspect ratio and the
	// orthographic extents (±width/2, ±height/2).
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height float32)

	// SetController attaches a controller.
	SetController(ctrl CameraController)

	// Ray returns the world-space pick ray through a point in normalized device
	// coordinates (x right, y up, both in [-1, 1]).
	//
	// Parameters:
	//   - ndc: the pointer position in NDC
	//
	// Returns:
	//   - common.Ray: the pick ray
	Ray(ndc mgl32.Vec2) common.Ray

	// Clone returns a camera with the same projection and a copy of the controller state.
	//
	// Returns:
	//   - Camera: the clone
	Clone() Camera
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the provided options applied.
// Defaults: perspective, fov 75, near 10, far 100000, 1x1 viewport, zoom 1.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		kind:   Perspective,
		up:     mgl32.Vec3{0, 1, 0},
		fov:    DefaultFov,
		width:  1,
		height: 1,
		near:   DefaultNear,
		far:    DefaultFar,
		zoom:   1,
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Kind() ProjectionKind {
	return c.kind
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect()
}

func (c *cameraImpl) aspect() float32 {
	if c.height <= 0 {
		return 1
	}
	return c.width / c.height
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	if ctrl == nil {
		return mgl32.Vec3{}
	}
	return ctrl.Position()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetZoom(zoom float32) {
	if zoom <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
	c.updateMatrices()
}

func (c *cameraImpl) Resize(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Ray(ndc mgl32.Vec2) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
	inv := c.viewProjectionMatrix.Inv()
	near := mgl32.TransformCoordinate(mgl32.Vec3{ndc.X(), ndc.Y(), -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndc.X(), ndc.Y(), 1}, inv)
	if c.kind == Perspective && c.controller != nil {
		origin := c.controller.Position()
		return common.NewRay(origin, far.Sub(origin))
	}
	return common.NewRay(near, far.Sub(near))
}

func (c *cameraImpl) Clone() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := &cameraImpl{
		mu:     &sync.Mutex{},
		kind:   c.kind,
		up:     c.up,
		fov:    c.fov,
		width:  c.width,
		height: c.height,
		near:   c.near,
		far:    c.far,
		zoom:   c.zoom,
	}
	if c.controller != nil {
		clone.controller = NewCameraController(
			WithPosition(c.controller.Position()),
			WithTarget(c.controller.Target()),
		)
	}
	clone.updateMatrices()
	return clone
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	switch c.kind {
	case Orthographic:
		hw := c.width / 2 / c.zoom
		hh := c.height / 2 / c.zoom
		c.projectionMatrix = mgl32.Ortho(-hw, hw, -hh, hh, c.near, c.far)
	default:
		c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect(), c.near, c.far)
	}

	if c.controller != nil {
		position := c.controller.Position()
		target := c.controller.Target()
		if position.Sub(target).Len() > 0 {
			c.viewMatrix = mgl32.LookAtV(position, target, c.up)
		}
	} else {
		c.viewMatrix = mgl32.Ident4()
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
