package camera

import (
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, Perspective, c.Kind())
	assert.Equal(t, DefaultFov, c.Fov())
	assert.Equal(t, DefaultNear, c.Near())
	assert.Equal(t, DefaultFar, c.Far())
	assert.Equal(t, float32(1), c.Zoom())
	assert.Equal(t, "PerspectiveCamera", c.Kind().String())
	assert.Nil(t, c.Controller())
}

func TestSetZoomIgnoresNonPositive(t *testing.T) {
	c := NewCamera(WithKind(Orthographic))
	c.SetZoom(2)
	c.SetZoom(0)
	c.SetZoom(-1)
	assert.Equal(t, float32(2), c.Zoom())
}

func TestResizeUpdatesAspect(t *testing.T) {
	c := NewCamera()
	c.Resize(800, 400)
	assert.Equal(t, float32(2), c.Aspect())

	c.Resize(0, 0)
	assert.Equal(t, float32(1), c.Aspect())
}

func TestPerspectiveRayThroughCenterHitsTarget(t *testing.T) {
	c := NewCamera(
		WithViewport(800, 600),
		WithController(NewCameraController(WithPosition(mgl32.Vec3{0, 0, 200}))),
	)
	ray := c.Ray(mgl32.Vec2{0, 0})
	assert.True(t, common.ApproxEqualVec3(ray.Origin, mgl32.Vec3{0, 0, 200}, 1e-3))
	assert.True(t, common.ApproxEqualVec3(ray.Direction, mgl32.Vec3{0, 0, -1}, 1e-4))
}

func TestOrthographicRaysAreParallel(t *testing.T) {
	c := NewCamera(
		WithKind(Orthographic),
		WithViewport(800, 600),
		WithController(NewCameraController(WithPosition(mgl32.Vec3{0, 0, 200}))),
	)
	center := c.Ray(mgl32.Vec2{0, 0})
	corner := c.Ray(mgl32.Vec2{1, 1})
	assert.True(t, common.ApproxEqualVec3(center.Direction, corner.Direction, 1e-4))
	assert.InDelta(t, 400, corner.Origin.X(), 1e-2)
	assert.InDelta(t, 300, corner.Origin.Y(), 1e-2)
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewCamera(WithController(NewCameraController(WithPosition(mgl32.Vec3{1, 2, 3}))))
	clone := c.Clone()
	require.NotNil(t, clone.Controller())
	assert.Equal(t, c.Position(), clone.Position())

	clone.Controller().SetPosition(mgl32.Vec3{9, 9, 9})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Position())
}

func TestControllerWithoutInputDoesNotDrift(t *testing.T) {
	ctrl := NewCameraController(WithPosition(mgl32.Vec3{0, 50, 200}))
	for i := 0; i < 100; i++ {
		assert.False(t, ctrl.Update(1.0/60))
	}
	assert.Equal(t, mgl32.Vec3{0, 50, 200}, ctrl.Position())
}

func TestControllerRotateKeepsDistance(t *testing.T) {
	ctrl := NewCameraController()
	ctrl.Rotate(0.5, 0.2)
	for i := 0; i < 200; i++ {
		ctrl.Update(1.0 / 60)
	}
	assert.InDelta(t, 200, ctrl.Distance(), 1e-2)
	assert.NotEqual(t, mgl32.Vec3{0, 0, 200}, ctrl.Position())
}

func TestControllerDollyScalesDistance(t *testing.T) {
	ctrl := NewCameraController(WithDamping(false, 0))
	ctrl.Dolly(0.5)
	ctrl.Update(1.0 / 60)
	assert.InDelta(t, 100, ctrl.Distance(), 1e-3)
}

func TestAutoRotateMovesCamera(t *testing.T) {
	ctrl := NewCameraController()
	ctrl.SetAutoRotate(true)
	assert.True(t, ctrl.Update(1))
	assert.InDelta(t, 200, ctrl.Distance(), 1e-2)
	assert.NotEqual(t, mgl32.Vec3{0, 0, 200}, ctrl.Position())
}

func TestGPUCameraUniformMarshalSize(t *testing.T) {
	c := NewCamera(WithController(NewCameraController()))
	u := NewGPUCameraUniform(c)
	assert.Len(t, u.Marshal(), u.Size())
	assert.Equal(t, [3]float32{0, 0, 200}, u.CameraPosition)
}
