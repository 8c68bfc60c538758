package camera

import (
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewControlsRoles(t *testing.T) {
	c := NewControls()
	assert.Same(t, c.Perspective(), c.Active())
	assert.Same(t, c.Perspective(), c.Main())
	assert.Same(t, c.Orthographic(), c.Overlay())
	assert.Equal(t, DefaultView, c.Active().Position())
	assert.Equal(t, []Camera{c.Main(), c.Overlay()}, c.Cameras())
}

func TestSwapRolesTwiceIsIdentity(t *testing.T) {
	c := NewControls()
	main, overlay := c.Main(), c.Overlay()
	position := c.Main().Position()

	c.SwapRoles()
	assert.Same(t, overlay, c.Main())
	assert.Same(t, main, c.Overlay())

	c.SwapRoles()
	assert.Same(t, main, c.Main())
	assert.Same(t, overlay, c.Overlay())
	assert.Equal(t, position, c.Main().Position())
}

func TestSwapCamerasOnlySwapsWhenNeeded(t *testing.T) {
	c := NewControls()
	c.SwapCameras(false)
	assert.Equal(t, Perspective, c.Main().Kind())

	c.SwapCameras(true)
	assert.Equal(t, Orthographic, c.Main().Kind())
	c.SwapCameras(true)
	assert.Equal(t, Orthographic, c.Main().Kind())
	assert.Same(t, c.Perspective(), c.Active())
}

func TestSynchronizeCopiesActiveFraming(t *testing.T) {
	c := NewControls()
	c.Active().Controller().SetPosition(mgl32.Vec3{10, 20, 30})
	c.Active().Controller().SetTarget(mgl32.Vec3{1, 1, 1})

	c.Synchronize(1.0 / 60)
	assert.Equal(t, mgl32.Vec3{10, 20, 30}, c.Orthographic().Position())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, c.Orthographic().Controller().Target())
}

func TestUpdateKeepsPairsEqual(t *testing.T) {
	c := NewControls()
	c.Active().Controller().Rotate(0.3, 0.1)
	for i := 0; i < 30; i++ {
		c.Update(1.0 / 60)
		assert.Equal(t, c.Perspective().Position(), c.Orthographic().Position())
	}
}

func TestSetActiveHandsOverFraming(t *testing.T) {
	c := NewControls()
	c.SetView(mgl32.Vec3{0, 100, 100}, mgl32.Vec3{0, 10, 0})
	c.AutoRotate(true)

	c.SetActive(Orthographic)
	assert.Same(t, c.Orthographic(), c.Active())
	assert.Equal(t, mgl32.Vec3{0, 100, 100}, c.Active().Position())
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, c.Active().Controller().Target())
	assert.True(t, c.AutoRotating())
	assert.False(t, c.Perspective().Controller().AutoRotate())
}

func TestZoomToTweensBothProjections(t *testing.T) {
	s := tween.NewScheduler()
	c := NewControls(WithScheduler(s))

	c.ZoomTo(0.5, 100)
	s.Update(50)
	s.Update(60)

	assert.True(t, common.ApproxEqualVec3(c.Perspective().Position(), mgl32.Vec3{0, 0, 100}, 1e-3))
	assert.InDelta(t, 2, c.Orthographic().Zoom(), 1e-4)
	assert.Equal(t, 0, s.Active())
}

func TestZoomToIgnoresNonPositiveFactor(t *testing.T) {
	s := tween.NewScheduler()
	c := NewControls(WithScheduler(s))
	c.ZoomTo(0, 100)
	assert.Equal(t, 0, s.Active())
}

func eventGroup() (*scene.Object, *scene.Object) {
	group := scene.NewGroup("EventData")
	hits := scene.NewGroup("Hits")
	hit := scene.NewObject(scene.TypePoints, scene.WithName("Hit"), scene.WithPosition(mgl32.Vec3{100, 0, 0}))
	hits.Add(hit)
	group.Add(hits)
	return group, hit
}

func TestLookAtTweensTowardsObject(t *testing.T) {
	s := tween.NewScheduler()
	c := NewControls(WithScheduler(s))
	group, hit := eventGroup()

	c.LookAt(hit.ID, group)
	s.Update(250)

	for _, cam := range c.Cameras() {
		assert.True(t, common.ApproxEqualVec3(cam.Position(), mgl32.Vec3{110, 0, 0}, 1e-3))
		assert.True(t, common.ApproxEqualVec3(cam.Controller().Target(), mgl32.Vec3{100, 0, 0}, 1e-3))
	}
}

func TestLookAtSkipsUnknownAndOriginObjects(t *testing.T) {
	s := tween.NewScheduler()
	c := NewControls(WithScheduler(s))
	group, _ := eventGroup()
	origin := scene.NewObject(scene.TypePoints, scene.WithName("Origin"))
	group.Add(origin)

	c.LookAt("missing", group)
	c.LookAt(origin.ID, group)
	c.LookAt("anything", nil)
	assert.Equal(t, 0, s.Active())
	assert.Equal(t, DefaultView, c.Active().Position())
}

func TestObjectPositionUsesGeometryCenterAtOrigin(t *testing.T) {
	c := NewControls()
	g := model.NewGeometry(model.WithPositions([]mgl32.Vec3{{10, 0, 0}, {30, 0, 0}}))
	line := scene.NewObject(scene.TypeLine, scene.WithName("Track"), scene.WithGeometry(g))
	group := scene.NewGroup("EventData")
	group.Add(line)

	pos, ok := c.ObjectPosition(line.ID, group)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{20, 0, 0}, pos)
}

func TestObjectPositionAveragesGroupLeaves(t *testing.T) {
	c := NewControls()
	parent := scene.NewGroup("Jets")
	parent.Add(
		scene.NewObject(scene.TypeMesh, scene.WithPosition(mgl32.Vec3{10, 0, 0})),
		scene.NewObject(scene.TypeMesh, scene.WithPosition(mgl32.Vec3{30, 20, 0})),
	)
	group := scene.NewGroup("EventData")
	group.Add(parent)

	pos, ok := c.ObjectPosition(parent.ID, group)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{20, 10, 0}, pos)
}

func TestHideTubeTracksOnZoom(t *testing.T) {
	root := scene.NewGroup("Scene")
	tracks := scene.NewGroup("Tracks")
	path := []mgl32.Vec3{{0, 0, 0}, {0, 0, 50}, {0, 0, 100}}
	tube := scene.NewObject(scene.TypeMesh, scene.WithName("Track"),
		scene.WithGeometry(model.NewTubeGeometry(path, 2, 8, 4)))
	line := scene.NewObject(scene.TypeLine, scene.WithName("Track"),
		scene.WithGeometry(model.NewGeometry(model.WithPositions(path))))
	tracks.Add(tube, line)
	root.Add(tracks)

	c := NewControls()
	c.HideTubeTracksOnZoom(root, DefaultTubeHideRadius)

	c.SetView(mgl32.Vec3{0, 0, 100}, mgl32.Vec3{})
	c.Update(1.0 / 60)
	assert.False(t, tube.Visible)
	assert.True(t, line.Visible)

	c.SetView(mgl32.Vec3{0, 0, 500}, mgl32.Vec3{})
	c.Update(1.0 / 60)
	assert.True(t, tube.Visible)
}

func TestSetEnabledAndResizeApplyToBothPairs(t *testing.T) {
	c := NewControls()
	c.SetEnabled(false)
	assert.False(t, c.Perspective().Controller().Enabled())
	assert.False(t, c.Orthographic().Controller().Enabled())

	c.Resize(1000, 500)
	assert.Equal(t, float32(2), c.Perspective().Aspect())
	assert.Equal(t, float32(2), c.Orthographic().Aspect())
}
