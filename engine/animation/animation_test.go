package animation

import (
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	scenes    scene.Manager
	controls  camera.Controls
	scheduler tween.Scheduler
	anim      Manager
}

func newFixture() *fixture {
	s := tween.NewScheduler()
	scenes := scene.NewManager()
	controls := camera.NewControls(camera.WithScheduler(s))
	return &fixture{
		scenes:    scenes,
		controls:  controls,
		scheduler: s,
		anim:      NewManager(scenes, controls, s),
	}
}

// run advances the scheduler in 10 ms frames.
func (f *fixture) run(ms int) {
	for i := 0; i < ms/10; i++ {
		f.scheduler.Update(10)
	}
}

func (f *fixture) cameraPosition() mgl32.Vec3 {
	return f.controls.Active().Controller().Position()
}

func TestFlythroughDuration(t *testing.T) {
	assert.Equal(t, float32(9500), FlythroughDuration(1000))
}

func TestAnimateThroughEventReturnsToStart(t *testing.T) {
	f := newFixture()
	start := mgl32.Vec3{0, 0, 1000}
	calls := 0

	f.anim.AnimateThroughEvent(start, 1000, func() { calls++ })
	assert.NotEqual(t, start, f.cameraPosition())

	f.run(5000)
	assert.Equal(t, 0, calls)
	assert.NotEqual(t, start, f.cameraPosition())

	f.run(4400)
	assert.Equal(t, 0, calls)

	f.run(200)
	assert.Equal(t, 1, calls)
	assert.True(t, common.ApproxEqualVec3(f.cameraPosition(), start, 1e-2))
	assert.Equal(t, 0, f.scheduler.Active())

	f.run(1000)
	assert.Equal(t, 1, calls)
}

func TestAnimateThroughEventCirclesAtRadius(t *testing.T) {
	f := newFixture()
	f.anim.AnimateThroughEvent(mgl32.Vec3{0, 0, 1000}, 1000, nil)

	// Approach, axis move and drop to the circle take 3000 ms; each circle step is ~167 ms.
	f.run(3000 + 1000)
	pos := f.cameraPosition()
	assert.InDelta(t, 500, pos.Len(), 20)
	assert.InDelta(t, 0, pos.Y(), 1e-3)
}

func TestAnimateCameraTransform(t *testing.T) {
	f := newFixture()
	ended := false
	f.anim.AnimateCameraTransform(mgl32.Vec3{100, 100, 100}, mgl32.Vec3{0, 10, 0}, 500, func() { ended = true })

	f.run(250)
	assert.False(t, ended)
	f.run(260)
	assert.True(t, ended)
	assert.Equal(t, mgl32.Vec3{100, 100, 100}, f.cameraPosition())
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, f.controls.Active().Controller().Target())
}

type eventObjects struct {
	track   *scene.Object
	jet     *scene.Object
	cluster *scene.Object
	hits    *scene.Object
}

func addEvent(f *fixture) eventObjects {
	trackPath := make([]mgl32.Vec3, 10)
	for i := range trackPath {
		trackPath[i] = mgl32.Vec3{0, float32(i) * 10, 0}
	}
	track := scene.NewObject(scene.TypeLine, scene.WithName("Track"),
		scene.WithGeometry(model.NewGeometry(model.WithPositions(trackPath))),
		scene.WithMaterial(material.NewMaterial(material.WithColor(0xff00ff))))
	f.scenes.AddEventDataTypeGroup("Tracks").Add(track)

	jet := scene.NewObject(scene.TypeMesh, scene.WithName(scene.JetName),
		scene.WithGeometry(model.NewSphereGeometry(1, 8, 8)),
		scene.WithPosition(mgl32.Vec3{10, 0, 0}), scene.WithScale(2))
	f.scenes.AddEventDataTypeGroup(scene.JetsGroupName).Add(jet)

	cluster := scene.NewObject(scene.TypeMesh, scene.WithName("Cluster"),
		scene.WithGeometry(model.NewSphereGeometry(1, 8, 8)),
		scene.WithPosition(mgl32.Vec3{0, 0, 5000}))
	f.scenes.AddEventDataTypeGroup("CaloClusters").Add(cluster)

	hits := scene.NewObject(scene.TypePoints, scene.WithName("Hit"),
		scene.WithGeometry(model.NewGeometry(model.WithPositions([]mgl32.Vec3{{0, 0, 100}, {0, 0, 9000}}))))
	f.scenes.AddEventDataTypeGroup("Hits").Add(hits)

	return eventObjects{track: track, jet: jet, cluster: cluster, hits: hits}
}

func TestAnimateEventRevealsAndRestores(t *testing.T) {
	f := newFixture()
	objs := addEvent(f)
	started, ended := 0, 0

	f.anim.AnimateEvent(1000, func() { ended++ }, func() { started++ })
	assert.False(t, f.scenes.Labels().Visible)
	assert.Equal(t, model.DrawRange{Start: 0, Count: 0}, objs.track.Geometry.DrawRange())
	assert.Empty(t, objs.hits.Geometry.Positions())

	f.run(100)
	assert.Equal(t, 1, started)
	count := objs.track.Geometry.DrawRange().Count
	assert.Greater(t, count, 0)
	assert.Less(t, count, 10)
	assert.Less(t, objs.jet.Scale.X(), float32(2))
	assert.Len(t, objs.hits.Geometry.Positions(), 1)

	f.run(920)
	assert.Equal(t, 1, ended)
	assert.Equal(t, model.DrawRange{Start: 0, Count: model.DrawAll}, objs.track.Geometry.DrawRange())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, objs.jet.Scale)
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, objs.jet.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, objs.cluster.Scale)
	assert.Equal(t, mgl32.Vec3{0, 0, 5000}, objs.cluster.Position)
	assert.Len(t, objs.hits.Geometry.Positions(), 2)
	assert.True(t, f.scenes.Labels().Visible)
}

func TestAnimateEventScalesObjectsFromNearZero(t *testing.T) {
	f := newFixture()
	cluster := scene.NewObject(scene.TypeMesh, scene.WithName("Cluster"),
		scene.WithGeometry(model.NewSphereGeometry(1, 8, 8)),
		scene.WithPosition(mgl32.Vec3{5000, 0, 0}), scene.WithScale(2))
	f.scenes.AddEventDataTypeGroup("CaloClusters").Add(cluster)
	centred := scene.NewObject(scene.TypeMesh, scene.WithName("Vertex"),
		scene.WithGeometry(model.NewSphereGeometry(1, 8, 8)))
	f.scenes.AddEventDataTypeGroup("Vertices").Add(centred)

	f.anim.AnimateEvent(1000, nil, nil)
	assert.True(t, cluster.Visible)
	assert.Equal(t, mgl32.Vec3{0.01, 0.01, 0.01}, cluster.Scale)
	assert.True(t, common.ApproxEqualVec3(mgl32.Vec3{25, 0, 0}, cluster.Position, 1e-3), "got %v", cluster.Position)
	assert.Equal(t, mgl32.Vec3{}, centred.Position)

	f.run(100)
	scale := cluster.Scale.X()
	assert.Greater(t, scale, float32(0.01))
	assert.Less(t, scale, float32(2))
	assert.True(t, common.ApproxEqualVec3(mgl32.Vec3{5000 * scale / 2, 0, 0}, cluster.Position, 1e-2), "got %v", cluster.Position)
	assert.Equal(t, mgl32.Vec3{}, centred.Position)

	f.run(500)
	assert.Greater(t, cluster.Scale.X(), scale)

	f.run(500)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, cluster.Scale)
	assert.Equal(t, mgl32.Vec3{5000, 0, 0}, cluster.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, centred.Scale)
}

func TestAnimateEventTubeUsesIndexCount(t *testing.T) {
	f := newFixture()
	tube := model.NewTubeGeometry([]mgl32.Vec3{{0, 0, 0}, {0, 0, 100}}, 2, 4, 3)
	track := scene.NewObject(scene.TypeMesh, scene.WithName("Track"), scene.WithGeometry(tube))
	f.scenes.AddEventDataTypeGroup("Tracks").Add(track)

	f.anim.AnimateEvent(1000, nil, nil)
	f.run(740)
	assert.LessOrEqual(t, tube.DrawRange().Count, 4*3*6)
	assert.Greater(t, tube.DrawRange().Count, tube.VertexCount())
}

func TestCollideParticlesRemovesMarkers(t *testing.T) {
	f := newFixture()
	ended := 0
	f.anim.CollideParticles(500, func() { ended++ }, WithParticleColor(0x00ff00))

	markers := 0
	f.scenes.Root().Traverse(func(o *scene.Object) {
		if o.Name == ParticleName {
			markers++
			assert.Equal(t, float32(0), o.Material.Opacity())
			assert.Equal(t, common.Color(0x00ff00), o.Material.Color())
		}
	})
	assert.Equal(t, 2, markers)

	f.run(300)
	marker := f.scenes.Root().FindByName(ParticleName)
	require.NotNil(t, marker)
	assert.Equal(t, float32(1), marker.Material.Opacity())
	assert.Less(t, marker.Position.Z(), float32(5000))

	f.run(210)
	assert.Equal(t, 1, ended)
	assert.Nil(t, f.scenes.Root().FindByName(ParticleName))
}

func TestCollideParticlesHidesEventDataUntilGraceDelay(t *testing.T) {
	f := newFixture()
	addEvent(f)
	ended := 0
	f.anim.CollideParticles(500, func() { ended++ })
	assert.False(t, f.scenes.EventData().Visible)

	f.run(250)
	assert.False(t, f.scenes.EventData().Visible)
	assert.Equal(t, 0, ended)

	f.run(260)
	assert.Equal(t, 1, ended)
	assert.False(t, f.scenes.EventData().Visible)

	f.run(120)
	assert.True(t, f.scenes.EventData().Visible)
	assert.Equal(t, 1, ended)
}

func TestAnimateWithCollisionHidesThenReveals(t *testing.T) {
	f := newFixture()
	addEvent(f)
	ended := 0

	f.anim.AnimateEventWithCollision(1000, func() { ended++ })
	assert.False(t, f.scenes.EventData().Visible)

	f.run(1500)
	assert.False(t, f.scenes.EventData().Visible)
	assert.Nil(t, f.scenes.Root().FindByName(ParticleName))

	f.run(120)
	assert.True(t, f.scenes.EventData().Visible)

	f.run(1100)
	assert.Equal(t, 1, ended)
}

func TestAnimateEventWithClippingRestoresPlanes(t *testing.T) {
	f := newFixture()
	objs := addEvent(f)
	original := objs.track.Material.ClippingPlanes()
	ended := false

	f.anim.AnimateEventWithClipping(500, func() { ended = true }, nil)
	planes := objs.track.Material.ClippingPlanes()
	require.NotEmpty(t, planes)
	assert.False(t, objs.track.Material.ClipIntersection())
	for _, p := range planes {
		assert.Equal(t, float32(0), p.Constant)
	}

	f.run(250)
	assert.Greater(t, planes[0].Constant, float32(0))
	assert.Less(t, planes[0].Constant, float32(defaultClipConstant))

	f.run(260)
	assert.True(t, ended)
	assert.Equal(t, original, objs.track.Material.ClippingPlanes())
}

func TestAnimatePreset(t *testing.T) {
	f := newFixture()
	addEvent(f)
	ended := 0
	preset := Preset{
		Name: "Overview",
		Positions: []PresetStep{
			{Position: mgl32.Vec3{0, 0, 1000}, Duration: 500},
			{Position: mgl32.Vec3{1000, 0, 0}},
		},
		AnimateEventAfter: 100,
		CollisionDuration: 500,
	}

	f.anim.AnimatePreset(preset, func() { ended++ })
	assert.False(t, f.scenes.Labels().Visible)
	assert.False(t, f.scenes.EventData().Visible)

	f.run(500)
	assert.True(t, common.ApproxEqualVec3(f.cameraPosition(), mgl32.Vec3{0, 0, 1000}, 1e-2))

	f.run(2010)
	assert.Equal(t, 1, ended)
	assert.True(t, common.ApproxEqualVec3(f.cameraPosition(), mgl32.Vec3{1000, 0, 0}, 1e-2))
	assert.True(t, f.scenes.EventData().Visible)
}

func TestAnimatePresetWithoutPositionsEndsImmediately(t *testing.T) {
	f := newFixture()
	ended := false
	f.anim.AnimatePreset(Preset{Name: "Empty"}, func() { ended = true })
	assert.True(t, ended)
	assert.True(t, f.scenes.Labels().Visible)
}

func TestEventTimeDrivesVisibility(t *testing.T) {
	f := newFixture()
	early := scene.NewObject(scene.TypePoints, scene.WithUserData(map[string]any{"time": 1e8}))
	late := scene.NewObject(scene.TypePoints, scene.WithUserData(map[string]any{"time": 9e8}))
	f.scenes.AddEventDataTypeGroup("Hits").Add(early, late)

	f.anim.Update(1)
	assert.True(t, late.Visible)
	assert.Equal(t, float64(0), f.anim.TimeProgress())

	f.anim.SetEventTime(1e9)
	f.anim.Update(0.5)
	assert.True(t, early.Visible)
	assert.False(t, late.Visible)
	assert.InDelta(t, 0.5, f.anim.TimeProgress(), 1e-9)

	f.anim.Update(5)
	assert.True(t, late.Visible)
	assert.Equal(t, float64(1), f.anim.TimeProgress())

	f.anim.SetNormalizedTime(-1)
	assert.Equal(t, float64(0), f.anim.TimeProgress())
}
