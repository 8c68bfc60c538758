package xr

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	ended    int
	onEnd    func()
	onSelect func(int, bool)
}

func (s *fakeSession) End() {
	s.ended++
	if s.onEnd != nil {
		s.onEnd()
	}
}

func (s *fakeSession) OnEnd(callback func()) { s.onEnd = callback }

func (s *fakeSession) OnSelect(callback func(int, bool)) { s.onSelect = callback }

func (s *fakeSession) platformEnd() { s.onEnd() }

type fakePlatform struct {
	modes    map[string]bool
	err      error
	requests []SessionInit
	session  *fakeSession
}

func (p *fakePlatform) Supports(mode string) bool { return p.modes[mode] }

func (p *fakePlatform) RequestSession(init SessionInit) (Session, error) {
	p.requests = append(p.requests, init)
	if p.err != nil {
		return nil, p.err
	}
	p.session = &fakeSession{}
	return p.session, nil
}

type fixture struct {
	platform *fakePlatform
	scenes   scene.Manager
	controls camera.Controls
	loops    []bool
	manager  Manager
}

func newFixture(modes ...string) *fixture {
	f := &fixture{
		platform: &fakePlatform{modes: map[string]bool{}},
		scenes:   scene.NewManager(),
		controls: camera.NewControls(),
	}
	for _, mode := range modes {
		f.platform.modes[mode] = true
	}
	f.controls.SetView(mgl32.Vec3{0, 0, 200}, mgl32.Vec3{0, 0, 0})
	f.manager = NewManager(f.platform, f.scenes, f.controls,
		WithLoopSwitch(func(immersive bool) { f.loops = append(f.loops, immersive) }),
	)
	return f
}

func TestUnsupportedKindLeavesStateUnchanged(t *testing.T) {
	f := newFixture(VR.Mode())
	children := f.scenes.Root().ChildCount()

	err := f.manager.RequestSession(AR, nil, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedSession))
	assert.Equal(t, Inactive, f.manager.State())
	assert.Nil(t, f.manager.Rig())
	assert.Equal(t, children, f.scenes.Root().ChildCount())
	assert.Empty(t, f.platform.requests)
	assert.Empty(t, f.loops)

	none := NewManager(nil, f.scenes, f.controls)
	assert.False(t, none.Supported(VR))
	assert.True(t, errors.Is(none.RequestSession(VR, nil, nil), ErrUnsupportedSession))
}

func TestPlatformErrorReturnsToInactive(t *testing.T) {
	f := newFixture(VR.Mode())
	f.platform.err = errors.New("denied")

	err := f.manager.RequestSession(VR, nil, nil)
	assert.ErrorIs(t, err, f.platform.err)
	assert.Equal(t, Inactive, f.manager.State())
	assert.Nil(t, f.scenes.Root().FindByName(RigName))
}

func TestVRSessionLifecycle(t *testing.T) {
	f := newFixture(VR.Mode())
	started, ended := 0, 0

	require.NoError(t, f.manager.RequestSession(VR, func() { started++ }, func() { ended++ }))
	assert.Equal(t, Active, f.manager.State())
	assert.Equal(t, VR, f.manager.Kind())
	assert.Equal(t, 1, started)
	assert.Equal(t, []bool{true}, f.loops)

	require.Len(t, f.platform.requests, 1)
	assert.Equal(t, SessionInit{
		Mode:             "immersive-vr",
		ReferenceSpace:   "local-floor",
		OptionalFeatures: []string{"local-floor", "bounded-floor", "hand-tracking"},
	}, f.platform.requests[0])

	rig := f.manager.Rig()
	require.NotNil(t, rig)
	assert.Same(t, f.scenes.Root(), rig.Parent())
	assert.Equal(t, mgl32.Vec3{0, 0, 200}, rig.Position)
	assert.NotNil(t, rig.FindByName(RigCameraName))
	controllers := []*scene.Object{rig.FindByName(ControllerName(0)), rig.FindByName(ControllerName(1))}
	for _, ctrl := range controllers {
		require.NotNil(t, ctrl)
		pointer := ctrl.FindByName(PointerName)
		require.NotNil(t, pointer)
		assert.Equal(t, float32(50), pointer.Scale.Z())
	}
	assert.NotSame(t, f.controls.Active(), f.manager.Camera())
	assert.ErrorIs(t, f.manager.RequestSession(VR, nil, nil), ErrSessionActive)

	f.manager.End()
	assert.Equal(t, Inactive, f.manager.State())
	assert.Equal(t, 1, ended)
	assert.Equal(t, 1, f.platform.session.ended)
	assert.Equal(t, []bool{true, false}, f.loops)
	assert.Nil(t, rig.Parent())
	for _, ctrl := range controllers {
		assert.Nil(t, ctrl.Parent())
	}
	assert.Equal(t, 1, rig.ChildCount(), "only the camera node stays on the rig")
	assert.Nil(t, f.manager.Rig())
	assert.Nil(t, f.manager.Camera())

	f.platform.session.platformEnd()
	f.manager.End()
	assert.Equal(t, 1, ended)
	assert.Equal(t, []bool{true, false}, f.loops)
}

func TestPlatformEndFinishesSession(t *testing.T) {
	f := newFixture(VR.Mode())
	ended := 0
	require.NoError(t, f.manager.RequestSession(VR, nil, func() { ended++ }))
	first := f.platform.session

	first.platformEnd()
	assert.Equal(t, Inactive, f.manager.State())
	assert.Equal(t, 1, ended)
	assert.Nil(t, f.scenes.Root().FindByName(RigName))

	require.NoError(t, f.manager.RequestSession(VR, nil, func() { ended++ }))
	first.platformEnd()
	assert.Equal(t, Active, f.manager.State(), "a stale end does not stop the new session")
	f.manager.End()
	assert.Equal(t, 2, ended)
}

func TestARScalesSceneAndRestores(t *testing.T) {
	f := newFixture(AR.Mode())
	near := f.controls.Active().Near()
	f.scenes.Geometries().Scale = mgl32.Vec3{2, 2, 2}

	require.NoError(t, f.manager.RequestSession(AR, nil, nil))
	assert.Equal(t, "local", f.platform.requests[0].ReferenceSpace)
	assert.Equal(t, []string{"dom-overlay"}, f.platform.requests[0].OptionalFeatures)
	for _, group := range []*scene.Object{f.scenes.EventData(), f.scenes.Geometries(), f.scenes.Labels()} {
		assert.Equal(t, mgl32.Vec3{0.00001, 0.00001, 0.00001}, group.Scale, group.Name)
	}
	assert.Equal(t, float32(0.01), f.controls.Active().Near())
	assert.Equal(t, float32(0.01), f.manager.Camera().Near())
	assert.Equal(t, mgl32.Vec3{0, 0, 0.1}, f.manager.Rig().Position)
	assert.Nil(t, f.manager.Rig().FindByName(ControllerName(0)))

	f.manager.End()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, f.scenes.EventData().Scale)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, f.scenes.Geometries().Scale)
	assert.Equal(t, near, f.controls.Active().Near())
}

func TestLocomotionWhileTriggerHeld(t *testing.T) {
	f := newFixture(VR.Mode())
	require.NoError(t, f.manager.RequestSession(VR, nil, nil))
	rig := f.manager.Rig()
	ctrl := f.manager.Camera().Controller()

	f.manager.Update(time.Second)
	assert.Equal(t, mgl32.Vec3{0, 0, 200}, rig.Position, "no movement without a trigger")

	f.platform.session.onSelect(0, true)
	f.manager.Update(20 * time.Millisecond)
	assert.True(t, rig.Position.ApproxEqual(mgl32.Vec3{0, 0, 170}))
	assert.True(t, ctrl.Position().ApproxEqual(mgl32.Vec3{0, 0, 170}))
	assert.True(t, ctrl.Target().ApproxEqual(mgl32.Vec3{0, 0, -30}))

	f.manager.Update(45 * time.Millisecond)
	assert.True(t, rig.Position.ApproxEqual(mgl32.Vec3{0, 0, 110}))

	f.manager.Update(15 * time.Millisecond)
	assert.True(t, rig.Position.ApproxEqual(mgl32.Vec3{0, 0, 80}), "leftover time carries over")

	f.manager.Select(0, false)
	f.manager.Update(time.Second)
	assert.True(t, rig.Position.ApproxEqual(mgl32.Vec3{0, 0, 80}))
	assert.Equal(t, mgl32.Vec3{0, 0, 200}, f.controls.Active().Position(), "the display camera stays put")
}

func TestDispatcherDefersPlatformEnd(t *testing.T) {
	f := newFixture(VR.Mode())
	var queued []func()
	m := NewManager(f.platform, f.scenes, f.controls, WithDispatcher(func(fn func()) { queued = append(queued, fn) }))
	require.NoError(t, m.RequestSession(VR, nil, nil))

	f.platform.session.platformEnd()
	assert.Equal(t, Active, m.State())
	require.Len(t, queued, 1)
	queued[0]()
	assert.Equal(t, Inactive, m.State())
}
