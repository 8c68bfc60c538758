package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/config"
	"github.com/Carmen-Shannon/phoenix-go/engine/loader"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/profiler"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/window"
	"github.com/Carmen-Shannon/phoenix-go/engine/xr"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = `o Test
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

const singleEvent = `{
  "runNumber": 7,
  "Hits": {"HitColl": [[1, 2, 3], [4, 5, 6]]}
}`

const manyEvents = `{
  "first": {"Hits": {"A": [[1, 2, 3]]}},
  "second": {"Hits": {"B": [[4, 5, 6]]}}
}`

func newHeadless(t *testing.T, options ...config.ConfigurationBuilderOption) EventDisplay {
	t.Helper()
	cfg := config.NewConfiguration(append([]config.ConfigurationBuilderOption{config.WithWindow("", 800, 600)}, options...)...)
	d, err := NewEventDisplay(WithHeadless(), WithConfiguration(cfg))
	require.NoError(t, err)
	t.Cleanup(d.Release)
	return d
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func lastFrame(t *testing.T, d EventDisplay) renderer.RecordedFrame {
	t.Helper()
	f, ok := renderer.LastFrame(d.Renderer())
	require.True(t, ok)
	return f
}

// shortcut presses key with shift held and runs the posted action.
func shortcut(t *testing.T, d EventDisplay, key uint32) {
	t.Helper()
	d.HandleKeyDown(common.KeyLeftShift)
	d.HandleKeyDown(key)
	d.HandleKeyUp(key)
	d.HandleKeyUp(common.KeyLeftShift)
	require.NoError(t, d.Frame(0))
}

func TestNewEventDisplayWiresManagers(t *testing.T) {
	d := newHeadless(t, config.WithDefaultView(mgl32.Vec3{0, 100, 300}, mgl32.Vec3{0, 0, 10}))

	assert.Nil(t, d.Window())
	assert.NotNil(t, d.Scene())
	assert.NotNil(t, d.Selection())
	assert.NotNil(t, d.Animation())
	assert.NotNil(t, d.Loading())
	assert.NotNil(t, d.Loader())
	assert.NotNil(t, d.EventData())
	assert.NotNil(t, d.Scheduler())
	assert.Equal(t, config.DefaultElementID, d.Configuration().ElementID)

	w, h := d.Renderer().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	ctrl := d.Controls().Active().Controller()
	assert.Equal(t, mgl32.Vec3{0, 100, 300}, ctrl.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, ctrl.Target())
}

func TestFrameRendersMainAndOverlayViews(t *testing.T) {
	d := newHeadless(t)
	box := scene.NewObject(scene.TypeMesh,
		scene.WithName("Box"),
		scene.WithGeometry(model.NewBoxGeometry(10, 10, 10)),
		scene.WithMaterial(d.Scene().NewGeometryMaterial()),
	)
	d.Scene().AddGeometry(box)

	require.NoError(t, d.Frame(1.0/60))
	f := lastFrame(t, d)
	require.Len(t, f.Views, 2)
	assert.Equal(t, renderer.FullViewport, f.Views[0].Viewport)
	assert.Equal(t, [4]uint32{0, 0, 800, 600}, f.Views[0].Pixels)
	assert.Equal(t, [4]uint32{600, 450, 200, 150}, f.Views[1].Pixels)
	require.NotEmpty(t, f.Views[0].Items)
	assert.Same(t, box, f.Views[0].Items[0].Object)
	background, _ := d.Scene().Background()
	assert.Equal(t, background, f.Clear)

	d.ShowOverlay(nil)
	require.NoError(t, d.Frame(1.0/60))
	assert.Len(t, lastFrame(t, d).Views, 1)

	d.ShowOverlay(&renderer.Viewport{X: 0, Y: 0, Width: 0.5, Height: 0.5})
	require.NoError(t, d.Frame(1.0/60))
	f = lastFrame(t, d)
	require.Len(t, f.Views, 2)
	assert.Equal(t, [4]uint32{0, 0, 400, 300}, f.Views[1].Pixels)
}

func TestResizeReachesRendererAndCameras(t *testing.T) {
	d := newHeadless(t)
	d.Resize(400, 200)
	require.NoError(t, d.Frame(0))

	w, h := d.Renderer().Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 200, h)
	assert.InDelta(t, 2.0, d.Controls().Main().Aspect(), 1e-6)

	d.Resize(0, 100)
	w, _ = d.Renderer().Size()
	assert.Equal(t, 400, w)
}

func TestPostedTasksRunOnNextFrame(t *testing.T) {
	d := newHeadless(t)
	var order []int
	d.Post(func() {
		order = append(order, 1)
		d.Post(func() { order = append(order, 3) })
	})
	d.Post(func() { order = append(order, 2) })
	d.Post(nil)
	assert.Empty(t, order)

	require.NoError(t, d.Frame(0))
	assert.Equal(t, []int{1, 2}, order)
	require.NoError(t, d.Frame(0))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestShortcutsNeedShift(t *testing.T) {
	d := newHeadless(t)
	require.False(t, d.DarkTheme())

	d.HandleKeyDown(common.KeyT)
	require.NoError(t, d.Frame(0))
	assert.False(t, d.DarkTheme())

	shortcut(t, d, common.KeyT)
	assert.True(t, d.DarkTheme())

	d.HandleKeyDown(common.KeyRightShift)
	d.HandleKeyDown(common.KeyT)
	require.NoError(t, d.Frame(0))
	assert.False(t, d.DarkTheme())
	d.HandleKeyUp(common.KeyRightShift)

	d.HandleKeyDown(common.KeyT)
	require.NoError(t, d.Frame(0))
	assert.False(t, d.DarkTheme())
}

func TestAutoRotateShortcut(t *testing.T) {
	d := newHeadless(t)
	shortcut(t, d, common.KeyR)
	assert.True(t, d.Controls().AutoRotating())
	shortcut(t, d, common.KeyR)
	assert.False(t, d.Controls().AutoRotating())
}

func TestSelectingFollowsConfigurationAndShortcut(t *testing.T) {
	d := newHeadless(t)
	assert.False(t, d.Selection().Selecting())
	shortcut(t, d, common.KeyS)
	assert.True(t, d.Selection().Selecting())
	shortcut(t, d, common.KeyS)
	assert.False(t, d.Selection().Selecting())

	selecting := newHeadless(t, config.WithSelecting(true))
	assert.True(t, selecting.Selection().Selecting())
}

func TestClippingShortcut(t *testing.T) {
	d := newHeadless(t)
	d.Scene().SetClippingAngle(40, 60)

	shortcut(t, d, common.KeyC)
	assert.True(t, d.Scene().ClippingEnabled())
	start, opening := d.Scene().ClippingAngle()
	assert.Equal(t, float32(0), start)
	assert.Equal(t, float32(180), opening)

	shortcut(t, d, common.KeyC)
	assert.False(t, d.Scene().ClippingEnabled())
}

func TestSwapCamerasShortcut(t *testing.T) {
	d := newHeadless(t)
	require.Equal(t, camera.Perspective, d.Controls().Main().Kind())

	shortcut(t, d, common.KeyV)
	assert.Equal(t, camera.Orthographic, d.Controls().Main().Kind())
	shortcut(t, d, common.KeyV)
	assert.Equal(t, camera.Perspective, d.Controls().Main().Kind())
}

func TestZoomShortcuts(t *testing.T) {
	d := newHeadless(t)
	shortcut(t, d, common.KeyEqual)
	for range 3 {
		require.NoError(t, d.Frame(0.05))
	}
	assert.InDelta(t, 200/1.2, d.Controls().Perspective().Position().Z(), 1e-2)

	shortcut(t, d, common.KeyMinus)
	for range 3 {
		require.NoError(t, d.Frame(0.05))
	}
	assert.InDelta(t, 200, d.Controls().Perspective().Position().Z(), 1e-2)
}

func TestPresetViewShortcut(t *testing.T) {
	on := true
	d := newHeadless(t, config.WithPresetView("Side", mgl32.Vec3{500, 0, 0}, mgl32.Vec3{0, 0, 20}, ""))
	d.Configuration().PresetViews[0].Clipping = &on
	d.Configuration().PresetViews[0].ClippingStart = 90
	d.Configuration().PresetViews[0].ClippingOpening = 45

	shortcut(t, d, common.Key1)
	for range 6 {
		require.NoError(t, d.Frame(0.25))
	}
	ctrl := d.Controls().Active().Controller()
	pos, target := ctrl.Position(), ctrl.Target()
	assert.InDeltaSlice(t, []float32{500, 0, 0}, pos[:], 1e-2)
	assert.InDeltaSlice(t, []float32{0, 0, 20}, target[:], 1e-2)
	assert.True(t, d.Scene().ClippingEnabled())
	start, opening := d.Scene().ClippingAngle()
	assert.Equal(t, float32(90), start)
	assert.Equal(t, float32(45), opening)

	assert.False(t, d.DisplayPresetView(8))
	shortcut(t, d, common.Key9)
}

func TestLeftDragOrbitsAndKeepsDistance(t *testing.T) {
	d := newHeadless(t)
	before := d.Controls().Active().Position()

	d.HandleMouseButton(window.MouseLeft, true, 400, 300)
	d.HandleMouseMove(460, 300)
	d.HandleMouseButton(window.MouseLeft, false, 460, 300)
	for range 30 {
		require.NoError(t, d.Frame(1.0/60))
	}

	after := d.Controls().Active().Position()
	assert.NotEqual(t, before, after)
	assert.InDelta(t, 200, after.Len(), 1e-2)
}

func TestRightDragPans(t *testing.T) {
	d := newHeadless(t)
	d.HandleMouseButton(window.MouseRight, true, 400, 300)
	d.HandleMouseMove(450, 300)
	d.HandleMouseButton(window.MouseRight, false, 450, 300)
	for range 30 {
		require.NoError(t, d.Frame(1.0/60))
	}
	assert.NotEqual(t, mgl32.Vec3{}, d.Controls().Active().Controller().Target())
}

func TestScrollZooms(t *testing.T) {
	d := newHeadless(t)
	d.HandleScroll(2)
	for range 30 {
		require.NoError(t, d.Frame(1.0/60))
	}
	assert.Less(t, d.Controls().Active().Controller().Distance(), float32(200))
}

func TestEscapeQuitsRun(t *testing.T) {
	d := newHeadless(t)
	d.SetRenderFrameLimit(500)
	frames := make(chan struct{}, 1)
	d.SetFrameCallback(func(float32) {
		select {
		case frames <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		d.Run()
		close(done)
	}()

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("frame loop did not start")
	}
	d.HandleKeyDown(common.KeyEsc)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after escape")
	}
	d.Quit()
}

func TestLoadEventFile(t *testing.T) {
	d := newHeadless(t)
	require.NoError(t, d.LoadEventFile(writeFile(t, "event.json", singleEvent), ""))
	assert.Equal(t, []string{"HitColl"}, d.EventData().Collections())
	assert.Equal(t, 0, d.Loading().Pending())

	path := writeFile(t, "events.json", manyEvents)
	require.NoError(t, d.LoadEventFile(path, "second"))
	assert.Equal(t, []string{"B"}, d.EventData().Collections())
	assert.Nil(t, d.Scene().EventData().FindByName("HitColl"))

	assert.ErrorIs(t, d.LoadEventFile(path, "third"), ErrUnknownEvent)
	assert.ErrorIs(t, d.LoadEventFile(filepath.Join(t.TempDir(), "missing.json"), ""), os.ErrNotExist)
	assert.Equal(t, 0, d.Loading().Pending())
}

func TestDefaultEventFileLoadsOnStartup(t *testing.T) {
	path := writeFile(t, "event.json", singleEvent)
	d := newHeadless(t, config.WithDefaultEventFile(path, "json", ""))
	assert.Equal(t, []string{"HitColl"}, d.EventData().Collections())

	cfg := config.NewConfiguration(config.WithDefaultEventFile(path, "jivexml", ""))
	_, err := NewEventDisplay(WithHeadless(), WithConfiguration(cfg))
	assert.ErrorIs(t, err, ErrUnsupportedEventType)
}

func TestLoadGeometryAndArchiveRoundTrip(t *testing.T) {
	d := newHeadless(t)
	require.NoError(t, d.LoadGeometry(writeFile(t, "test.obj", triangleOBJ), "Test", loader.WithColor(0xff0000)))
	require.NotNil(t, d.Scene().Geometries().FindByName("Test"))
	assert.Contains(t, d.ExportOBJ(), "v 0 1 0")

	data, err := d.ExportArchive()
	require.NoError(t, err)

	other := newHeadless(t)
	require.NoError(t, other.LoadArchive(data))
	test := other.Scene().Geometries().FindByName("Test")
	require.NotNil(t, test)

	assert.Error(t, other.LoadArchive([]byte("{")))
	assert.NotNil(t, other.Scene().Geometries().FindByName("Test"))
}

func TestLoadGeometryAsyncAddsOnDisplayGoroutine(t *testing.T) {
	d := newHeadless(t)
	loaded := false
	d.Loading().OnAllLoaded(func() { loaded = true })
	d.LoadGeometryAsync(loader.FormatOBJ, "Async", []byte(triangleOBJ))

	require.Eventually(t, func() bool {
		require.NoError(t, d.Frame(0))
		return d.Scene().Geometries().FindByName("Async") != nil && loaded
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSaveAndLoadState(t *testing.T) {
	d := newHeadless(t)
	d.Controls().SetView(mgl32.Vec3{0, 50, 100}, mgl32.Vec3{})
	d.Scene().SetClippingEnabled(true)
	d.Scene().SetClippingAngle(10, 90)

	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, d.SaveState(path))

	other := newHeadless(t)
	require.NoError(t, other.LoadState(path))
	assert.Equal(t, mgl32.Vec3{0, 50, 100}, other.Controls().Active().Position())
	assert.True(t, other.Scene().ClippingEnabled())
	start, opening := other.Scene().ClippingAngle()
	assert.Equal(t, float32(10), start)
	assert.Equal(t, float32(90), opening)

	assert.ErrorIs(t, other.LoadState("state.json"), config.ErrUnknownFormat)
}

type fakeSession struct{ onEnd func() }

func (s *fakeSession) End()                     {}
func (s *fakeSession) OnEnd(callback func())    { s.onEnd = callback }
func (s *fakeSession) OnSelect(func(int, bool)) {}

type fakePlatform struct {
	last *fakeSession
}

func (p *fakePlatform) Supports(mode string) bool { return mode == xr.VR.Mode() }

func (p *fakePlatform) RequestSession(xr.SessionInit) (xr.Session, error) {
	p.last = &fakeSession{}
	return p.last, nil
}

// platformEnd ends the session from the headset side.
func (p *fakePlatform) platformEnd() { p.last.onEnd() }

func TestImmersiveSessionTakesOverFrameLoop(t *testing.T) {
	platform := &fakePlatform{}
	cfg := config.NewConfiguration(config.WithWindow("", 800, 600))
	d, err := NewEventDisplay(WithHeadless(), WithConfiguration(cfg), WithXRPlatform(platform))
	require.NoError(t, err)
	t.Cleanup(d.Release)

	assert.ErrorIs(t, d.XR().RequestSession(xr.AR, nil, nil), xr.ErrUnsupportedSession)

	require.NoError(t, d.XR().RequestSession(xr.VR, nil, nil))
	assert.False(t, d.Controls().Active().Controller().Enabled())
	require.NoError(t, d.Frame(1.0/60))
	f := lastFrame(t, d)
	require.Len(t, f.Views, 1)
	assert.Same(t, d.XR().Camera(), f.Views[0].Camera)

	platform.platformEnd()
	require.NoError(t, d.Frame(1.0/60))
	assert.Equal(t, xr.Inactive, d.XR().State())
	assert.True(t, d.Controls().Active().Controller().Enabled())
	require.NoError(t, d.Frame(1.0/60))
	assert.Len(t, lastFrame(t, d).Views, 2)
}

func TestImmersiveUnsupportedWithoutPlatform(t *testing.T) {
	d := newHeadless(t)
	assert.False(t, d.XR().Supported(xr.VR))
	assert.ErrorIs(t, d.XR().RequestSession(xr.VR, nil, nil), xr.ErrUnsupportedSession)
}

func TestProfilerReceivesFrameStats(t *testing.T) {
	var reports []profiler.Report
	cfg := config.NewConfiguration(config.WithWindow("", 100, 100))
	d, err := NewEventDisplay(WithHeadless(), WithConfiguration(cfg),
		WithProfiling(true, profiler.WithInterval(time.Nanosecond), profiler.WithSink(func(r profiler.Report) {
			reports = append(reports, r)
		})),
	)
	require.NoError(t, err)
	t.Cleanup(d.Release)

	d.Post(func() {})
	time.Sleep(time.Millisecond)
	require.NoError(t, d.Frame(0))
	require.Len(t, reports, 1)
	assert.InDelta(t, 2.0, reports[0].Views, 1e-9)
	assert.Equal(t, 1, reports[0].Tasks)

	d.DisableProfiler()
	time.Sleep(time.Millisecond)
	require.NoError(t, d.Frame(0))
	assert.Len(t, reports, 1)
}
