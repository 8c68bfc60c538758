package engine

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/animation"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/config"
	"github.com/Carmen-Shannon/phoenix-go/engine/eventdata"
	"github.com/Carmen-Shannon/phoenix-go/engine/loader"
	"github.com/Carmen-Shannon/phoenix-go/engine/loading"
	"github.com/Carmen-Shannon/phoenix-go/engine/profiler"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/selection"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/Carmen-Shannon/phoenix-go/engine/window"
	"github.com/Carmen-Shannon/phoenix-go/engine/xr"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// presetDurationMs is the camera move duration when a preset view is shown.
	presetDurationMs = 1000

	// keyZoomFactor and keyZoomDurationMs drive the shift +/- zoom shortcuts.
	keyZoomFactor     = 1.2
	keyZoomDurationMs = 100

	defaultWidth  = 1280
	defaultHeight = 720
)

// DefaultOverlayViewport is the corner the overlay camera renders into.
var DefaultOverlayViewport = renderer.Viewport{X: 0.75, Y: 0.75, Width: 0.25, Height: 0.25}

var (
	// ErrUnknownEvent is returned when an events file has no event with the requested key.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnsupportedEventType is returned for event files in formats other than JSON.
	ErrUnsupportedEventType = errors.New("unsupported event file type")
)

// display implements the EventDisplay interface.
type display struct {
	mu *sync.Mutex

	cfg *config.Configuration

	win        window.Window
	renderer   renderer.Renderer
	scenes     scene.Manager
	controls   camera.Controls
	scheduler  tween.Scheduler
	animations animation.Manager
	selection  selection.Manager
	loading    loading.Coordinator
	assets     loader.Loader
	events     eventdata.Loader
	immersive  xr.Manager

	tasks []func()

	width, height int
	overlay       *renderer.Viewport
	inXR          bool

	leftShift, rightShift bool
	dragging              bool
	dragButton            window.MouseButton
	lastX, lastY          float32

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool
	renderFrameLimit time.Duration
	frameCallback    func(dt float32)

	// construction settings collected from builder options
	backendType     renderer.RendererBackendType
	rendererOptions []renderer.RendererBuilderOption
	platform        xr.Platform
	infoLogger      selection.InfoLogger
	verbose         bool
}

// EventDisplay is the display context. It builds and owns every manager of one display,
// routes window input to them and runs the frame loop.
//
// All scene mutation happens on the display goroutine: input callbacks and asynchronous
// loads post tasks that run at the start of the next frame. Each frame drains the posted
// tasks, advances tweens and cameras, renders the main view then the overlay view and
// finally updates the camera-following light.
type EventDisplay interface {
	// Configuration returns the configuration the display was built with.
	Configuration() *config.Configuration

	// Window returns the window, nil for a headless display.
	Window() window.Window

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// Scene returns the scene graph manager.
	Scene() scene.Manager

	// Controls returns the dual camera controls.
	Controls() camera.Controls

	// Scheduler returns the tween scheduler stepped every frame.
	Scheduler() tween.Scheduler

	// Animation returns the animation manager.
	Animation() animation.Manager

	// Selection returns the selection manager.
	Selection() selection.Manager

	// Loading returns the loading coordinator.
	Loading() loading.Coordinator

	// Loader returns the asset import pipeline.
	Loader() loader.Loader

	// EventData returns the event data loader.
	EventData() eventdata.Loader

	// XR returns the immersive session manager.
	XR() xr.Manager

	// Post queues a task for the display goroutine. Safe to call from any goroutine.
	//
	// Parameters:
	//   - task: the function to run before the next frame
	Post(task func())

	// Frame runs one display frame.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous frame
	//
	// Returns:
	//   - error: the renderer error, if any
	Frame(dt float32) error

	// Resize updates cameras, picking and the renderer for a new surface size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Resize(width, height int)

	// HandleKeyDown applies a key press. Shortcuts need a shift key held: T toggles the
	// dark theme, R auto-rotation, + and - zoom, C clipping, V swaps the main camera and
	// 1 to 9 show preset views. Escape ends an immersive session, or quits.
	//
	// Parameters:
	//   - keyCode: the key code
	HandleKeyDown(keyCode uint32)

	// HandleKeyUp applies a key release.
	//
	// Parameters:
	//   - keyCode: the key code
	HandleKeyUp(keyCode uint32)

	// HandleMouseButton applies a button change. The left button picks on click and
	// orbits on drag, the other buttons pan on drag.
	//
	// Parameters:
	//   - button: the button
	//   - pressed: true on press
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	HandleMouseButton(button window.MouseButton, pressed bool, x, y float32)

	// HandleMouseMove applies a pointer move.
	//
	// Parameters:
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	HandleMouseMove(x, y float32)

	// HandleScroll zooms the active camera.
	//
	// Parameters:
	//   - delta: scroll steps, positive zooms in
	HandleScroll(delta float32)

	// BuildEvent replaces the event data with the given event.
	//
	// Parameters:
	//   - event: the event
	//
	// Returns:
	//   - error: error if the event is nil
	BuildEvent(event *eventdata.Event) error

	// LoadEventFile reads a JSON event file and builds it. The load is tracked by the
	// loading coordinator.
	//
	// Parameters:
	//   - path: the file path
	//   - event: the event key for files holding several events, empty for a single event
	//
	// Returns:
	//   - error: read, parse or build failure
	LoadEventFile(path, event string) error

	// LoadGeometry imports a geometry file and adds it to the geometries group.
	//
	// Parameters:
	//   - path: the file path
	//   - name: the display name, empty to keep the file's own
	//   - options: import options
	//
	// Returns:
	//   - error: import failure
	LoadGeometry(path, name string, options ...loader.ImportOption) error

	// LoadGeometryAsync decodes a geometry on the worker pool and adds it on the display
	// goroutine.
	//
	// Parameters:
	//   - format: the file format
	//   - name: the display name
	//   - data: the file content
	//   - options: import options
	LoadGeometryAsync(format loader.Format, name string, data []byte, options ...loader.ImportOption)

	// LoadArchive replaces the geometries and event data with a saved scene.
	//
	// Parameters:
	//   - data: the archive bytes
	//
	// Returns:
	//   - error: decode failure, the scene is untouched
	LoadArchive(data []byte) error

	// ExportOBJ writes the clean scene as OBJ text.
	ExportOBJ() string

	// ExportArchive writes the clean scene and its configuration as an archive.
	//
	// Returns:
	//   - []byte: the archive
	//   - error: encode failure
	ExportArchive() ([]byte, error)

	// DisplayPresetView moves the camera to the index-th preset view and applies its
	// clipping setting.
	//
	// Parameters:
	//   - index: zero-based preset index
	//
	// Returns:
	//   - bool: false when there is no such preset
	DisplayPresetView(index int) bool

	// SetDarkTheme switches the background.
	SetDarkTheme(dark bool)

	// DarkTheme reports whether the dark background is shown.
	DarkTheme() bool

	// ShowOverlay enables the overlay view in the given viewport, nil hides it.
	ShowOverlay(viewport *renderer.Viewport)

	// SaveState writes the camera and clipping state, YAML or TOML by extension.
	SaveState(path string) error

	// LoadState restores a state written by SaveState.
	LoadState(path string) error

	// EnableProfiler enables performance profiling output.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetFrameCallback registers a function called after every frame.
	SetFrameCallback(callback func(dt float32))

	// Run starts the frame loop and blocks until the window closes or Quit is called.
	Run()

	// Quit stops the frame loop. Safe to call multiple times.
	Quit()

	// Release frees the renderer, watchers and decoder.
	Release()
}

var _ EventDisplay = &display{}

// NewEventDisplay builds a display and every manager it owns from the configuration.
// Without WithHeadless a window is opened for the WGPU renderer.
//
// Parameters:
//   - options: functional options for display configuration
//
// Returns:
//   - EventDisplay: the display
//   - error: error if the window, renderer or default event cannot be created
func NewEventDisplay(options ...EventDisplayBuilderOption) (EventDisplay, error) {
	overlay := DefaultOverlayViewport
	d := &display{
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
		backendType: renderer.BackendTypeWGPU,
		overlay:     &overlay,
	}
	for _, opt := range options {
		opt(d)
	}
	if d.cfg == nil {
		d.cfg = config.NewConfiguration()
	}
	d.verbose = d.verbose || d.cfg.Verbose
	if d.profiler == nil {
		d.profiler = profiler.NewProfiler()
	}

	d.width, d.height = d.cfg.Window.Width, d.cfg.Window.Height
	if d.width <= 0 || d.height <= 0 {
		d.width, d.height = defaultWidth, defaultHeight
	}

	if d.backendType == renderer.BackendTypeWGPU && d.win == nil {
		title := d.cfg.Window.Title
		if title == "" {
			title = d.cfg.ElementID
		}
		win, err := window.NewWindow(window.WithTitle(title), window.WithSize(d.width, d.height))
		if err != nil {
			return nil, fmt.Errorf("failed to open display window: %w", err)
		}
		d.win = win
	}
	if d.win != nil {
		d.width, d.height = d.win.Width(), d.win.Height()
	}

	rendererOptions := append([]renderer.RendererBuilderOption{
		renderer.WithSize(d.width, d.height),
		renderer.WithVerbose(d.verbose),
	}, d.rendererOptions...)
	r, err := renderer.NewRenderer(d.backendType, d.win, rendererOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create display renderer: %w", err)
	}
	d.renderer = r

	d.loading = loading.NewCoordinator(loading.WithVerbose(d.verbose))
	d.scheduler = tween.NewScheduler()
	d.scenes = scene.NewManager(
		scene.WithDarkBackground(d.cfg.DarkTheme),
		scene.WithCameraFollowingLight(d.cfg.CameraLight),
		scene.WithVerbose(d.verbose),
	)
	d.controls = camera.NewControls(
		camera.WithDefaultView(d.cfg.DefaultPosition(), d.cfg.DefaultTarget()),
		camera.WithViewportSize(float32(d.width), float32(d.height)),
		camera.WithScheduler(d.scheduler),
		camera.WithControlsVerbose(d.verbose),
	)
	d.controls.HideTubeTracksOnZoom(d.scenes.Root(), camera.DefaultTubeHideRadius)
	d.controls.AutoRotate(d.cfg.AutoRotate)
	d.animations = animation.NewManager(d.scenes, d.controls, d.scheduler, animation.WithVerbose(d.verbose))

	selectionOptions := []selection.ManagerBuilderOption{selection.WithVerbose(d.verbose)}
	if d.infoLogger != nil {
		selectionOptions = append(selectionOptions, selection.WithInfoLogger(d.infoLogger))
	}
	d.selection = selection.NewManager(d.scenes.Root(), d.controls, selectionOptions...)
	d.selection.SetViewport(common.Viewport{Width: d.width, Height: d.height})
	d.selection.SetSelecting(d.cfg.Selecting)

	d.assets = loader.NewLoader(d.scenes,
		loader.WithCoordinator(d.loading),
		loader.WithDispatcher(d.Post),
		loader.WithVerbose(d.verbose),
	)
	d.events = eventdata.NewLoader(eventdata.WithVerbose(d.verbose))
	d.immersive = xr.NewManager(d.platform, d.scenes, d.controls,
		xr.WithLoopSwitch(d.setImmersive),
		xr.WithDispatcher(d.Post),
		xr.WithVerbose(d.verbose),
	)

	if d.win != nil {
		d.bindWindow()
	}

	if f := d.cfg.DefaultEventFile; f != nil {
		if f.Type != "" && f.Type != "json" {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedEventType, f.Type)
		}
		if err := d.LoadEventFile(f.Path, f.Event); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *display) bindWindow() {
	d.win.SetResizeCallback(func(width, height int) {
		d.Post(func() { d.Resize(width, height) })
	})
	d.win.SetKeyDownCallback(d.HandleKeyDown)
	d.win.SetKeyUpCallback(d.HandleKeyUp)
	d.win.SetMouseButtonCallback(d.HandleMouseButton)
	d.win.SetMouseMoveCallback(d.HandleMouseMove)
	d.win.SetScrollCallback(d.HandleScroll)
}

func (d *display) debugf(format string, args ...any) {
	if d.verbose {
		log.Printf("[display] "+format, args...)
	}
}

func (d *display) Configuration() *config.Configuration { return d.cfg }
func (d *display) Window() window.Window                { return d.win }
func (d *display) Renderer() renderer.Renderer          { return d.renderer }
func (d *display) Scene() scene.Manager                 { return d.scenes }
func (d *display) Controls() camera.Controls            { return d.controls }
func (d *display) Scheduler() tween.Scheduler           { return d.scheduler }
func (d *display) Animation() animation.Manager         { return d.animations }
func (d *display) Selection() selection.Manager         { return d.selection }
func (d *display) Loading() loading.Coordinator         { return d.loading }
func (d *display) Loader() loader.Loader                { return d.assets }
func (d *display) EventData() eventdata.Loader          { return d.events }
func (d *display) XR() xr.Manager                       { return d.immersive }

func (d *display) Post(task func()) {
	if task == nil {
		return
	}
	d.mu.Lock()
	d.tasks = append(d.tasks, task)
	d.mu.Unlock()
}

// drainTasks runs the posted tasks in order. Tasks posted while draining run next frame.
func (d *display) drainTasks() int {
	d.mu.Lock()
	tasks := d.tasks
	d.tasks = nil
	d.mu.Unlock()
	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

func (d *display) setImmersive(immersive bool) {
	d.mu.Lock()
	d.inXR = immersive
	d.mu.Unlock()
	d.controls.SetEnabled(!immersive)
	d.debugf("immersive loop %v", immersive)
}

func (d *display) Frame(dt float32) error {
	tasks := d.drainTasks()

	d.mu.Lock()
	inXR := d.inXR
	overlay := d.overlay
	d.mu.Unlock()

	d.scheduler.Update(dt * 1000)
	var views []renderer.View
	lights := d.scenes.Lights()
	root := d.scenes.Root()
	if inXR {
		d.immersive.Update(time.Duration(float64(dt) * float64(time.Second)))
		if cam := d.immersive.Camera(); cam != nil {
			cam.Update()
			views = append(views, renderer.View{Root: root, Camera: cam, Viewport: renderer.FullViewport, Lights: lights})
		}
	} else {
		d.controls.Update(dt)
		views = append(views, renderer.View{Root: root, Camera: d.controls.Main(), Viewport: renderer.FullViewport, Lights: lights})
		if overlay != nil {
			views = append(views, renderer.View{Root: root, Camera: d.controls.Overlay(), Viewport: *overlay, Lights: lights})
		}
	}
	d.animations.Update(dt)

	background, _ := d.scenes.Background()
	err := d.renderer.Render(background, views...)
	if len(views) > 0 {
		d.scenes.UpdateLighting(views[0].Camera.Position())
	}

	if d.profilingEnabled && d.profiler != nil {
		d.profiler.Tick(d.renderer.Stats(), tasks)
	}
	if d.frameCallback != nil {
		d.frameCallback(dt)
	}
	if err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}
	return nil
}

func (d *display) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.mu.Lock()
	d.width, d.height = width, height
	d.mu.Unlock()
	d.renderer.Resize(width, height)
	d.controls.Resize(float32(width), float32(height))
	d.selection.SetViewport(common.Viewport{Width: width, Height: height})
}

func (d *display) shift() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.leftShift || d.rightShift
}

func (d *display) HandleKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyLeftShift:
		d.mu.Lock()
		d.leftShift = true
		d.mu.Unlock()
		return
	case common.KeyRightShift:
		d.mu.Lock()
		d.rightShift = true
		d.mu.Unlock()
		return
	case common.KeyEsc:
		d.Post(func() {
			if d.immersive.State() == xr.Active {
				d.immersive.End()
				return
			}
			d.Quit()
		})
		return
	}
	if !d.shift() {
		return
	}

	switch {
	case keyCode == common.KeyT:
		d.Post(func() { d.SetDarkTheme(!d.DarkTheme()) })
	case keyCode == common.KeyR:
		d.Post(func() { d.controls.AutoRotate(!d.controls.AutoRotating()) })
	case keyCode == common.KeyEqual:
		d.Post(func() { d.controls.ZoomTo(1/keyZoomFactor, keyZoomDurationMs) })
	case keyCode == common.KeyMinus:
		d.Post(func() { d.controls.ZoomTo(keyZoomFactor, keyZoomDurationMs) })
	case keyCode == common.KeyC:
		d.Post(func() {
			enabled := !d.scenes.ClippingEnabled()
			d.scenes.SetClippingEnabled(enabled)
			if enabled {
				d.scenes.SetClippingAngle(0, 180)
			}
		})
	case keyCode == common.KeyS:
		d.Post(func() { d.selection.SetSelecting(!d.selection.Selecting()) })
	case keyCode == common.KeyV:
		d.Post(func() {
			orthographic := d.controls.Main().Kind() == camera.Orthographic
			d.controls.SwapCameras(!orthographic)
		})
	case keyCode >= common.Key1 && keyCode <= common.Key9:
		index := int(keyCode - common.Key1)
		d.Post(func() { d.DisplayPresetView(index) })
	}
}

func (d *display) HandleKeyUp(keyCode uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch keyCode {
	case common.KeyLeftShift:
		d.leftShift = false
	case common.KeyRightShift:
		d.rightShift = false
	}
}

func (d *display) HandleMouseButton(button window.MouseButton, pressed bool, x, y float32) {
	d.Post(func() {
		d.mu.Lock()
		if pressed {
			d.dragging, d.dragButton = true, button
			d.lastX, d.lastY = x, y
		} else if d.dragButton == button {
			d.dragging = false
		}
		d.mu.Unlock()

		if button != window.MouseLeft {
			return
		}
		if pressed {
			d.selection.OnPointerDown(x, y)
		} else {
			d.selection.OnPointerUp(x, y)
		}
	})
}

func (d *display) HandleMouseMove(x, y float32) {
	d.Post(func() {
		d.mu.Lock()
		dragging, button := d.dragging, d.dragButton
		dx, dy := x-d.lastX, y-d.lastY
		d.lastX, d.lastY = x, y
		height := float32(max(d.height, 1))
		d.mu.Unlock()

		if !dragging {
			d.selection.OnPointerMove(x, y)
			return
		}
		active := d.controls.Active()
		ctrl := active.Controller()
		if ctrl == nil {
			return
		}
		if button == window.MouseLeft {
			ctrl.Rotate(-2*math.Pi*dx/height, 2*math.Pi*dy/height)
			return
		}
		// world units per pixel at the target distance
		scale := 2 * ctrl.Distance() / height
		if active.Kind() == camera.Perspective {
			scale *= float32(math.Tan(float64(mgl32.DegToRad(active.Fov()) / 2)))
		} else {
			scale /= max(active.Zoom(), 1e-6)
		}
		ctrl.Pan(-dx*scale, dy*scale)
	})
}

func (d *display) HandleScroll(delta float32) {
	d.Post(func() {
		if ctrl := d.controls.Active().Controller(); ctrl != nil {
			ctrl.Zoom(delta)
		}
	})
}

func (d *display) BuildEvent(event *eventdata.Event) error {
	if event == nil {
		return d.events.BuildEventData(nil, d.scenes)
	}
	d.scenes.ClearEventData()
	if err := d.events.BuildEventData(event, d.scenes); err != nil {
		return err
	}
	d.debugf("built event with %d collections", len(d.events.Collections()))
	return nil
}

func (d *display) LoadEventFile(path, event string) error {
	d.loading.Register(path)
	defer d.loading.Complete(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}
	var e *eventdata.Event
	if event == "" {
		e, err = eventdata.ParseEvent(data)
		if err != nil {
			return err
		}
	} else {
		all, err := eventdata.ParseEvents(data)
		if err != nil {
			return err
		}
		var ok bool
		if e, ok = all[event]; !ok {
			return fmt.Errorf("%w: %q in %s", ErrUnknownEvent, event, path)
		}
	}
	return d.BuildEvent(e)
}

func (d *display) LoadGeometry(path, name string, options ...loader.ImportOption) error {
	imported, err := d.assets.Load(path, name, options...)
	if err != nil {
		return err
	}
	for _, imp := range imported {
		d.scenes.AddGeometry(imp.Object)
	}
	return nil
}

func (d *display) LoadGeometryAsync(format loader.Format, name string, data []byte, options ...loader.ImportOption) {
	d.assets.LoadAsync(format, name, data, func(imported []loader.Imported, err error) {
		if err != nil {
			log.Printf("failed to load geometry %q: %v", name, err)
			return
		}
		for _, imp := range imported {
			d.scenes.AddGeometry(imp.Object)
		}
	}, options...)
}

func (d *display) LoadArchive(data []byte) error {
	archive, err := d.assets.LoadArchive(data)
	if err != nil {
		return err
	}
	d.scenes.ClearGeometries()
	d.scenes.ClearEventData()
	if archive.Geometries != nil {
		for _, g := range archive.Geometries.Children() {
			d.scenes.AddGeometry(g)
		}
	}
	if archive.EventData != nil {
		eventData := d.scenes.EventData()
		for _, child := range archive.EventData.Children() {
			eventData.Add(child)
		}
	}
	return nil
}

func (d *display) ExportOBJ() string {
	return loader.ExportOBJ(d.scenes.CleanScene())
}

func (d *display) ExportArchive() ([]byte, error) {
	clean := d.scenes.CleanScene()
	cfg := loader.NewSceneConfiguration(d.scenes.EventData(), d.scenes.Geometries())
	return loader.ExportArchive(clean, cfg)
}

func (d *display) DisplayPresetView(index int) bool {
	if index < 0 || index >= len(d.cfg.PresetViews) {
		return false
	}
	p := d.cfg.PresetViews[index]
	d.animations.AnimateCameraTransform(p.Position(), p.Target(), presetDurationMs, nil)
	if p.Clipping != nil {
		d.scenes.SetClippingAngle(p.ClippingStart, p.ClippingOpening)
		d.scenes.SetClippingEnabled(*p.Clipping)
	}
	d.debugf("preset view %q", p.Name)
	return true
}

func (d *display) SetDarkTheme(dark bool) {
	d.scenes.SetBackground(dark)
}

func (d *display) DarkTheme() bool {
	_, dark := d.scenes.Background()
	return dark
}

func (d *display) ShowOverlay(viewport *renderer.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if viewport == nil {
		d.overlay = nil
		return
	}
	v := *viewport
	d.overlay = &v
}

func (d *display) SaveState(path string) error {
	return config.SaveState(path, config.CaptureState(d.controls, d.scenes))
}

func (d *display) LoadState(path string) error {
	s, err := config.LoadState(path)
	if err != nil {
		return err
	}
	s.Apply(d.controls, d.scenes)
	return nil
}

func (d *display) EnableProfiler() {
	d.profilingEnabled = true
}

func (d *display) DisableProfiler() {
	d.profilingEnabled = false
}

func (d *display) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		d.renderFrameLimit = 0
		return
	}
	d.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (d *display) SetFrameCallback(callback func(dt float32)) {
	d.frameCallback = callback
}

// Run starts the frame goroutine. With a window the calling goroutine pumps window
// messages until the window closes; headless displays block until Quit.
func (d *display) Run() {
	d.wg.Add(2)
	go d.handleFrames()
	go d.handleQuit()

	if d.win != nil {
		// glfw must be closed on the thread pumping its messages
		d.win.SetUpdateCallback(func() {
			select {
			case <-d.quitChannel:
				if err := d.win.Close(); err != nil {
					d.debugf("failed to close window: %v", err)
				}
			default:
			}
		})
		d.win.ProcessMessages()
		d.signalQuit()
	}
	d.wg.Wait()
}

// Quit signals the frame goroutine to stop. A window is closed by the message loop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (d *display) Quit() {
	d.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (d *display) signalQuit() {
	d.quitOnce.Do(func() {
		close(d.quitChannel)
	})
}

// handleFrames runs the frame loop in its own goroutine, optionally frame limited.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (d *display) handleFrames() {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame goroutine recovered from panic: %v", r)
			d.signalQuit()
		}
	}()

	lastFrame := time.Now()
	for {
		select {
		case <-d.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastFrame).Seconds())
			lastFrame = now

			if err := d.Frame(dt); err != nil {
				d.debugf("%v", err)
			}

			if d.renderFrameLimit > 0 {
				if remaining := d.renderFrameLimit - time.Since(now); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (d *display) handleQuit() {
	defer d.wg.Done()
	<-d.quitChannel
}

func (d *display) Release() {
	d.signalQuit()
	d.assets.Dispose()
	d.renderer.Release()
	if d.win != nil && d.win.IsRunning() {
		if err := d.win.Close(); err != nil {
			d.debugf("failed to close window: %v", err)
		}
	}
}
