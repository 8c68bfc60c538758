package camera

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// lookAtDurationMs is the duration of the camera move started by LookAt.
	lookAtDurationMs = 200

	// lookAtDistance scales the object position to place the camera just beyond it.
	lookAtDistance = 1.1

	// DefaultTubeHideRadius is the camera distance below which track tubes are hidden.
	DefaultTubeHideRadius = 200
)

// DefaultView is the initial camera position.
var DefaultView = mgl32.Vec3{0, 0, 200}

// controls is the implementation of the Controls interface.
type controls struct {
	mu *sync.Mutex

	perspective  Camera
	orthographic Camera

	active  Camera
	main    Camera
	overlay Camera

	scheduler tween.Scheduler
	verbose   bool

	tubeRoot    *scene.Object
	tubeRadius  float32
	tubesHidden bool
}

// Controls owns a perspective and an orthographic camera, each with its own orbit
// controller. One pair is active and receives input; every update the other pair copies
// the active framing so both views always agree. Independently, one camera is rendered
// as the main view and the other as the overlay view.
type Controls interface {
	// Perspective returns the perspective camera.
	Perspective() Camera

	// Orthographic returns the orthographic camera.
	Orthographic() Camera

	// Active returns the camera whose controller receives input.
	//
	// Returns:
	//   - Camera: the active camera
	Active() Camera

	// Main returns the camera rendered in the main view.
	Main() Camera

	// Overlay returns the camera rendered in the overlay view.
	Overlay() Camera

	// Cameras returns the main and overlay cameras, in that order.
	Cameras() []Camera

	// SwapRoles exchanges the main and overlay cameras. Transforms are untouched and
	// swapping twice restores the original assignment.
	SwapRoles()

	// SwapCameras makes the orthographic (or perspective) camera the main view,
	// swapping roles only when needed.
	//
	// Parameters:
	//   - useOrthographic: true to render the orthographic camera in the main view
	SwapCameras(useOrthographic bool)

	// SetActive selects which pair receives input. The newly active pair takes over the
	// current framing.
	//
	// Parameters:
	//   - kind: the projection of the pair to activate
	SetActive(kind ProjectionKind)

	// Synchronize copies the active position and target onto the inactive pair and runs
	// its damping step.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Synchronize(dt float32)

	// Update steps the active controller, synchronizes the inactive pair, refreshes both
	// cameras' matrices and applies tube-track hiding.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// ZoomTo animates every camera by factor: perspective cameras move to position*factor
	// and orthographic cameras tween their zoom to zoom/factor. Factors below one zoom in.
	//
	// Parameters:
	//   - factor: the zoom factor
	//   - durationMs: animation duration in milliseconds
	ZoomTo(factor, durationMs float32)

	// LookAt animates the cameras towards the object with the given identity token in
	// group. Unknown ids and objects at the origin are ignored.
	//
	// Parameters:
	//   - objectID: the identity token
	//   - group: the subtree to search, usually the event data group
	LookAt(objectID string, group *scene.Object)

	// ObjectPosition resolves the world position of an object. Groups resolve to the mean
	// of their leaves; leaves at the origin use their geometry center.
	//
	// Parameters:
	//   - objectID: the identity token
	//   - group: the subtree to search
	//
	// Returns:
	//   - mgl32.Vec3: the position
	//   - bool: false if the id does not resolve
	ObjectPosition(objectID string, group *scene.Object) (mgl32.Vec3, bool)

	// SetView places the active camera and synchronizes the other.
	//
	// Parameters:
	//   - position: the camera position
	//   - target: the orbit target
	SetView(position, target mgl32.Vec3)

	// AutoRotate toggles auto-rotation of the active controller.
	AutoRotate(on bool)

	// AutoRotating reports whether the active controller auto-rotates.
	AutoRotating() bool

	// SetEnabled enables or disables input on every controller.
	SetEnabled(enabled bool)

	// Resize updates both cameras for a new viewport size.
	Resize(width, height float32)

	// HideTubeTracksOnZoom hides the tube meshes of tracks under root whenever the active
	// camera is closer than minRadius to the origin, and shows them again once it moves away.
	//
	// Parameters:
	//   - root: the scene root
	//   - minRadius: the hiding distance
	HideTubeTracksOnZoom(root *scene.Object, minRadius float32)
}

var _ Controls = &controls{}

// NewControls creates the dual camera pair. The perspective camera starts active and main,
// the orthographic camera starts as overlay. Both start at DefaultView looking at the origin.
//
// Parameters:
//   - options: variadic list of ControlsBuilderOption functions
//
// Returns:
//   - Controls: the new controls
func NewControls(options ...ControlsBuilderOption) Controls {
	cfg := &controlsConfig{
		position: DefaultView,
		width:    1,
		height:   1,
	}
	for _, opt := range options {
		opt(cfg)
	}

	newPair := func(kind ProjectionKind) Camera {
		return NewCamera(
			WithKind(kind),
			WithViewport(cfg.width, cfg.height),
			WithController(NewCameraController(
				WithPosition(cfg.position),
				WithTarget(cfg.target),
			)),
		)
	}

	c := &controls{
		mu:           &sync.Mutex{},
		perspective:  newPair(Perspective),
		orthographic: newPair(Orthographic),
		scheduler:    cfg.scheduler,
		verbose:      cfg.verbose,
	}
	if c.scheduler == nil {
		c.scheduler = tween.NewScheduler()
	}
	c.active = c.perspective
	c.main = c.perspective
	c.overlay = c.orthographic
	return c
}

func (c *controls) Perspective() Camera {
	return c.perspective
}

func (c *controls) Orthographic() Camera {
	return c.orthographic
}

func (c *controls) Active() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *controls) Main() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.main
}

func (c *controls) Overlay() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

func (c *controls) Cameras() []Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return []Camera{c.main, c.overlay}
}

func (c *controls) SwapRoles() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.main, c.overlay = c.overlay, c.main
}

func (c *controls) SwapCameras(useOrthographic bool) {
	want := Perspective
	if useOrthographic {
		want = Orthographic
	}
	if c.Main().Kind() != want {
		c.SwapRoles()
	}
}

func (c *controls) SetActive(kind ProjectionKind) {
	c.mu.Lock()
	previous := c.active
	next := c.perspective
	if kind == Orthographic {
		next = c.orthographic
	}
	c.active = next
	c.mu.Unlock()

	if previous == next {
		return
	}
	from, to := previous.Controller(), next.Controller()
	to.SetPosition(from.Position())
	to.SetTarget(from.Target())
	to.SetAutoRotate(from.AutoRotate())
	from.SetAutoRotate(false)
	next.Update()
}

func (c *controls) inactive() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == c.perspective {
		return c.orthographic
	}
	return c.perspective
}

func (c *controls) Synchronize(dt float32) {
	src := c.Active().Controller()
	dst := c.inactive().Controller()
	dst.SetPosition(src.Position())
	dst.SetTarget(src.Target())
	dst.Update(dt)
}

func (c *controls) Update(dt float32) {
	active := c.Active()
	active.Controller().Update(dt)
	c.Synchronize(dt)
	c.perspective.Update()
	c.orthographic.Update()
	c.updateTubeTracks(active.Position())
}

func (c *controls) ZoomTo(factor, durationMs float32) {
	if factor <= 0 {
		return
	}
	for _, cam := range c.Cameras() {
		if cam.Kind() == Orthographic {
			c.scheduler.Add(tween.Scalar(cam.Zoom, cam.SetZoom, cam.Zoom()/factor, durationMs))
			continue
		}
		ctrl := cam.Controller()
		c.scheduler.Add(tween.Vec3(ctrl.Position, ctrl.SetPosition, ctrl.Position().Mul(factor), durationMs))
	}
}

func (c *controls) LookAt(objectID string, group *scene.Object) {
	position, ok := c.ObjectPosition(objectID, group)
	if !ok {
		c.debugf("look at: %q not found", objectID)
		return
	}
	if position.Len() <= 0.001 {
		return
	}
	for _, cam := range c.Cameras() {
		ctrl := cam.Controller()
		c.scheduler.Add(
			tween.Vec3(ctrl.Position, ctrl.SetPosition, position.Mul(lookAtDistance), lookAtDurationMs),
			tween.Vec3(ctrl.Target, ctrl.SetTarget, position, lookAtDurationMs),
		)
	}
}

func (c *controls) ObjectPosition(objectID string, group *scene.Object) (mgl32.Vec3, bool) {
	if group == nil {
		return mgl32.Vec3{}, false
	}
	obj := group.FindByID(objectID)
	if obj == nil {
		return mgl32.Vec3{}, false
	}
	if obj.ChildCount() == 0 {
		return leafPosition(obj), true
	}

	var sum mgl32.Vec3
	var count int
	obj.Traverse(func(n *scene.Object) {
		if n.ChildCount() != 0 {
			return
		}
		sum = sum.Add(leafPosition(n))
		count++
	})
	if count == 0 {
		return obj.WorldPosition(), true
	}
	return sum.Mul(1 / float32(count)), true
}

// leafPosition returns the world position of a node, or its geometry center when the node
// itself sits at the origin (as event data built in world coordinates does).
func leafPosition(n *scene.Object) mgl32.Vec3 {
	if n.Position != (mgl32.Vec3{}) || n.Geometry == nil {
		return n.WorldPosition()
	}
	box := n.Geometry.BoundingBox()
	if box.IsEmpty() {
		return n.WorldPosition()
	}
	return box.Transform(n.WorldMatrix()).Center()
}

func (c *controls) SetView(position, target mgl32.Vec3) {
	ctrl := c.Active().Controller()
	ctrl.SetPosition(position)
	ctrl.SetTarget(target)
	c.Synchronize(0)
	c.perspective.Update()
	c.orthographic.Update()
}

func (c *controls) AutoRotate(on bool) {
	c.Active().Controller().SetAutoRotate(on)
}

func (c *controls) AutoRotating() bool {
	return c.Active().Controller().AutoRotate()
}

func (c *controls) SetEnabled(enabled bool) {
	c.perspective.Controller().SetEnabled(enabled)
	c.orthographic.Controller().SetEnabled(enabled)
}

func (c *controls) Resize(width, height float32) {
	c.perspective.Resize(width, height)
	c.orthographic.Resize(width, height)
}

func (c *controls) HideTubeTracksOnZoom(root *scene.Object, minRadius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tubeRoot = root
	c.tubeRadius = minRadius
	c.tubesHidden = false
}

func (c *controls) updateTubeTracks(cameraPosition mgl32.Vec3) {
	c.mu.Lock()
	root := c.tubeRoot
	near := cameraPosition.Len() < c.tubeRadius
	changed := root != nil && near != c.tubesHidden
	if changed {
		c.tubesHidden = near
	}
	c.mu.Unlock()

	if !changed {
		return
	}
	tracks := root.FindByName("Tracks")
	if tracks == nil {
		return
	}
	tracks.Traverse(func(n *scene.Object) {
		if n.Name == "Track" && n.Geometry != nil && n.Geometry.Kind() == model.GeometryTube {
			n.Visible = !near
		}
	})
}

func (c *controls) debugf(format string, args ...any) {
	if c.verbose {
		log.Printf("camera: "+format, args...)
	}
}
