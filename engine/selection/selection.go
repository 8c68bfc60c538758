package selection

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/active"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultClickTolerance is the largest pointer travel in pixels between press and release
// that still counts as a click.
const DefaultClickTolerance = 5

// SelectedObject describes the clicked object for external consumers.
type SelectedObject struct {
	ID         string
	Name       string
	Attributes map[string]any
}

// CameraSource supplies the camera used to build pick rays.
type CameraSource interface {
	Main() camera.Camera
}

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.Mutex

	root      *scene.Object
	cameras   CameraSource
	raycaster Raycaster
	logger    InfoLogger
	viewport  common.Viewport
	tolerance float32
	verbose   bool

	selecting bool
	pressed   bool
	pressX    float32
	pressY    float32
	hovered   *scene.Object
	outlined  []*scene.Object

	activeObject active.Variable[string]
	selected     SelectedObject
}

// Manager turns pointer input into hover outlines and click selection.
// Pointer coordinates are pixels relative to the top-left corner of the render surface.
type Manager interface {
	// SetSelecting attaches or detaches pointer handling. Disabling clears the outline list.
	SetSelecting(enabled bool)

	// Selecting reports whether pointer handling is attached.
	Selecting() bool

	// SetViewport sets the pixel rectangle the main camera renders to.
	SetViewport(viewport common.Viewport)

	// OnPointerMove outlines the nearest pickable object under the pointer, or clears the
	// outline on a miss.
	//
	// Parameters:
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	OnPointerMove(x, y float32)

	// OnPointerDown records the press position.
	OnPointerDown(x, y float32)

	// OnPointerUp completes a click when the pointer moved no further than the click
	// tolerance since the press. Clicking the active object deselects it, clicking any other
	// object selects it.
	//
	// Parameters:
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	OnPointerUp(x, y float32)

	// Pick returns the nearest pickable hit under the pointer.
	//
	// Parameters:
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	//
	// Returns:
	//   - Intersection: the hit
	//   - bool: false on a miss
	Pick(x, y float32) (Intersection, bool)

	// HighlightObject outlines the object with the given identity token.
	//
	// Parameters:
	//   - id: the identity token
	//
	// Returns:
	//   - bool: false if no object has that id
	HighlightObject(id string) bool

	// ClearHighlight empties the outline list.
	ClearHighlight()

	// Outlined returns the objects currently outlined.
	Outlined() []*scene.Object

	// ActiveObject returns the channel publishing the selected object's id ("" when nothing
	// is selected).
	ActiveObject() active.Variable[string]

	// SelectedObject returns the last selected object's name and attributes.
	SelectedObject() SelectedObject
}

var _ Manager = &manager{}

// NewManager creates a selection Manager picking under root with rays from the main camera.
// Selection starts detached.
//
// Parameters:
//   - root: the subtree to pick from, usually the scene root
//   - cameras: supplies the main camera
//   - options: variadic list of ManagerBuilderOption functions
//
// Returns:
//   - Manager: the new selection manager
func NewManager(root *scene.Object, cameras CameraSource, options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:           &sync.Mutex{},
		root:         root,
		cameras:      cameras,
		tolerance:    DefaultClickTolerance,
		viewport:     common.Viewport{Width: 1, Height: 1},
		activeObject: active.NewVariable(""),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.raycaster == nil {
		m.raycaster = NewRaycaster()
	}
	if m.logger == nil {
		m.logger = NewInfoLogger(DefaultInfoLoggerSize)
	}
	return m
}

func (m *manager) SetSelecting(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selecting = enabled
	m.pressed = false
	if !enabled {
		m.hovered = nil
		m.outlined = nil
	}
}

func (m *manager) Selecting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selecting
}

func (m *manager) SetViewport(viewport common.Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = viewport
}

func (m *manager) OnPointerMove(x, y float32) {
	if !m.Selecting() {
		return
	}
	hit, ok := m.Pick(x, y)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok {
		m.hovered = nil
		m.outlined = nil
		return
	}
	m.hovered = hit.Object
	m.outlined = []*scene.Object{hit.Object}
}

func (m *manager) OnPointerDown(x, y float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.selecting {
		return
	}
	m.pressed = true
	m.pressX, m.pressY = x, y
}

func (m *manager) OnPointerUp(x, y float32) {
	m.mu.Lock()
	if !m.selecting || !m.pressed {
		m.mu.Unlock()
		return
	}
	m.pressed = false
	travel := mgl32.Vec2{x - m.pressX, y - m.pressY}.Len()
	tolerance := m.tolerance
	m.mu.Unlock()

	if travel > tolerance {
		return
	}
	hit, ok := m.Pick(x, y)
	if !ok {
		return
	}
	if m.activeObject.Get() == hit.Object.ID {
		m.deselect(hit.Object)
		return
	}
	m.selectObject(hit.Object)
}

func (m *manager) Pick(x, y float32) (Intersection, bool) {
	m.mu.Lock()
	vp := m.viewport
	root := m.root
	m.mu.Unlock()

	if root == nil || m.cameras == nil || vp.Width <= 0 || vp.Height <= 0 {
		return Intersection{}, false
	}
	cam := m.cameras.Main()
	if cam == nil {
		return Intersection{}, false
	}
	ndc := mgl32.Vec2{
		(x-float32(vp.X))/float32(vp.Width)*2 - 1,
		-(y-float32(vp.Y))/float32(vp.Height)*2 + 1,
	}
	hits := m.raycaster.Intersect(cam.Ray(ndc), root)
	if len(hits) == 0 || scene.IsIgnorable(hits[0].Object) {
		return Intersection{}, false
	}
	return hits[0], true
}

func (m *manager) selectObject(obj *scene.Object) {
	attributes := maps.Clone(obj.UserData)
	if attributes == nil {
		attributes = map[string]any{}
	}
	m.mu.Lock()
	m.selected = SelectedObject{ID: obj.ID, Name: obj.Name, Attributes: attributes}
	m.outlined = []*scene.Object{obj}
	m.mu.Unlock()

	m.activeObject.Update(obj.ID)
	m.logger.Add(describe(obj.Name, attributes), "Selected")
	m.debugf("selected %s (%s)", obj.Name, obj.ID)
}

func (m *manager) deselect(obj *scene.Object) {
	m.mu.Lock()
	m.selected = SelectedObject{}
	m.outlined = nil
	m.mu.Unlock()

	m.activeObject.Update("")
	m.logger.Add(obj.Name, "Deselected")
	m.debugf("deselected %s (%s)", obj.Name, obj.ID)
}

// describe formats "<name> with k1=v1, k2=v2" from the string and numeric attributes in
// key order.
func describe(name string, attributes map[string]any) string {
	var parts []string
	for _, key := range slices.Sorted(maps.Keys(attributes)) {
		switch v := attributes[key].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s=%s", key, v))
		default:
			if f, ok := common.ToFloat(v); ok {
				parts = append(parts, key+"="+strconv.FormatFloat(f, 'g', -1, 64))
			}
		}
	}
	if len(parts) == 0 {
		return name
	}
	return name + " with " + strings.Join(parts, ", ")
}

func (m *manager) HighlightObject(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return false
	}
	obj := m.root.FindByID(id)
	if obj == nil {
		return false
	}
	m.outlined = []*scene.Object{obj}
	return true
}

func (m *manager) ClearHighlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outlined = nil
}

func (m *manager) Outlined() []*scene.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.outlined)
}

func (m *manager) ActiveObject() active.Variable[string] {
	return m.activeObject
}

func (m *manager) SelectedObject() SelectedObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

func (m *manager) debugf(format string, args ...any) {
	if m.verbose {
		log.Printf("selection: "+format, args...)
	}
}
