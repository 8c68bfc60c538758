package scene

import (
	"log"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/light"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Well-known top-level group names.
const (
	EventDataID  = "EventData"
	GeometriesID = "Geometries"
	LabelsID     = "Labels"
)

// Names used for event data lookups.
const (
	JetsGroupName = "Jets"
	JetName       = "Jet"
	AxesName      = "AxesHelper"
)

// DefaultIgnoreTypes are stripped from exported scenes and never highlighted.
var DefaultIgnoreTypes = []ObjectType{TypeAmbientLight, TypeDirectionalLight, TypeAxesHelper, TypeCamera}

// IsIgnorable reports whether obj is a helper or light node that must not be exported
// or picked. It has no side effects.
//
// Parameters:
//   - obj: the node to test
//
// Returns:
//   - bool: true for lights, axis helpers and cameras
func IsIgnorable(obj *Object) bool {
	return obj != nil && slices.Contains(DefaultIgnoreTypes, obj.Type)
}

// Light rig parameters.
var (
	ambientIntensity     float32 = 1.2
	cameraLightIntensity float32 = 0.9
	fixedLightIntensity  float32 = 0.2
	cameraLightStart             = mgl32.Vec3{0, 0, 10}
	fixedLightPositions          = []mgl32.Vec3{
		{-100, -50, 100},
		{100, 50, -100},
		{-100, 50, -100},
		{100, -50, 100},
	}
)

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.Mutex

	root    *Object
	verbose bool

	ignorable func(*Object) bool

	dark            bool
	cameraFollowing bool
	cameraLight     light.Light
	lightNodes      []*Object

	clipPlanes       []*common.Plane
	clipIntersection bool
	clippingEnabled  bool
	clipStart        float32
	clipOpening      float32
}

// Manager owns the root of the scene graph, its top-level groups, the lighting rig and
// the shared clipping plane set, and provides the visual mutators used by the rest of
// the display.
//
// Name-addressed mutators are no-ops when the name does not resolve.
type Manager interface {
	// Root returns the scene root node.
	//
	// Returns:
	//   - *Object: the root
	Root() *Object

	// GetOrCreateGroup returns the top-level group named id, creating and attaching it on
	// first use. Repeated calls return the same node.
	//
	// Parameters:
	//   - id: the group name
	//
	// Returns:
	//   - *Object: the group
	GetOrCreateGroup(id string) *Object

	// EventData returns the event data group.
	EventData() *Object

	// Geometries returns the detector geometry group.
	Geometries() *Object

	// Labels returns the label group.
	Labels() *Object

	// AddGeometry attaches obj to the geometry group.
	//
	// Parameters:
	//   - obj: the imported geometry
	AddGeometry(obj *Object)

	// RemoveGeometry detaches the first geometry named name.
	//
	// Parameters:
	//   - name: the geometry name
	//
	// Returns:
	//   - bool: true if a geometry was removed
	RemoveGeometry(name string) bool

	// ClearGeometries empties the geometry group.
	ClearGeometries()

	// ClearEventData empties the event data group. The group node itself is kept.
	ClearEventData()

	// AddEventDataTypeGroup returns the per-type group (Tracks, Jets, ...) under the event
	// data group, creating it when missing.
	//
	// Parameters:
	//   - objectType: the event data type name
	//
	// Returns:
	//   - *Object: the type group
	AddEventDataTypeGroup(objectType string) *Object

	// RemoveLabel detaches the label named name.
	RemoveLabel(name string)

	// ObjectByName returns the first node named name anywhere in the scene, or nil.
	ObjectByName(name string) *Object

	// ObjectByID returns the node with the identity token id, or nil.
	ObjectByID(id string) *Object

	// ObjectPosition returns the local position of the node named name.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	//   - bool: false if the name does not resolve
	ObjectPosition(name string) (mgl32.Vec3, bool)

	// SetVisibility sets the visibility of the node named name and moves its whole subtree
	// between the visible and the picking-excluded layer.
	//
	// Parameters:
	//   - name: the node name
	//   - visible: true to show
	//   - parentName: restricts the lookup to this subtree; empty searches the whole scene
	SetVisibility(name string, visible bool, parentName string)

	// SetObjectVisibility is SetVisibility for a resolved node.
	SetObjectVisibility(obj *Object, visible bool)

	// GroupVisibility sets the visibility of every direct child of the node named name
	// without touching render layers.
	GroupVisibility(name string, visible bool, parentName string)

	// SetOpacity makes every material in the named subtree transparent with the given opacity.
	SetOpacity(name string, opacity float32)

	// SetColor sets the color of every material in the named subtree.
	SetColor(name string, color common.Color)

	// SetWireframe toggles wireframe on every material in the named subtree.
	SetWireframe(name string, wireframe bool)

	// SetScale sets a uniform scale on the named node.
	SetScale(name string, scale float32)

	// ScaleChildObjects scales every leaf of the named subtree on one local axis
	// ("x", "y" or "z") or uniformly when axis is empty.
	ScaleChildObjects(groupName string, value float32, axis string)

	// ScaleJets rescales every Jet, moving each so that its base stays anchored.
	// Non-positive factors are ignored.
	ScaleJets(value float32)

	// WireframeGeometries toggles wireframe on all geometries, dropping their opacity to
	// 0.1 while enabled and restoring full opacity when disabled.
	WireframeGeometries(wireframe bool)

	// EventDataDepthTest toggles depth testing of event data. Disabling it raises the
	// render order so event data draws over the geometry.
	EventDataDepthTest(depthTest bool)

	// CollectionFilter hides every object of the named collection that fails a cut.
	// Cuts are combined with AND; evaluation stops at the first failing cut. An object
	// without a numeric value for a cut's field is not filtered by that cut.
	//
	// Parameters:
	//   - collectionName: the collection group name under the event data group
	//   - cuts: the range filters
	CollectionFilter(collectionName string, cuts []*Cut)

	// CloneWithoutIgnored returns a deep copy of the scene with lights, axis helpers and
	// cameras removed, for export.
	//
	// Returns:
	//   - *Object: the detached clean copy
	CloneWithoutIgnored() *Object

	// CleanScene is an alias of CloneWithoutIgnored.
	CleanScene() *Object

	// SetLights rebuilds the lighting rig: ambient plus either one camera-following
	// directional light or four fixed directional lights.
	//
	// Parameters:
	//   - cameraFollowing: true for the camera-following rig
	SetLights(cameraFollowing bool)

	// Lights returns the lights of the current rig.
	Lights() []light.Light

	// UpdateLighting moves the camera-following light to the camera. It is a no-op with
	// the fixed rig. Called once per rendered frame.
	//
	// Parameters:
	//   - cameraPosition: the active camera position
	UpdateLighting(cameraPosition mgl32.Vec3)

	// SetBackground selects the dark or light theme background.
	SetBackground(dark bool)

	// Background returns the clear color and whether the dark theme is active.
	Background() (common.Color, bool)

	// AxesHelper shows or hides the axis helper at the origin.
	//
	// Parameters:
	//   - show: true to add the helper
	//   - size: axis length
	AxesHelper(show bool, size float32)

	// ClippingPlanes returns the shared clipping plane set. The same pointers are handed
	// to every geometry material.
	ClippingPlanes() []*common.Plane

	// ClipIntersection returns the clip mode currently applied to geometry materials.
	ClipIntersection() bool

	// SetClippingEnabled toggles local clipping for rendering.
	SetClippingEnabled(enabled bool)

	// ClippingEnabled reports whether local clipping is on.
	ClippingEnabled() bool

	// RotateClippingPlane rotates one plane normal about the view (Z) axis in place.
	// Out of range indices are ignored.
	//
	// Parameters:
	//   - index: plane index
	//   - angleDeg: rotation in degrees
	RotateClippingPlane(index int, angleDeg float32)

	// SetClippingAngle positions the two planes so that the wedge starting at startDeg
	// and spanning openingDeg is cut away. Crossing 180 degrees switches geometry
	// materials between intersection and union clipping.
	//
	// Parameters:
	//   - startDeg: starting angle in degrees
	//   - openingDeg: opening angle in degrees
	SetClippingAngle(startDeg, openingDeg float32)

	// ClippingAngle returns the last starting and opening angles set.
	ClippingAngle() (float32, float32)

	// NewGeometryMaterial returns a material bound to the shared clipping planes with
	// the current clip mode.
	//
	// Parameters:
	//   - options: extra material options applied after the clipping defaults
	//
	// Returns:
	//   - material.Material: the material
	NewGeometryMaterial(options ...material.MaterialBuilderOption) material.Material
}

var _ Manager = &manager{}

// NewManager creates a scene with its three top-level groups, the light rig and the
// clipping planes (0,1,0,0) and (0,-1,0,0).
//
// Parameters:
//   - options: variadic list of ManagerBuilderOption functions
//
// Returns:
//   - Manager: the new scene manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:               &sync.Mutex{},
		root:             NewObject(TypeScene, WithName("Scene")),
		ignorable:        IsIgnorable,
		cameraFollowing:  true,
		clipIntersection: true,
		clipPlanes: []*common.Plane{
			common.NewPlane(mgl32.Vec3{0, 1, 0}, 0),
			common.NewPlane(mgl32.Vec3{0, -1, 0}, 0),
		},
	}
	for _, opt := range options {
		opt(m)
	}
	m.GetOrCreateGroup(GeometriesID)
	m.GetOrCreateGroup(EventDataID)
	m.GetOrCreateGroup(LabelsID)
	m.SetLights(m.cameraFollowing)
	return m
}

func (m *manager) Root() *Object {
	return m.root
}

func (m *manager) GetOrCreateGroup(id string) *Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groupLocked(id)
}

func (m *manager) groupLocked(id string) *Object {
	for _, c := range m.root.children {
		if c.Name == id {
			return c
		}
	}
	g := NewGroup(id)
	m.root.Add(g)
	return g
}

func (m *manager) EventData() *Object {
	return m.GetOrCreateGroup(EventDataID)
}

func (m *manager) Geometries() *Object {
	return m.GetOrCreateGroup(GeometriesID)
}

func (m *manager) Labels() *Object {
	return m.GetOrCreateGroup(LabelsID)
}

func (m *manager) AddGeometry(obj *Object) {
	if obj == nil {
		return
	}
	m.Geometries().Add(obj)
}

func (m *manager) RemoveGeometry(name string) bool {
	g := m.Geometries()
	obj := g.FindByName(name)
	if obj == nil || obj == g {
		m.debugf("remove geometry: %q not found", name)
		return false
	}
	obj.RemoveFromParent()
	return true
}

func (m *manager) ClearGeometries() {
	m.Geometries().Clear()
}

func (m *manager) ClearEventData() {
	m.EventData().Clear()
}

func (m *manager) AddEventDataTypeGroup(objectType string) *Object {
	eventData := m.EventData()
	group := eventData.FindByName(objectType)
	if group == nil || group == eventData {
		group = NewGroup(objectType)
	}
	if group.parent != eventData {
		eventData.Add(group)
	}
	return group
}

func (m *manager) RemoveLabel(name string) {
	labels := m.Labels()
	if obj := labels.FindByName(name); obj != nil && obj != labels {
		obj.RemoveFromParent()
	}
}

func (m *manager) ObjectByName(name string) *Object {
	return m.root.FindByName(name)
}

func (m *manager) ObjectByID(id string) *Object {
	return m.root.FindByID(id)
}

func (m *manager) ObjectPosition(name string) (mgl32.Vec3, bool) {
	obj := m.ObjectByName(name)
	if obj == nil {
		return mgl32.Vec3{}, false
	}
	return obj.Position, true
}

func (m *manager) lookup(name, parentName string) *Object {
	parent := m.root
	if parentName != "" {
		parent = m.root.FindByName(parentName)
		if parent == nil {
			m.debugf("lookup: parent %q not found", parentName)
			return nil
		}
	}
	obj := parent.FindByName(name)
	if obj == nil {
		m.debugf("lookup: %q not found", name)
	}
	return obj
}

func (m *manager) SetVisibility(name string, visible bool, parentName string) {
	m.SetObjectVisibility(m.lookup(name, parentName), visible)
}

func (m *manager) SetObjectVisibility(obj *Object, visible bool) {
	if obj == nil {
		return
	}
	obj.Visible = visible
	obj.Traverse(func(child *Object) {
		if visible {
			child.Layers.Enable(LayerVisible)
			child.Layers.Disable(LayerHidden)
		} else {
			child.Layers.Disable(LayerVisible)
			child.Layers.Enable(LayerHidden)
		}
	})
}

func (m *manager) GroupVisibility(name string, visible bool, parentName string) {
	collection := m.lookup(name, parentName)
	if collection == nil {
		return
	}
	for _, c := range collection.children {
		c.Visible = visible
	}
}

func (m *manager) eachMaterial(name string, fn func(*Object, material.Material)) {
	obj := m.lookup(name, "")
	if obj == nil {
		return
	}
	obj.Traverse(func(n *Object) {
		if n.Material != nil {
			fn(n, n.Material)
		}
	})
}

func (m *manager) SetOpacity(name string, opacity float32) {
	m.eachMaterial(name, func(_ *Object, mat material.Material) {
		mat.SetTransparent(true)
		mat.SetOpacity(opacity)
	})
}

func (m *manager) SetColor(name string, color common.Color) {
	m.eachMaterial(name, func(_ *Object, mat material.Material) {
		mat.SetColor(color)
	})
}

func (m *manager) SetWireframe(name string, wireframe bool) {
	m.eachMaterial(name, func(_ *Object, mat material.Material) {
		mat.SetWireframe(wireframe)
	})
}

func (m *manager) SetScale(name string, scale float32) {
	if obj := m.lookup(name, ""); obj != nil {
		obj.Scale = mgl32.Vec3{scale, scale, scale}
	}
}

func (m *manager) ScaleChildObjects(groupName string, value float32, axis string) {
	obj := m.lookup(groupName, "")
	if obj == nil {
		return
	}
	obj.Traverse(func(n *Object) {
		if len(n.children) != 0 {
			return
		}
		switch axis {
		case "x":
			n.Scale[0] = value
		case "y":
			n.Scale[1] = value
		case "z":
			n.Scale[2] = value
		default:
			n.Scale = mgl32.Vec3{value, value, value}
		}
	})
}

func (m *manager) ScaleJets(value float32) {
	if value <= 0 {
		return
	}
	jets := m.ObjectByName(JetsGroupName)
	if jets == nil {
		return
	}
	jets.Traverse(func(n *Object) {
		if n.Name != JetName {
			return
		}
		previous := n.Scale.X()
		n.Scale = mgl32.Vec3{value, value, value}
		if previous != 0 {
			n.Position = n.Position.Mul(1 / previous).Mul(value)
		}
	})
}

func (m *manager) WireframeGeometries(wireframe bool) {
	m.Geometries().Traverse(func(n *Object) {
		if n.Material == nil {
			return
		}
		n.Material.SetWireframe(wireframe)
		n.Material.SetTransparent(wireframe)
		if wireframe {
			n.Material.SetOpacity(0.1)
		} else {
			n.Material.SetOpacity(1)
		}
	})
}

func (m *manager) EventDataDepthTest(depthTest bool) {
	m.EventData().Traverse(func(n *Object) {
		if n.Material == nil {
			return
		}
		if depthTest {
			n.RenderOrder = 0
		} else {
			n.RenderOrder = 999
		}
		n.Material.SetDepthTest(depthTest)
	})
}

func (m *manager) CollectionFilter(collectionName string, cuts []*Cut) {
	eventData := m.EventData()
	collection := eventData.FindByName(collectionName)
	if collection == nil || collection == eventData {
		m.debugf("collection filter: %q not found", collectionName)
		return
	}
	for _, child := range collection.children {
		child.Visible = true
		for _, cut := range cuts {
			raw, ok := child.UserData[cut.Field]
			if !ok {
				continue
			}
			value, ok := common.ToFloat(raw)
			if !ok {
				continue
			}
			if !cut.Passed(value) {
				child.Visible = false
				break
			}
		}
	}
}

func (m *manager) CloneWithoutIgnored() *Object {
	m.mu.Lock()
	skip := m.ignorable
	m.mu.Unlock()
	return m.root.CloneFiltered(skip)
}

func (m *manager) CleanScene() *Object {
	return m.CloneWithoutIgnored()
}

func (m *manager) SetLights(cameraFollowing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.lightNodes {
		n.RemoveFromParent()
	}
	m.lightNodes = nil
	m.cameraLight = nil
	m.cameraFollowing = cameraFollowing

	ambient := light.NewLight(light.LightTypeAmbient, light.WithIntensity(ambientIntensity))
	m.attachLightLocked(TypeAmbientLight, ambient)

	if cameraFollowing {
		m.cameraLight = light.NewLight(light.LightTypeDirectional,
			light.WithPosition(cameraLightStart.X(), cameraLightStart.Y(), cameraLightStart.Z()),
			light.WithIntensity(cameraLightIntensity),
			light.WithFollowCamera(),
		)
		m.attachLightLocked(TypeDirectionalLight, m.cameraLight)
		return
	}
	for _, p := range fixedLightPositions {
		l := light.NewLight(light.LightTypeDirectional,
			light.WithPosition(p.X(), p.Y(), p.Z()),
			light.WithIntensity(fixedLightIntensity),
		)
		m.attachLightLocked(TypeDirectionalLight, l)
	}
}

func (m *manager) attachLightLocked(t ObjectType, l light.Light) {
	node := NewObject(t, WithName(string(t)), WithLight(l))
	m.root.Add(node)
	m.lightNodes = append(m.lightNodes, node)
}

func (m *manager) Lights() []light.Light {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]light.Light, 0, len(m.lightNodes))
	for _, n := range m.lightNodes {
		out = append(out, n.Light)
	}
	return out
}

func (m *manager) UpdateLighting(cameraPosition mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cameraFollowing || m.cameraLight == nil {
		return
	}
	m.cameraLight.SetPosition(cameraPosition)
	for _, n := range m.lightNodes {
		if n.Light == m.cameraLight {
			n.Position = cameraPosition
		}
	}
}

func (m *manager) SetBackground(dark bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dark = dark
}

func (m *manager) Background() (common.Color, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dark {
		return common.ColorBackgroundDk, true
	}
	return common.ColorBackground, false
}

func (m *manager) AxesHelper(show bool, size float32) {
	if existing := m.root.FindByName(AxesName); existing != nil {
		existing.RemoveFromParent()
	}
	if !show {
		return
	}
	geometry := model.NewGeometry(model.WithPositions([]mgl32.Vec3{
		{0, 0, 0}, {size, 0, 0},
		{0, 0, 0}, {0, size, 0},
		{0, 0, 0}, {0, 0, size},
	}))
	m.root.Add(NewObject(TypeAxesHelper,
		WithName(AxesName),
		WithGeometry(geometry),
		WithMaterial(material.NewMaterial(material.WithColor(common.ColorWhite))),
	))
}

func (m *manager) ClippingPlanes() []*common.Plane {
	return m.clipPlanes
}

func (m *manager) ClipIntersection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipIntersection
}

func (m *manager) SetClippingEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clippingEnabled = enabled
}

func (m *manager) ClippingEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clippingEnabled
}

func (m *manager) RotateClippingPlane(index int, angleDeg float32) {
	if index < 0 || index >= len(m.clipPlanes) {
		return
	}
	p := m.clipPlanes[index]
	rotated := common.RotateAboutAxis(p.Normal, mgl32.Vec3{0, 0, 1}, mgl32.DegToRad(angleDeg))
	p.Set(rotated, p.Constant)
}

func (m *manager) SetClippingAngle(startDeg, openingDeg float32) {
	z := mgl32.Vec3{0, 0, 1}
	start := mgl32.DegToRad(startDeg)
	end := mgl32.DegToRad(startDeg + openingDeg)
	m.clipPlanes[0].Set(common.RotateAboutAxis(mgl32.Vec3{0, -1, 0}, z, start), 0)
	m.clipPlanes[1].Set(common.RotateAboutAxis(mgl32.Vec3{0, 1, 0}, z, end), 0)

	m.mu.Lock()
	m.clipStart, m.clipOpening = startDeg, openingDeg
	invalid := (m.clipIntersection && openingDeg > 180) || (!m.clipIntersection && openingDeg < 180)
	if invalid {
		m.clipIntersection = openingDeg < 180
	}
	intersection := m.clipIntersection
	m.mu.Unlock()

	if !invalid {
		return
	}
	m.Geometries().Traverse(func(n *Object) {
		if n.Type == TypeMesh && n.Material != nil {
			n.Material.SetClipIntersection(intersection)
		}
	})
}

func (m *manager) ClippingAngle() (float32, float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipStart, m.clipOpening
}

func (m *manager) NewGeometryMaterial(options ...material.MaterialBuilderOption) material.Material {
	m.mu.Lock()
	intersection := m.clipIntersection
	m.mu.Unlock()
	opts := append([]material.MaterialBuilderOption{
		material.WithClippingPlanes(m.clipPlanes, intersection),
	}, options...)
	return material.NewMaterial(opts...)
}

func (m *manager) debugf(format string, args ...any) {
	if m.verbose {
		log.Printf("scene: "+format, args...)
	}
}
