package scene

import (
	"fmt"
	"maps"
	"sync/atomic"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/light"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

// ObjectType names the kind of node. The values match the type names used by the
// serialized object graph format.
type ObjectType string

const (
	TypeScene            ObjectType = "Scene"
	TypeGroup            ObjectType = "Group"
	TypeObject           ObjectType = "Object3D"
	TypeMesh             ObjectType = "Mesh"
	TypeLine             ObjectType = "Line"
	TypeLineSegments     ObjectType = "LineSegments"
	TypePoints           ObjectType = "Points"
	TypeAmbientLight     ObjectType = "AmbientLight"
	TypeDirectionalLight ObjectType = "DirectionalLight"
	TypeAxesHelper       ObjectType = "AxesHelper"
	TypeCamera           ObjectType = "Camera"
)

// Renderable reports whether objects of this type carry geometry and a material.
func (t ObjectType) Renderable() bool {
	switch t {
	case TypeMesh, TypeLine, TypeLineSegments, TypePoints, TypeAxesHelper:
		return true
	}
	return false
}

// Layers is a bit mask of the render layers an object belongs to.
// Layer 0 is drawn and picked; hidden objects are moved to layer 1.
type Layers uint32

const (
	LayerVisible = 0
	LayerHidden  = 1
)

// DefaultLayers places an object on layer 0 only.
const DefaultLayers Layers = 1 << LayerVisible

// Enable adds layer n to the mask.
func (l *Layers) Enable(n int) { *l |= 1 << n }

// Disable removes layer n from the mask.
func (l *Layers) Disable(n int) { *l &^= 1 << n }

// Has reports whether layer n is set.
func (l Layers) Has(n int) bool { return l&(1<<n) != 0 }

// Test reports whether the two masks share a layer.
func (l Layers) Test(other Layers) bool { return l&other != 0 }

var objectCounter atomic.Uint64

// newObjectID returns a process-unique identity token.
func newObjectID() string {
	return fmt.Sprintf("obj-%d", objectCounter.Add(1))
}

// Object is a node of the scene graph.
//
// Objects are owned by the display goroutine: they carry no lock, and all mutation goes
// through the display's task queue or frame loop.
type Object struct {
	// ID is the stable identity token used for picks and animation continuity.
	ID string

	// Name is a non-unique label used for lookups.
	Name string

	Type        ObjectType
	Visible     bool
	Layers      Layers
	Position    mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
	RenderOrder int

	Geometry *model.Geometry
	Material material.Material
	Light    light.Light

	// UserData carries provenance attributes from the source event or geometry file.
	UserData map[string]any

	parent   *Object
	children []*Object
}

// NewObject creates an object of the given type with an identity transform.
//
// Parameters:
//   - objectType: the node type
//   - options: variadic list of ObjectBuilderOption functions
//
// Returns:
//   - *Object: the new object, visible on layer 0
func NewObject(objectType ObjectType, options ...ObjectBuilderOption) *Object {
	o := &Object{
		ID:       newObjectID(),
		Type:     objectType,
		Visible:  true,
		Layers:   DefaultLayers,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		UserData: map[string]any{},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// NewGroup creates an empty named group.
func NewGroup(name string) *Object {
	return NewObject(TypeGroup, WithName(name))
}

// Parent returns the parent node, or nil for detached nodes and the root.
func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns a snapshot of the direct children.
func (o *Object) Children() []*Object {
	return append([]*Object(nil), o.children...)
}

// ChildCount returns the number of direct children.
func (o *Object) ChildCount() int {
	return len(o.children)
}

// Add attaches children to o, detaching each from its previous parent first.
// Adding an object to itself is ignored.
//
// Parameters:
//   - children: the nodes to attach
func (o *Object) Add(children ...*Object) {
	for _, c := range children {
		if c == nil || c == o {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = o
		o.children = append(o.children, c)
	}
}

// Remove detaches a direct child.
//
// Parameters:
//   - child: the node to detach
//
// Returns:
//   - bool: true if child was a direct child of o
func (o *Object) Remove(child *Object) bool {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveFromParent detaches o from its parent, if any.
func (o *Object) RemoveFromParent() {
	if o.parent != nil {
		o.parent.Remove(o)
	}
}

// Clear detaches every child.
func (o *Object) Clear() {
	for _, c := range o.children {
		c.parent = nil
	}
	o.children = nil
}

// Traverse visits o and all descendants depth-first, parents before children.
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	for _, c := range o.Children() {
		c.Traverse(fn)
	}
}

// TraverseVisible is like Traverse but skips hidden subtrees.
func (o *Object) TraverseVisible(fn func(*Object)) {
	if !o.Visible {
		return
	}
	fn(o)
	for _, c := range o.Children() {
		c.TraverseVisible(fn)
	}
}

// FindByName returns the first node named name in depth-first order, including o itself.
func (o *Object) FindByName(name string) *Object {
	return o.find(func(n *Object) bool { return n.Name == name })
}

// FindByID returns the node with the given identity token.
func (o *Object) FindByID(id string) *Object {
	return o.find(func(n *Object) bool { return n.ID == id })
}

func (o *Object) find(match func(*Object) bool) *Object {
	if match(o) {
		return o
	}
	for _, c := range o.children {
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

// WorldVisible reports whether o and all of its ancestors are visible.
func (o *Object) WorldVisible() bool {
	for n := o; n != nil; n = n.parent {
		if !n.Visible {
			return false
		}
	}
	return true
}

// LocalMatrix returns the node transform relative to its parent.
func (o *Object) LocalMatrix() mgl32.Mat4 {
	return common.ComposeMatrix(o.Position, o.Rotation, o.Scale)
}

// WorldMatrix returns the node transform relative to the root.
func (o *Object) WorldMatrix() mgl32.Mat4 {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (o *Object) WorldPosition() mgl32.Vec3 {
	return common.TransformPoint(o.WorldMatrix(), mgl32.Vec3{})
}

// WorldBoundingBox returns the world-space bounds of every geometry in the subtree.
func (o *Object) WorldBoundingBox() common.Box3 {
	box := common.EmptyBox3()
	o.Traverse(func(n *Object) {
		if n.Geometry != nil {
			box.Union(n.Geometry.BoundingBox().Transform(n.WorldMatrix()))
		}
	})
	return box
}

// Clone returns a deep copy of the subtree. Identity tokens are preserved, materials and
// user data are copied, geometry buffers are shared.
func (o *Object) Clone() *Object {
	return o.CloneFiltered(nil)
}

// Instantiate returns a deep copy of the subtree in which every node gets a fresh
// identity token, for placing a second copy of a loaded asset in the same scene.
func (o *Object) Instantiate() *Object {
	c := o.Clone()
	c.Traverse(func(n *Object) { n.ID = newObjectID() })
	return c
}

// CloneFiltered returns a deep copy of the subtree omitting every node (and its
// descendants) for which skip returns true. The root itself is always copied.
//
// Parameters:
//   - skip: predicate selecting nodes to drop, or nil to keep all
//
// Returns:
//   - *Object: the detached copy
func (o *Object) CloneFiltered(skip func(*Object) bool) *Object {
	c := &Object{
		ID:          o.ID,
		Name:        o.Name,
		Type:        o.Type,
		Visible:     o.Visible,
		Layers:      o.Layers,
		Position:    o.Position,
		Rotation:    o.Rotation,
		Scale:       o.Scale,
		RenderOrder: o.RenderOrder,
		Geometry:    o.Geometry,
		Light:       o.Light,
		UserData:    cloneUserData(o.UserData),
	}
	if o.Material != nil {
		c.Material = o.Material.Clone()
	}
	for _, child := range o.children {
		if skip != nil && skip(child) {
			continue
		}
		c.Add(child.CloneFiltered(skip))
	}
	return c
}

func cloneUserData(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	if len(src) == 0 {
		return dst
	}
	if err := copier.CopyWithOption(&dst, src, copier.Option{DeepCopy: true}); err != nil {
		maps.Copy(dst, src)
	}
	return dst
}
