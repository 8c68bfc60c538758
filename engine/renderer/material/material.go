package material

import (
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Side selects which triangle faces are rasterized.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name             string
	color            common.Color
	opacity          float32
	transparent      bool
	wireframe        bool
	side             Side
	flatShading      bool
	shininess        float32
	clippingPlanes   []*common.Plane
	clipIntersection bool
	depthTest        bool
}

// Material defines the surface state shared by every object that references it.
//
// Materials are shared by pointer: imported meshes of one geometry reference a single
// Material, and every geometry material references the same clipping planes, so rotating
// a plane updates all consumers without reassigning anything.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the diffuse color.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// SetColor sets the diffuse color.
	//
	// Parameters:
	//   - color: the new color
	SetColor(color common.Color)

	// Opacity retrieves the opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetOpacity sets the opacity, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Transparent reports whether the material is blended.
	//
	// Returns:
	//   - bool: true if blended
	Transparent() bool

	// SetTransparent enables or disables blending.
	//
	// Parameters:
	//   - transparent: true to blend
	SetTransparent(transparent bool)

	// Wireframe reports whether triangles are drawn as edges.
	//
	// Returns:
	//   - bool: true in wireframe mode
	Wireframe() bool

	// SetWireframe toggles wireframe mode.
	//
	// Parameters:
	//   - wireframe: true to draw edges only
	SetWireframe(wireframe bool)

	// Side retrieves the rasterized faces.
	//
	// Returns:
	//   - Side: front, back or double
	Side() Side

	// FlatShading reports whether per-face normals are used.
	//
	// Returns:
	//   - bool: true for flat shading
	FlatShading() bool

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the shininess
	Shininess() float32

	// ClippingPlanes retrieves the clipping planes. The planes are shared, not copied.
	//
	// Returns:
	//   - []*common.Plane: the planes
	ClippingPlanes() []*common.Plane

	// SetClippingPlanes replaces the clipping plane set.
	//
	// Parameters:
	//   - planes: the shared planes
	SetClippingPlanes(planes []*common.Plane)

	// ClipIntersection reports whether only the intersection of the clipped half-spaces is
	// removed (true) or their union (false).
	//
	// Returns:
	//   - bool: the clip mode
	ClipIntersection() bool

	// SetClipIntersection sets the clip mode.
	//
	// Parameters:
	//   - intersection: true to clip the intersection
	SetClipIntersection(intersection bool)

	// DepthTest reports whether fragments are depth tested.
	//
	// Returns:
	//   - bool: true if depth tested
	DepthTest() bool

	// SetDepthTest enables or disables depth testing.
	//
	// Parameters:
	//   - depthTest: true to depth test
	SetDepthTest(depthTest bool)

	// Clipped reports whether a world-space point is removed by the clipping planes.
	//
	// Parameters:
	//   - point: the world-space point
	//
	// Returns:
	//   - bool: true if the point is clipped away
	Clipped(point mgl32.Vec3) bool

	// Clone returns an independent copy that still shares the clipping planes.
	//
	// Returns:
	//   - Material: the copy
	Clone() Material
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults: white, opaque, front side, depth tested.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		color:     common.ColorWhite,
		opacity:   1,
		side:      FrontSide,
		shininess: 30,
		depthTest: true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *material) SetColor(color common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = color
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = common.Clamp(opacity, 0, 1)
}

func (m *material) Transparent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transparent
}

func (m *material) SetTransparent(transparent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transparent = transparent
}

func (m *material) Wireframe() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wireframe
}

func (m *material) SetWireframe(wireframe bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wireframe = wireframe
}

func (m *material) Side() Side {
	return m.side
}

func (m *material) FlatShading() bool {
	return m.flatShading
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) ClippingPlanes() []*common.Plane {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clippingPlanes
}

func (m *material) SetClippingPlanes(planes []*common.Plane) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clippingPlanes = planes
}

func (m *material) ClipIntersection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipIntersection
}

func (m *material) SetClipIntersection(intersection bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipIntersection = intersection
}

func (m *material) DepthTest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depthTest
}

func (m *material) SetDepthTest(depthTest bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depthTest = depthTest
}

func (m *material) Clipped(point mgl32.Vec3) bool {
	m.mu.Lock()
	planes := m.clippingPlanes
	intersection := m.clipIntersection
	m.mu.Unlock()

	if len(planes) == 0 {
		return false
	}
	if intersection {
		for _, p := range planes {
			if p.DistanceToPoint(point) >= 0 {
				return false
			}
		}
		return true
	}
	for _, p := range planes {
		if p.DistanceToPoint(point) < 0 {
			return true
		}
	}
	return false
}

func (m *material) Clone() Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *m
	c.mu = &sync.Mutex{}
	c.clippingPlanes = append([]*common.Plane(nil), m.clippingPlanes...)
	return &c
}
