// Package model holds the geometry buffers attached to scene objects: vertex positions,
// optional triangle indices, a draw range and the tube representation used for tracks.
package model

import (
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GeometryKind identifies how the geometry buffers were produced.
type GeometryKind int

const (
	// GeometryBuffer is a plain position (and optional index) buffer.
	GeometryBuffer GeometryKind = iota

	// GeometryTube is a swept circle along a path, indexed as two triangles per quad.
	GeometryTube
)

func (k GeometryKind) String() string {
	if k == GeometryTube {
		return "TubeGeometry"
	}
	return "BufferGeometry"
}

// DrawAll is the DrawRange count meaning "draw every element".
const DrawAll = -1

// DrawRange limits which elements (indices when indexed, vertices otherwise) are drawn.
type DrawRange struct {
	Start int
	Count int
}

// Geometry is the vertex data of a renderable object.
// Positions are in object space. Indices, when present, describe triangles for meshes
// and consecutive pairs for line segments.
type Geometry struct {
	mu *sync.Mutex

	kind      GeometryKind
	positions []mgl32.Vec3
	indices   []uint32
	drawRange DrawRange

	tubePath   []mgl32.Vec3
	tubeRadius float32

	bounds      common.Box3
	boundsValid bool
}

// NewGeometry creates a Geometry configured with the provided options.
//
// Parameters:
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - *Geometry: the new geometry, drawing its full range
func NewGeometry(options ...GeometryBuilderOption) *Geometry {
	g := &Geometry{
		mu:        &sync.Mutex{},
		kind:      GeometryBuffer,
		drawRange: DrawRange{Start: 0, Count: DrawAll},
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Kind returns the geometry kind.
func (g *Geometry) Kind() GeometryKind {
	return g.kind
}

// Positions returns the vertex positions. The slice is shared; callers must not modify it.
func (g *Geometry) Positions() []mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.positions
}

// Indices returns the element indices, or nil for non-indexed geometry.
func (g *Geometry) Indices() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.indices
}

// SetPositions replaces the vertex positions and invalidates the bounds.
func (g *Geometry) SetPositions(positions []mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.positions = positions
	g.boundsValid = false
}

// SetIndices replaces the element indices.
func (g *Geometry) SetIndices(indices []uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.indices = indices
}

// Indexed reports whether the geometry has an index buffer.
func (g *Geometry) Indexed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.indices) > 0
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.positions)
}

// IndexCount returns the number of indices.
func (g *Geometry) IndexCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.indices)
}

// RevealCount returns the number of elements the draw range must cover for the geometry to
// be drawn completely: the index count for indexed geometry (tubes are always indexed),
// the vertex count otherwise.
//
// Returns:
//   - int: the element count
func (g *Geometry) RevealCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.indices) > 0 {
		return len(g.indices)
	}
	return len(g.positions)
}

// DrawRange returns the current draw range.
func (g *Geometry) DrawRange() DrawRange {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drawRange
}

// SetDrawRange sets the draw range. A negative count draws everything after start.
//
// Parameters:
//   - start: the first element to draw
//   - count: the number of elements to draw, or DrawAll
func (g *Geometry) SetDrawRange(start, count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drawRange = DrawRange{Start: max(start, 0), Count: count}
}

// DrawnElements returns the [start, end) element interval selected by the draw range,
// clamped to the element count.
//
// Returns:
//   - int: first element
//   - int: one past the last element
func (g *Geometry) DrawnElements() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := len(g.positions)
	if len(g.indices) > 0 {
		total = len(g.indices)
	}
	start := min(g.drawRange.Start, total)
	end := total
	if g.drawRange.Count >= 0 {
		end = min(start+g.drawRange.Count, total)
	}
	return start, end
}

// TubePath returns the path a tube geometry was swept along, or nil.
func (g *Geometry) TubePath() []mgl32.Vec3 {
	return g.tubePath
}

// TubeRadius returns the radius of a tube geometry.
func (g *Geometry) TubeRadius() float32 {
	return g.tubeRadius
}

// BoundingBox returns the object-space bounds of the positions.
// The result is cached until the positions change.
//
// Returns:
//   - common.Box3: the bounds, empty when there are no positions
func (g *Geometry) BoundingBox() common.Box3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.boundsValid {
		g.bounds = common.EmptyBox3()
		for _, p := range g.positions {
			g.bounds.ExpandByPoint(p)
		}
		g.boundsValid = true
	}
	return g.bounds
}

// Vertex returns the position of element i, resolving through the index buffer when present.
func (g *Geometry) Vertex(i int) mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.indices) > 0 {
		return g.positions[g.indices[i]]
	}
	return g.positions[i]
}

// Clone returns a copy of the geometry with its own buffers.
//
// Returns:
//   - *Geometry: the copy
func (g *Geometry) Clone() *Geometry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &Geometry{
		mu:          &sync.Mutex{},
		kind:        g.kind,
		positions:   append([]mgl32.Vec3(nil), g.positions...),
		indices:     append([]uint32(nil), g.indices...),
		drawRange:   g.drawRange,
		tubePath:    append([]mgl32.Vec3(nil), g.tubePath...),
		tubeRadius:  g.tubeRadius,
		bounds:      g.bounds,
		boundsValid: g.boundsValid,
	}
}
