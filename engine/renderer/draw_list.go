package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/light"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is a rectangle of the surface in fractions of its size, origin top left.
type Viewport struct {
	X, Y, Width, Height float32
}

// FullViewport covers the whole surface.
var FullViewport = Viewport{0, 0, 1, 1}

// Pixels converts the viewport to a pixel rectangle of a width x height surface. The
// rectangle is clamped to the surface and is at least one pixel in each dimension.
func (v Viewport) Pixels(width, height int) (x, y, w, h uint32) {
	fx := clamp01(v.X) * float32(width)
	fy := clamp01(v.Y) * float32(height)
	fw := clamp01(v.Width) * float32(width)
	fh := clamp01(v.Height) * float32(height)
	x = uint32(min(fx, float32(max(width-1, 0))))
	y = uint32(min(fy, float32(max(height-1, 0))))
	w = max(uint32(min(fw, float32(width)-float32(x))), 1)
	h = max(uint32(min(fh, float32(height)-float32(y))), 1)
	return x, y, w, h
}

// Aspect returns the width over height ratio of the viewport on a surface.
func (v Viewport) Aspect(width, height int) float32 {
	_, _, w, h := v.Pixels(width, height)
	return float32(w) / float32(h)
}

func clamp01(f float32) float32 {
	return max(0, min(f, 1))
}

// View is one camera's rendering of a scene graph into a region of the surface.
type View struct {
	Root     *scene.Object
	Camera   camera.Camera
	Viewport Viewport

	// Layers selects the objects drawn. The zero mask draws layer 0.
	Layers scene.Layers

	Lights []light.Light
}

// DrawItem is one draw call of a view.
type DrawItem struct {
	Object   *scene.Object
	World    mgl32.Mat4
	Key      pipeline.Key
	Lit      bool
	Distance float32
}

// CollectDrawList walks the visible part of the view's graph and returns its draw calls.
// Opaque items come first in render order, then transparent items in render order and
// far to near. Items of equal order keep their traversal order.
//
// Parameters:
//   - view: the view to collect
//
// Returns:
//   - []DrawItem: the ordered draw list
func CollectDrawList(view View) []DrawItem {
	if view.Root == nil || view.Camera == nil {
		return nil
	}
	layers := view.Layers
	if layers == 0 {
		layers = scene.DefaultLayers
	}
	eye := view.Camera.Position()

	var opaque, transparent []DrawItem
	var walk func(o *scene.Object, parent mgl32.Mat4)
	walk = func(o *scene.Object, parent mgl32.Mat4) {
		if !o.Visible {
			return
		}
		world := parent.Mul4(o.LocalMatrix())
		if item, ok := drawItem(o, world, layers); ok {
			item.Distance = world.Col(3).Vec3().Sub(eye).Len()
			if item.Key.Blend {
				transparent = append(transparent, item)
			} else {
				opaque = append(opaque, item)
			}
		}
		for _, child := range o.Children() {
			walk(child, world)
		}
	}
	root := mgl32.Ident4()
	if p := view.Root.Parent(); p != nil {
		root = p.WorldMatrix()
	}
	walk(view.Root, root)

	slices.SortStableFunc(opaque, func(a, b DrawItem) int {
		return a.Object.RenderOrder - b.Object.RenderOrder
	})
	slices.SortStableFunc(transparent, func(a, b DrawItem) int {
		if a.Object.RenderOrder != b.Object.RenderOrder {
			return a.Object.RenderOrder - b.Object.RenderOrder
		}
		switch {
		case a.Distance > b.Distance:
			return -1
		case a.Distance < b.Distance:
			return 1
		}
		return 0
	})
	return append(opaque, transparent...)
}

func drawItem(o *scene.Object, world mgl32.Mat4, layers scene.Layers) (DrawItem, bool) {
	if !o.Type.Renderable() || o.Geometry == nil || o.Material == nil || !o.Layers.Test(layers) {
		return DrawItem{}, false
	}
	if o.Geometry.VertexCount() == 0 {
		return DrawItem{}, false
	}
	if _, count := drawRange(o.Type, o.Material.Wireframe(), o.Geometry); count == 0 {
		return DrawItem{}, false
	}
	key, lit := pipelineKey(o.Type, o.Material)
	return DrawItem{Object: o, World: world, Key: key, Lit: lit}, true
}

// pipelineKey maps an object's type and material to its pipeline variant. Only solid
// meshes are lit.
func pipelineKey(t scene.ObjectType, m material.Material) (pipeline.Key, bool) {
	key := pipeline.Key{
		Topology:   pipeline.Lines,
		Blend:      m.Transparent(),
		DepthTest:  m.DepthTest(),
		DepthWrite: m.DepthTest() && !m.Transparent(),
	}
	lit := false
	switch t {
	case scene.TypeMesh:
		if !m.Wireframe() {
			key.Topology = pipeline.Triangles
			lit = true
		}
	case scene.TypePoints:
		key.Topology = pipeline.Points
	}
	if key.Topology == pipeline.Triangles {
		switch m.Side() {
		case material.FrontSide:
			key.Cull = pipeline.CullBack
		case material.BackSide:
			key.Cull = pipeline.CullFront
		}
	}
	return key, lit
}

// drawMode is how a geometry's elements are turned into a GPU index list.
type drawMode int

const (
	modeDirect drawMode = iota
	modeStrip
	modeEdges
)

func modeOf(t scene.ObjectType, wireframe bool) drawMode {
	switch {
	case t == scene.TypeLine:
		return modeStrip
	case t == scene.TypeMesh && wireframe:
		return modeEdges
	}
	return modeDirect
}

// drawIndices returns the index list uploaded for a geometry drawn in a mode. It is nil
// for non-indexed direct draws.
func drawIndices(mode drawMode, g *model.Geometry) []uint32 {
	indices := g.Indices()
	if mode == modeDirect {
		return indices
	}
	if len(indices) == 0 {
		indices = sequence(g.VertexCount())
	}
	switch mode {
	case modeStrip:
		out := make([]uint32, 0, 2*max(len(indices)-1, 0))
		for i := 0; i+1 < len(indices); i++ {
			out = append(out, indices[i], indices[i+1])
		}
		return out
	default:
		out := make([]uint32, 0, 2*len(indices))
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			out = append(out, a, b, b, c, c, a)
		}
		return out
	}
}

// drawRange maps the geometry's draw range onto the list returned by drawIndices, or
// onto the vertices for non-indexed draws.
//
// Returns:
//   - int: first element
//   - int: element count
func drawRange(t scene.ObjectType, wireframe bool, g *model.Geometry) (int, int) {
	start, end := g.DrawnElements()
	switch modeOf(t, wireframe) {
	case modeStrip:
		if end-start < 2 {
			return 0, 0
		}
		return 2 * start, 2 * (end - 1 - start)
	case modeEdges:
		start -= start % 3
		end -= end % 3
		if end <= start {
			return 0, 0
		}
		return 2 * start, 2 * (end - start)
	}
	return start, end - start
}

func sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

// clipSetKey identifies a shared plane slice. Materials that share planes share the slice.
type clipSetKey struct {
	first *common.Plane
	count int
}

func clipKeyOf(planes []*common.Plane) clipSetKey {
	if len(planes) == 0 {
		return clipSetKey{}
	}
	return clipSetKey{first: planes[0], count: len(planes)}
}

// countClipSets returns the number of distinct non-empty clip sets used by the draws.
func countClipSets(lists [][]DrawItem) int {
	seen := map[clipSetKey]struct{}{}
	for _, list := range lists {
		for _, item := range list {
			if k := clipKeyOf(item.Object.Material.ClippingPlanes()); k.count > 0 {
				seen[k] = struct{}{}
			}
		}
	}
	return len(seen)
}
