package selection

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Intersection is a single ray hit.
type Intersection struct {
	Object   *scene.Object
	Distance float32
	Point    mgl32.Vec3
}

// raycaster is the implementation of the Raycaster interface.
type raycaster struct {
	mu *sync.Mutex

	lineThreshold  float32
	pointThreshold float32
	layers         scene.Layers
}

// Raycaster intersects world-space rays with the renderable nodes of a scene graph.
type Raycaster interface {
	// Intersect returns every hit under root sorted by ascending distance. Hidden subtrees and
	// nodes outside the raycaster's layers are never hit.
	//
	// Parameters:
	//   - ray: the world-space ray
	//   - root: the subtree to test
	//
	// Returns:
	//   - []Intersection: hits, nearest first
	Intersect(ray common.Ray, root *scene.Object) []Intersection

	// SetLineThreshold sets the pick distance for lines in world units.
	SetLineThreshold(threshold float32)

	// SetPointThreshold sets the pick distance for points in world units.
	SetPointThreshold(threshold float32)
}

var _ Raycaster = &raycaster{}

// NewRaycaster creates a Raycaster testing layer 0 with line and point thresholds of 1.
func NewRaycaster(options ...RaycasterBuilderOption) Raycaster {
	r := &raycaster{
		mu:             &sync.Mutex{},
		lineThreshold:  1,
		pointThreshold: 1,
		layers:         scene.DefaultLayers,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *raycaster) SetLineThreshold(threshold float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lineThreshold = threshold
}

func (r *raycaster) SetPointThreshold(threshold float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointThreshold = threshold
}

func (r *raycaster) Intersect(ray common.Ray, root *scene.Object) []Intersection {
	if root == nil {
		return nil
	}
	r.mu.Lock()
	lineThreshold, pointThreshold, layers := r.lineThreshold, r.pointThreshold, r.layers
	r.mu.Unlock()

	var hits []Intersection
	root.TraverseVisible(func(obj *scene.Object) {
		if !obj.Type.Renderable() || obj.Geometry == nil || !obj.Layers.Test(layers) {
			return
		}
		world := obj.WorldMatrix()
		var local []mgl32.Vec3
		switch obj.Type {
		case scene.TypeMesh:
			local = intersectMesh(ray, world, obj.Geometry)
		case scene.TypeLine:
			local = intersectLine(ray, world, obj.Geometry, lineThreshold, 1)
		case scene.TypeLineSegments:
			local = intersectLine(ray, world, obj.Geometry, lineThreshold, 2)
		case scene.TypePoints:
			local = intersectPoints(ray, world, obj.Geometry, pointThreshold)
		}
		for _, p := range local {
			point := common.TransformPoint(world, p)
			hits = append(hits, Intersection{
				Object:   obj,
				Distance: point.Sub(ray.Origin).Len(),
				Point:    point,
			})
		}
	})

	slices.SortStableFunc(hits, func(a, b Intersection) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

// localRay moves the ray into the object space described by world. The second result is
// false for singular transforms such as a zero scale.
func localRay(ray common.Ray, world mgl32.Mat4) (common.Ray, bool) {
	if world.Det() == 0 {
		return common.Ray{}, false
	}
	return ray.Transform(world.Inv()), true
}

// localThreshold converts a world-space distance into object space using the largest axis
// scale of world.
func localThreshold(threshold float32, world mgl32.Mat4) float32 {
	scale := max(world.Col(0).Vec3().Len(), world.Col(1).Vec3().Len(), world.Col(2).Vec3().Len())
	if scale == 0 {
		return threshold
	}
	return threshold / scale
}

func intersectMesh(ray common.Ray, world mgl32.Mat4, g *model.Geometry) []mgl32.Vec3 {
	local, ok := localRay(ray, world)
	if !ok {
		return nil
	}
	if _, hit := local.IntersectBox(g.BoundingBox()); !hit {
		return nil
	}
	start, end := g.DrawnElements()
	var out []mgl32.Vec3
	for i := start; i+2 < end; i += 3 {
		if t, hit := local.IntersectTriangle(g.Vertex(i), g.Vertex(i+1), g.Vertex(i+2)); hit {
			out = append(out, local.At(t))
		}
	}
	return out
}

// intersectLine tests consecutive vertex pairs advancing by step: 1 for line strips, 2 for
// disjoint segments.
func intersectLine(ray common.Ray, world mgl32.Mat4, g *model.Geometry, threshold float32, step int) []mgl32.Vec3 {
	local, ok := localRay(ray, world)
	if !ok {
		return nil
	}
	threshold = localThreshold(threshold, world)
	box := g.BoundingBox()
	pad := mgl32.Vec3{threshold, threshold, threshold}
	if _, hit := local.IntersectBox(common.Box3{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}); !hit {
		return nil
	}
	limit := threshold * threshold
	start, end := g.DrawnElements()
	var out []mgl32.Vec3
	for i := start; i+1 < end; i += step {
		distSq, t := local.DistanceSqToSegment(g.Vertex(i), g.Vertex(i+1))
		if distSq <= limit {
			out = append(out, local.At(t))
		}
	}
	return out
}

func intersectPoints(ray common.Ray, world mgl32.Mat4, g *model.Geometry, threshold float32) []mgl32.Vec3 {
	local, ok := localRay(ray, world)
	if !ok {
		return nil
	}
	threshold = localThreshold(threshold, world)
	limit := threshold * threshold
	start, end := g.DrawnElements()
	var out []mgl32.Vec3
	for i := start; i < end; i++ {
		p := g.Vertex(i)
		if distSq, _ := local.DistanceSqToPoint(p); distSq <= limit {
			out = append(out, p)
		}
	}
	return out
}
