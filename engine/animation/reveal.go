package animation

import (
	"math"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// Reveal sphere parameters.
const (
	revealMainShare   = 0.75
	revealSphereFirst = 3000
	revealSphereFinal = 10000
	revealStartScale  = 0.01
)

// hitCloud is a point cloud revealed by the expanding sphere. It keeps its full vertex
// list and shows the subset the sphere has reached.
type hitCloud struct {
	obj  *scene.Object
	hits []mgl32.Vec3
}

func (m *manager) AnimateEvent(durationMs float32, onEnd, onStart func()) {
	labels := m.scenes.Labels()
	labels.Visible = false

	sphereTail := durationMs * (1 - revealMainShare)
	durationMs *= revealMainShare

	var tweens []*tween.Tween
	var clouds []*hitCloud

	m.scenes.EventData().Traverse(func(obj *scene.Object) {
		if obj.Geometry == nil {
			return
		}
		switch {
		case obj.Name == "Track" || obj.Name == "LineHit":
			if t := drawRangeTween(obj.Geometry, durationMs); t != nil {
				tweens = append(tweens, t)
			}
		case obj.Name == "Hit" && obj.Type == scene.TypePoints:
			hits := obj.Geometry.Positions()
			obj.Geometry.SetPositions(nil)
			clouds = append(clouds, &hitCloud{obj: obj, hits: hits})
		default:
			tweens = append(tweens, scaleTween(obj, durationMs))
		}
	})

	radius := float32(0)
	reveal := func(r float32) {
		sphere := common.Sphere{Radius: r}
		for _, cloud := range clouds {
			var reached []mgl32.Vec3
			for _, p := range cloud.hits {
				if sphere.ContainsPoint(p) {
					reached = append(reached, p)
				}
			}
			if len(reached) > 0 {
				cloud.obj.Geometry.SetPositions(reached)
			}
		}
	}
	setRadius := func(r float32) {
		radius = r
		reveal(r)
	}
	getRadius := func() float32 { return radius }

	tail := tween.Scalar(getRadius, setRadius, revealSphereFinal, sphereTail,
		tween.WithOnComplete(func() {
			reveal(float32(math.Inf(1)))
			labels.Visible = true
			if onEnd != nil {
				onEnd()
			}
		}))
	main := tween.Scalar(getRadius, setRadius, revealSphereFirst, durationMs,
		tween.WithEasing(ease.OutQuart))
	main.Chain(tail)
	tweens = append(tweens, main)

	tween.WithOnStart(onStart)(tweens[0])
	for _, t := range tweens[:len(tweens)-1] {
		tween.WithEasing(ease.OutQuart)(t)
	}
	m.scheduler.Add(tweens...)
}

// drawRangeTween grows the draw range of g from nothing to its full reveal count and puts
// the original range back on completion.
func drawRangeTween(g *model.Geometry, durationMs float32) *tween.Tween {
	count := g.RevealCount()
	if count == 0 {
		return nil
	}
	original := g.DrawRange()
	g.SetDrawRange(0, 0)
	drawn := float32(0)
	return tween.Scalar(
		func() float32 { return drawn },
		func(v float32) {
			drawn = v
			g.SetDrawRange(0, int(v))
		},
		float32(count), durationMs,
		tween.WithOnComplete(func() { g.SetDrawRange(original.Start, original.Count) }),
	)
}

// scaleTween grows obj from a uniform revealStartScale to its authored scale. An object
// away from the origin has its position re-derived from the scale on every step so it
// moves out along its own direction instead of sitting at the authored point.
func scaleTween(obj *scene.Object, durationMs float32) *tween.Tween {
	authoredScale, authoredPosition := obj.Scale, obj.Position
	start := mgl32.Vec3{revealStartScale, revealStartScale, revealStartScale}
	apply := func(progress float32) {
		if progress >= 1 {
			obj.Scale, obj.Position = authoredScale, authoredPosition
			return
		}
		obj.Scale = common.LerpVec3(start, authoredScale, progress)
		if authoredPosition != (mgl32.Vec3{}) && authoredScale.X() != 0 {
			obj.Position = authoredPosition.Mul(obj.Scale.X() / authoredScale.X())
		}
	}
	apply(0)

	progress := float32(0)
	return tween.Scalar(
		func() float32 { return progress },
		func(v float32) {
			progress = v
			apply(v)
		},
		1, durationMs,
	)
}

// clippingDirections returns the outward normals of the reveal volume: the vertices of a
// coarse unit sphere.
func clippingDirections() []mgl32.Vec3 {
	return model.NewSphereGeometry(1, 8, 8).Positions()
}

type savedClipping struct {
	planes       []*common.Plane
	intersection bool
}

func (m *manager) AnimateEventWithClipping(durationMs float32, onEnd, onStart func()) {
	eventData := m.scenes.EventData()
	labels := m.scenes.Labels()
	labels.Visible = false

	directions := clippingDirections()
	planes := make([]*common.Plane, len(directions))
	for i, d := range directions {
		planes[i] = common.NewPlane(d, 0)
	}

	saved := map[*scene.Object]savedClipping{}
	eventData.Traverse(func(obj *scene.Object) {
		if obj.Geometry == nil || obj.Material == nil {
			return
		}
		saved[obj] = savedClipping{
			planes:       obj.Material.ClippingPlanes(),
			intersection: obj.Material.ClipIntersection(),
		}
		obj.Material.SetClippingPlanes(planes)
		obj.Material.SetClipIntersection(false)
	})

	tweens := make([]*tween.Tween, len(planes))
	for i, p := range planes {
		tweens[i] = tween.Scalar(
			func() float32 { return p.Constant },
			func(v float32) { p.Constant = v },
			m.clipConstant, durationMs,
		)
	}
	tween.WithOnStart(onStart)(tweens[0])
	tween.WithOnComplete(func() {
		for obj, s := range saved {
			obj.Material.SetClippingPlanes(s.planes)
			obj.Material.SetClipIntersection(s.intersection)
		}
		labels.Visible = true
		if onEnd != nil {
			onEnd()
		}
	})(tweens[len(tweens)-1])
	m.scheduler.Add(tweens...)
}

// eventTime reads the "time" attribute used by time-driven visibility.
func eventTime(obj *scene.Object) (float64, bool) {
	if obj.UserData == nil {
		return 0, false
	}
	v, ok := obj.UserData["time"]
	if !ok {
		return 0, false
	}
	return common.ToFloat(v)
}
