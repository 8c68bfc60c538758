package xr

import (
	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	arSceneScale    float32 = 0.00001
	arCameraNear    float32 = 0.01
	controllerCount         = 2
	pointerLength   float32 = 50
)

var arRigPosition = mgl32.Vec3{0, 0, 0.1}

// strategy holds what differs between a VR and an AR session.
type strategy interface {
	init() SessionInit

	// setup runs before the rig is built so the rig camera picks up camera changes.
	setup(scenes scene.Manager, cam camera.Camera)

	// rigPosition is where the rig is placed in the scene.
	rigPosition(cam camera.Camera) mgl32.Vec3

	// controllers returns the nodes attached to the rig.
	controllers() []*scene.Object

	teardown(scenes scene.Manager, cam camera.Camera)
}

func newStrategy(kind Kind) strategy {
	if kind == AR {
		return &arStrategy{}
	}
	return &vrStrategy{}
}

type vrStrategy struct{}

func (vrStrategy) init() SessionInit {
	return SessionInit{
		Mode:             VR.Mode(),
		ReferenceSpace:   "local-floor",
		OptionalFeatures: []string{"local-floor", "bounded-floor", "hand-tracking"},
	}
}

func (vrStrategy) setup(scene.Manager, camera.Camera) {}

func (vrStrategy) rigPosition(cam camera.Camera) mgl32.Vec3 {
	return cam.Position()
}

// controllers returns one node per controller, each with a pointer line pointing down -z.
func (vrStrategy) controllers() []*scene.Object {
	out := make([]*scene.Object, 0, controllerCount)
	for i := range controllerCount {
		pointer := scene.NewObject(scene.TypeLine,
			scene.WithName(PointerName),
			scene.WithGeometry(model.NewGeometry(model.WithPositions([]mgl32.Vec3{{0, 0, 0}, {0, 0, -1}}))),
			scene.WithMaterial(material.NewMaterial(material.WithColor(common.Color(0xffffff)))),
		)
		pointer.Scale = mgl32.Vec3{1, 1, pointerLength}
		controller := scene.NewGroup(ControllerName(i))
		controller.Add(pointer)
		out = append(out, controller)
	}
	return out
}

func (vrStrategy) teardown(scene.Manager, camera.Camera) {}

// arStrategy shrinks the scene to table size for pass-through viewing and restores it
// when the session ends.
type arStrategy struct {
	scales map[string]mgl32.Vec3
	near   float32
}

func (*arStrategy) init() SessionInit {
	return SessionInit{
		Mode:             AR.Mode(),
		ReferenceSpace:   "local",
		OptionalFeatures: []string{"dom-overlay"},
	}
}

func (s *arStrategy) setup(scenes scene.Manager, cam camera.Camera) {
	s.scales = make(map[string]mgl32.Vec3)
	for _, group := range arGroups(scenes) {
		s.scales[group.Name] = group.Scale
		group.Scale = mgl32.Vec3{arSceneScale, arSceneScale, arSceneScale}
	}
	s.near = cam.Near()
	cam.SetNear(arCameraNear)
}

func (*arStrategy) rigPosition(camera.Camera) mgl32.Vec3 {
	return arRigPosition
}

func (*arStrategy) controllers() []*scene.Object { return nil }

func (s *arStrategy) teardown(scenes scene.Manager, cam camera.Camera) {
	for _, group := range arGroups(scenes) {
		if scale, ok := s.scales[group.Name]; ok {
			group.Scale = scale
		}
	}
	if s.near > 0 {
		cam.SetNear(s.near)
	}
	s.scales = nil
}

func arGroups(scenes scene.Manager) []*scene.Object {
	return []*scene.Object{scenes.EventData(), scenes.Geometries(), scenes.Labels()}
}
