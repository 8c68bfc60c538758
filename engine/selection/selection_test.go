package selection

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	width  = 800
	height = 600
)

func triangle(name string, z float32) *scene.Object {
	g := model.NewGeometry(model.WithPositions([]mgl32.Vec3{{-50, -50, z}, {50, -50, z}, {0, 50, z}}))
	return scene.NewObject(scene.TypeMesh, scene.WithName(name), scene.WithGeometry(g))
}

func newSelection(t *testing.T, objects ...*scene.Object) (Manager, InfoLogger, *scene.Object) {
	t.Helper()
	root := scene.NewGroup("Scene")
	root.Add(objects...)
	logger := NewInfoLogger(DefaultInfoLoggerSize)
	controls := camera.NewControls(camera.WithViewportSize(width, height))
	m := NewManager(root, controls, WithInfoLogger(logger), WithSelecting(true))
	m.SetViewport(common.Viewport{Width: width, Height: height})
	return m, logger, root
}

func click(m Manager, x, y float32) {
	m.OnPointerDown(x, y)
	m.OnPointerUp(x, y)
}

func TestPickReturnsNearestHit(t *testing.T) {
	far := triangle("Far", 0)
	near := triangle("Near", 50)
	m, _, _ := newSelection(t, far, near)

	hit, ok := m.Pick(width/2, height/2)
	require.True(t, ok)
	assert.Same(t, near, hit.Object)
	assert.InDelta(t, 150, hit.Distance, 1e-2)
}

func TestHiddenObjectsNeverPicked(t *testing.T) {
	tests := []struct {
		name string
		hide func(obj *scene.Object, parent *scene.Object)
	}{
		{"invisible", func(obj, _ *scene.Object) { obj.Visible = false }},
		{"hidden parent", func(_, parent *scene.Object) { parent.Visible = false }},
		{"hidden layer", func(obj, _ *scene.Object) {
			obj.Layers.Disable(scene.LayerVisible)
			obj.Layers.Enable(scene.LayerHidden)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := triangle("Barrel", 0)
			parent := scene.NewGroup("Detector")
			parent.Add(obj)
			m, _, _ := newSelection(t, parent)

			tt.hide(obj, parent)
			_, ok := m.Pick(width/2, height/2)
			assert.False(t, ok)

			m.OnPointerMove(width/2, height/2)
			assert.Empty(t, m.Outlined())
		})
	}
}

func TestHoverOutlinesAndMissClears(t *testing.T) {
	obj := triangle("Barrel", 0)
	m, _, _ := newSelection(t, obj)

	m.OnPointerMove(width/2, height/2)
	assert.Equal(t, []*scene.Object{obj}, m.Outlined())

	m.OnPointerMove(5, 5)
	assert.Empty(t, m.Outlined())
}

func TestClickTogglesSelection(t *testing.T) {
	obj := triangle("Track", 0)
	obj.UserData = map[string]any{"pT": 12.5, "charge": -1, "label": "mu", "hits": []int{1, 2}}
	m, logger, _ := newSelection(t, obj)

	var published []string
	m.ActiveObject().OnUpdate(func(id string) { published = append(published, id) })

	click(m, width/2, height/2)
	assert.Equal(t, obj.ID, m.ActiveObject().Get())
	assert.Equal(t, "Track", m.SelectedObject().Name)
	assert.Equal(t, 12.5, m.SelectedObject().Attributes["pT"])
	require.NotEmpty(t, logger.Entries())
	assert.Equal(t, "Selected: Track with charge=-1, label=mu, pT=12.5", logger.Entries()[0])

	click(m, width/2, height/2)
	assert.Equal(t, "", m.ActiveObject().Get())
	assert.Equal(t, "Deselected: Track", logger.Entries()[0])
	assert.Equal(t, []string{obj.ID, ""}, published)
}

func TestDragIsNotAClick(t *testing.T) {
	obj := triangle("Track", 0)
	m, logger, _ := newSelection(t, obj)

	m.OnPointerDown(width/2, height/2)
	m.OnPointerUp(width/2+10, height/2)
	assert.Equal(t, "", m.ActiveObject().Get())
	assert.Empty(t, logger.Entries())

	m.OnPointerDown(width/2, height/2)
	m.OnPointerUp(width/2+3, height/2+3)
	assert.Equal(t, obj.ID, m.ActiveObject().Get())
}

func TestDisablingSelectionClearsOutline(t *testing.T) {
	obj := triangle("Barrel", 0)
	m, _, _ := newSelection(t, obj)
	m.OnPointerMove(width/2, height/2)
	require.NotEmpty(t, m.Outlined())

	m.SetSelecting(false)
	assert.Empty(t, m.Outlined())

	m.OnPointerMove(width/2, height/2)
	click(m, width/2, height/2)
	assert.Empty(t, m.Outlined())
	assert.Equal(t, "", m.ActiveObject().Get())
}

func TestHighlightObjectByID(t *testing.T) {
	obj := triangle("Barrel", 0)
	m, _, _ := newSelection(t, obj)

	assert.True(t, m.HighlightObject(obj.ID))
	assert.Equal(t, []*scene.Object{obj}, m.Outlined())
	assert.False(t, m.HighlightObject("missing"))

	m.ClearHighlight()
	assert.Empty(t, m.Outlined())
}

func TestRaycasterLinesAndPoints(t *testing.T) {
	line := scene.NewObject(scene.TypeLine, scene.WithName("Track"), scene.WithGeometry(
		model.NewGeometry(model.WithPositions([]mgl32.Vec3{{-50, 0.5, 0}, {50, 0.5, 0}}))))
	points := scene.NewObject(scene.TypePoints, scene.WithName("Hits"), scene.WithGeometry(
		model.NewGeometry(model.WithPositions([]mgl32.Vec3{{0, 0, 20}, {40, 40, 40}}))))
	root := scene.NewGroup("Scene")
	root.Add(line, points)

	ray := common.NewRay(mgl32.Vec3{0, 0, 200}, mgl32.Vec3{0, 0, -1})
	hits := NewRaycaster().Intersect(ray, root)
	require.Len(t, hits, 2)
	assert.Same(t, points, hits[0].Object)
	assert.Same(t, line, hits[1].Object)

	hits = NewRaycaster(WithLineThreshold(0.1), WithPointThreshold(0.1)).Intersect(ray, root)
	require.Len(t, hits, 1)
	assert.Same(t, points, hits[0].Object)
}

func TestRaycasterHonorsTransforms(t *testing.T) {
	obj := triangle("Moved", 0)
	obj.Position = mgl32.Vec3{1000, 0, 0}
	root := scene.NewGroup("Scene")
	root.Add(obj)

	hits := NewRaycaster().Intersect(common.NewRay(mgl32.Vec3{0, 0, 200}, mgl32.Vec3{0, 0, -1}), root)
	assert.Empty(t, hits)

	hits = NewRaycaster().Intersect(common.NewRay(mgl32.Vec3{1000, 0, 200}, mgl32.Vec3{0, 0, -1}), root)
	require.Len(t, hits, 1)
	assert.True(t, common.ApproxEqualVec3(hits[0].Point, mgl32.Vec3{1000, 0, 0}, 1e-2))
}

func TestInfoLoggerKeepsNewestEntries(t *testing.T) {
	logger := NewInfoLogger(3)
	for i := 0; i < 5; i++ {
		logger.Add(fmt.Sprint(i), "Item")
	}
	assert.Equal(t, []string{"Item: 4", "Item: 3", "Item: 2"}, logger.Entries())
}
