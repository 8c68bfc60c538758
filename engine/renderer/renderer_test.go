package renderer

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/light"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithViewport(800, 600),
		camera.WithController(camera.NewCameraController(camera.WithPosition(mgl32.Vec3{0, 0, 100}))),
	)
}

func triangle() *model.Geometry {
	return model.NewGeometry(model.WithPositions([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}))
}

func mesh(name string, z float32, m material.Material) *scene.Object {
	return scene.NewObject(scene.TypeMesh,
		scene.WithName(name),
		scene.WithGeometry(triangle()),
		scene.WithMaterial(m),
		scene.WithPosition(mgl32.Vec3{0, 0, z}),
	)
}

func names(items []DrawItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Object.Name
	}
	return out
}

func TestViewportPixels(t *testing.T) {
	x, y, w, h := FullViewport.Pixels(800, 600)
	assert.Equal(t, [4]uint32{0, 0, 800, 600}, [4]uint32{x, y, w, h})

	corner := Viewport{X: 0.75, Y: 0.75, Width: 0.25, Height: 0.25}
	x, y, w, h = corner.Pixels(800, 600)
	assert.Equal(t, [4]uint32{600, 450, 200, 150}, [4]uint32{x, y, w, h})
	assert.InDelta(t, 800.0/600.0, corner.Aspect(800, 600), 1e-6)

	_, _, w, h = Viewport{X: 2, Y: 2, Width: 0, Height: 0}.Pixels(100, 100)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)
}

func TestCollectDrawListOrdersOpaqueThenTransparent(t *testing.T) {
	root := scene.NewGroup("root")
	near := mesh("near-glass", 50, material.NewMaterial(material.WithTransparent(true), material.WithOpacity(0.5)))
	far := mesh("far-glass", -50, material.NewMaterial(material.WithTransparent(true), material.WithOpacity(0.5)))
	late := mesh("late", 0, material.NewMaterial())
	late.RenderOrder = 1
	early := mesh("early", 0, material.NewMaterial())
	root.Add(near, late, far, early)

	items := CollectDrawList(View{Root: root, Camera: testCamera(), Viewport: FullViewport})
	assert.Equal(t, []string{"early", "late", "far-glass", "near-glass"}, names(items))
	assert.True(t, items[3].Key.Blend)
	assert.False(t, items[3].Key.DepthWrite)
	assert.True(t, items[0].Lit)
}

func TestCollectDrawListSkipsHiddenAndOtherLayers(t *testing.T) {
	root := scene.NewGroup("root")
	group := scene.NewGroup("hidden-group")
	group.Visible = false
	group.Add(mesh("inside-hidden", 0, material.NewMaterial()))
	moved := mesh("moved", 0, material.NewMaterial())
	moved.Layers.Disable(scene.LayerVisible)
	moved.Layers.Enable(scene.LayerHidden)
	empty := scene.NewObject(scene.TypeMesh, scene.WithName("empty"),
		scene.WithGeometry(model.NewGeometry()), scene.WithMaterial(material.NewMaterial()))
	root.Add(group, moved, empty, mesh("shown", 0, material.NewMaterial()))

	items := CollectDrawList(View{Root: root, Camera: testCamera()})
	assert.Equal(t, []string{"shown"}, names(items))

	var hiddenLayer scene.Layers
	hiddenLayer.Enable(scene.LayerHidden)
	items = CollectDrawList(View{Root: root, Camera: testCamera(), Layers: hiddenLayer})
	assert.Equal(t, []string{"moved"}, names(items))
}

func TestCollectDrawListComposesWorldMatrix(t *testing.T) {
	root := scene.NewGroup("root")
	parent := scene.NewGroup("parent")
	parent.Position = mgl32.Vec3{10, 0, 0}
	parent.Scale = mgl32.Vec3{2, 2, 2}
	child := mesh("child", 0, material.NewMaterial())
	child.Position = mgl32.Vec3{1, 0, 0}
	parent.Add(child)
	root.Add(parent)

	items := CollectDrawList(View{Root: root, Camera: testCamera()})
	require.Len(t, items, 1)
	assert.True(t, items[0].World.ApproxEqualThreshold(child.WorldMatrix(), 1e-5))
	assert.InDelta(t, 12, items[0].World.Col(3).X(), 1e-5)
}

func TestPipelineKeyFromMaterial(t *testing.T) {
	key, lit := pipelineKey(scene.TypeMesh, material.NewMaterial(material.WithSide(material.DoubleSide)))
	assert.Equal(t, pipeline.Key{Topology: pipeline.Triangles, Cull: pipeline.CullNone, DepthTest: true, DepthWrite: true}, key)
	assert.True(t, lit)

	key, _ = pipelineKey(scene.TypeMesh, material.NewMaterial(material.WithSide(material.BackSide)))
	assert.Equal(t, pipeline.CullFront, key.Cull)

	key, lit = pipelineKey(scene.TypeMesh, material.NewMaterial(material.WithWireframe(true)))
	assert.Equal(t, pipeline.Lines, key.Topology)
	assert.False(t, lit)

	key, _ = pipelineKey(scene.TypePoints, material.NewMaterial(material.WithDepthTest(false)))
	assert.Equal(t, pipeline.Points, key.Topology)
	assert.False(t, key.DepthTest)
	assert.False(t, key.DepthWrite)

	key, _ = pipelineKey(scene.TypeLineSegments, material.NewMaterial())
	assert.Equal(t, pipeline.Lines, key.Topology)
}

func TestLineStripBecomesLineList(t *testing.T) {
	g := model.NewGeometry(model.WithPositions([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}))
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 3}, drawIndices(modeStrip, g))

	first, count := drawRange(scene.TypeLine, false, g)
	assert.Equal(t, 0, first)
	assert.Equal(t, 6, count)

	g.SetDrawRange(1, 2)
	first, count = drawRange(scene.TypeLine, false, g)
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, count)

	g.SetDrawRange(0, 1)
	_, count = drawRange(scene.TypeLine, false, g)
	assert.Zero(t, count)
}

func TestWireframeEdgesFollowDrawRange(t *testing.T) {
	g := model.NewGeometry(
		model.WithPositions([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}),
		model.WithIndices([]uint32{0, 1, 2, 2, 1, 3}),
	)
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 0, 2, 1, 1, 3, 3, 2}, drawIndices(modeEdges, g))

	g.SetDrawRange(0, 4)
	first, count := drawRange(scene.TypeMesh, true, g)
	assert.Equal(t, 0, first)
	assert.Equal(t, 6, count)

	first, count = drawRange(scene.TypeMesh, false, g)
	assert.Equal(t, 0, first)
	assert.Equal(t, 4, count)
}

func TestDirectDrawsUseGeometryIndices(t *testing.T) {
	assert.Nil(t, drawIndices(modeDirect, triangle()))
	indexed := model.NewGeometry(model.WithPositions([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}), model.WithIndices([]uint32{1, 0}))
	assert.Equal(t, []uint32{1, 0}, drawIndices(modeDirect, indexed))
	assert.Equal(t, modeStrip, modeOf(scene.TypeLine, false))
	assert.Equal(t, modeEdges, modeOf(scene.TypeMesh, true))
	assert.Equal(t, modeDirect, modeOf(scene.TypePoints, true))
}

func TestCountClipSetsSharesPlaneSlices(t *testing.T) {
	planes := []*common.Plane{{Normal: mgl32.Vec3{1, 0, 0}}, {Normal: mgl32.Vec3{0, 1, 0}}}
	other := []*common.Plane{{Normal: mgl32.Vec3{0, 0, 1}}}
	a := mesh("a", 0, material.NewMaterial(material.WithClippingPlanes(planes, false)))
	b := mesh("b", 0, material.NewMaterial(material.WithClippingPlanes(planes, true)))
	c := mesh("c", 0, material.NewMaterial(material.WithClippingPlanes(other, false)))
	d := mesh("d", 0, material.NewMaterial())
	lists := [][]DrawItem{{{Object: a}, {Object: b}}, {{Object: c}, {Object: d}}}
	assert.Equal(t, 2, countClipSets(lists))
}

func TestFrameUniformPacksAmbientFirst(t *testing.T) {
	lights := []light.Light{
		light.NewLight(light.LightTypeDirectional, light.WithPosition(0, 1, 0)),
		light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.5)),
	}
	buf := marshalFrameUniform(testCamera(), lights)
	require.Len(t, buf, frameUniformSize)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[lightCountOffset:]))
	// kind of the first light slot
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[lightsOffset+12:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[lightsOffset+light.GPULightSize+12:]))
}

func TestFrameUniformCapsLights(t *testing.T) {
	lights := make([]light.Light, 0, 8)
	for range 8 {
		lights = append(lights, light.NewLight(light.LightTypeDirectional, light.WithPosition(1, 0, 0)))
	}
	buf := marshalFrameUniform(testCamera(), lights)
	assert.Equal(t, uint32(frameLightSlots), binary.LittleEndian.Uint32(buf[lightCountOffset:]))
}

func TestObjectUniformLayout(t *testing.T) {
	o := mesh("o", 3, material.NewMaterial(material.WithColor(common.Color(0xff0000)), material.WithOpacity(0.25)))
	buf := marshalObjectUniform(DrawItem{Object: o, World: o.WorldMatrix(), Lit: true})
	require.Len(t, buf, objectUniformSize)
	gm := material.NewGPUMaterial(o.Material, true)
	assert.Equal(t, gm.Marshal(), buf[64:])
}

func TestShaderSourceDefinesUniforms(t *testing.T) {
	src := objectShaderSource()
	for _, s := range []string{"struct CameraUniform", "struct Light", "struct Material", "struct ClipSet", "fn vs_main", "fn fs_main"} {
		assert.Contains(t, src, s)
	}
}

func TestObjectShaderMatchesPackedSizes(t *testing.T) {
	s, err := newObjectShader()
	require.NoError(t, err)
	assert.Equal(t, "vs_main", s.EntryPoint(shader.StageVertex))
	assert.Equal(t, "fs_main", s.EntryPoint(shader.StageFragment))
	assert.Equal(t, []int{0, 1}, s.Groups())

	frame, _ := s.BindGroupLayoutDescriptor(0)
	require.Len(t, frame.Entries, 1)
	assert.Equal(t, uint64(frameUniformSize), frame.Entries[0].Buffer.MinBindingSize)
	assert.True(t, frame.Entries[0].Buffer.HasDynamicOffset)

	object, _ := s.BindGroupLayoutDescriptor(1)
	require.Len(t, object.Entries, 2)
	assert.Equal(t, uint64(objectUniformSize), object.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(material.GPUClipSetSize), object.Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageFragment, object.Entries[1].Visibility)

	size, ok := s.StructSize("CameraUniform")
	require.True(t, ok)
	assert.Equal(t, uint64(lightsOffset), size)
	size, _ = s.StructSize("Light")
	assert.Equal(t, uint64(light.GPULightSize), size)

	assert.Equal(t, uint64(model.GPUVertexStride), s.VertexLayout().ArrayStride)
}

func TestNewRendererRequiresWindowForWGPU(t *testing.T) {
	r, err := NewRenderer(BackendTypeWGPU, nil)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestHeadlessRenderRecordsViews(t *testing.T) {
	r, err := NewRenderer(BackendTypeHeadless, nil, WithSize(800, 600))
	require.NoError(t, err)
	defer r.Release()

	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	main := scene.NewGroup("main")
	main.Add(mesh("a", 0, material.NewMaterial()), mesh("b", 0, material.NewMaterial()))
	overlay := scene.NewGroup("overlay")
	overlay.Add(mesh("c", 0, material.NewMaterial()))

	bg := common.ColorBackgroundDk
	corner := Viewport{X: 0.75, Y: 0, Width: 0.25, Height: 0.25}
	require.NoError(t, r.Render(bg,
		View{Root: main, Camera: testCamera(), Viewport: FullViewport},
		View{Root: overlay, Camera: testCamera(), Viewport: corner},
	))

	frame, ok := LastFrame(r)
	require.True(t, ok)
	assert.Equal(t, bg, frame.Clear)
	require.Len(t, frame.Views, 2)
	assert.Equal(t, []string{"a", "b"}, names(frame.Views[0].Items))
	assert.Equal(t, [4]uint32{600, 0, 200, 150}, frame.Views[1].Pixels)

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.Frame)
	assert.Equal(t, 2, stats.Views)
	assert.Equal(t, 3, stats.Draws)

	r.Resize(400, 300)
	require.NoError(t, r.Render(bg, View{Root: overlay, Camera: testCamera(), Viewport: corner}))
	frame, _ = LastFrame(r)
	assert.Equal(t, [4]uint32{300, 0, 100, 75}, frame.Views[0].Pixels)
	assert.Equal(t, uint64(2), r.Stats().Frame)
}
