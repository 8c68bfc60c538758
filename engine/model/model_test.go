package model

import (
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTubeGeometryCounts(t *testing.T) {
	path := []mgl32.Vec3{{0, 0, 0}, {0, 0, 100}, {10, 0, 200}}
	g := NewTubeGeometry(path, DefaultTubeRadius, DefaultTubeTubularSegments, DefaultTubeRadialSegments)

	assert.Equal(t, GeometryTube, g.Kind())
	assert.Equal(t, (DefaultTubeTubularSegments+1)*(DefaultTubeRadialSegments+1), g.VertexCount())
	assert.Equal(t, DefaultTubeTubularSegments*DefaultTubeRadialSegments*6, g.IndexCount())
	assert.Equal(t, g.IndexCount(), g.RevealCount())
}

func TestTubeRingsStayAtRadius(t *testing.T) {
	path := []mgl32.Vec3{{0, 0, 0}, {0, 0, 10}}
	g := NewTubeGeometry(path, 2, 1, 8)
	for _, p := range g.Positions() {
		r := mgl32.Vec2{p.X(), p.Y()}.Len()
		assert.InDelta(t, 2, r, 1e-4)
	}
}

func TestDegenerateTubeIsEmpty(t *testing.T) {
	g := NewTubeGeometry([]mgl32.Vec3{{1, 2, 3}}, 2, 64, 8)
	assert.Equal(t, 0, g.RevealCount())
}

func TestDrawRange(t *testing.T) {
	g := NewGeometry(WithFlatPositions([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 9}))
	require.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 3, g.RevealCount())

	start, end := g.DrawnElements()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	g.SetDrawRange(0, 2)
	_, end = g.DrawnElements()
	assert.Equal(t, 2, end)

	g.SetDrawRange(0, 99)
	_, end = g.DrawnElements()
	assert.Equal(t, 3, end)
}

func TestBoundingBoxAndClone(t *testing.T) {
	g := NewGeometry(WithPositions([]mgl32.Vec3{{-1, 0, 0}, {1, 2, 3}}))
	box := g.BoundingBox()
	assert.Equal(t, mgl32.Vec3{2, 2, 3}, box.Size())

	c := g.Clone()
	c.SetPositions([]mgl32.Vec3{{0, 0, 0}})
	assert.Equal(t, 2, g.VertexCount())
	assert.Len(t, g.MarshalVertices(), 2*GPUVertexStride)
	assert.Nil(t, g.MarshalIndices())
}

func TestSphereGeometryCounts(t *testing.T) {
	g := NewSphereGeometry(2, 8, 6)
	assert.Equal(t, 9*7, g.VertexCount())
	// Two triangles per quad except one per quad on each pole row.
	assert.Equal(t, (8*6*2-8*2)*3, g.IndexCount())
	for _, p := range g.Positions() {
		assert.InDelta(t, 2, p.Len(), 1e-4)
	}
}

func TestBoxGeometry(t *testing.T) {
	g := NewBoxGeometry(30, 30, 6)
	assert.Equal(t, 24, g.VertexCount())
	assert.Equal(t, 36, g.IndexCount())
	assert.Equal(t, mgl32.Vec3{30, 30, 6}, g.BoundingBox().Size())
}

func TestConeGeometry(t *testing.T) {
	g := NewConeGeometry(10, 1, 100, 16, 2)
	assert.Equal(t, 17*3, g.VertexCount())
	assert.Equal(t, 16*2*6, g.IndexCount())

	size := g.BoundingBox().Size()
	assert.InDelta(t, 100, size.Y(), 1e-4)
	assert.InDelta(t, 20, size.X(), 1e-3)

	top := g.Vertex(0)
	assert.InDelta(t, 50, top.Y(), 1e-4)
	assert.InDelta(t, 10, mgl32.Vec2{top.X(), top.Z()}.Len(), 1e-4)
}

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	points := []mgl32.Vec3{{0, 0, 0}, {10, 5, 0}, {20, 0, 3}}
	curve := CatmullRomPoints(points, 50)
	require.Len(t, curve, 51)
	assert.Equal(t, points[0], curve[0])
	assert.True(t, common.ApproxEqualVec3(curve[25], points[1], 1e-4))
	assert.True(t, common.ApproxEqualVec3(curve[50], points[2], 1e-4))

	line := CatmullRomPoints([]mgl32.Vec3{{0, 0, 0}, {0, 0, 10}, {0, 0, 20}}, 4)
	for i, p := range line {
		assert.InDelta(t, float32(i)*5, p.Z(), 1e-4)
		assert.InDelta(t, 0, p.X(), 1e-6)
	}

	assert.Len(t, CatmullRomPoints(points[:1], 10), 1)
}
