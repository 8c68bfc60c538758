package material

import (
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestClippingModes(t *testing.T) {
	planes := []*common.Plane{
		common.NewPlane(mgl32.Vec3{0, 1, 0}, 0),
		common.NewPlane(mgl32.Vec3{0, -1, 0}, 0),
	}
	m := NewMaterial(WithClippingPlanes(planes, true))

	// Each plane keeps one half, so with intersection only a point outside both is clipped.
	assert.False(t, m.Clipped(mgl32.Vec3{0, 5, 0}))
	assert.False(t, m.Clipped(mgl32.Vec3{0, -5, 0}))

	m.SetClipIntersection(false)
	assert.True(t, m.Clipped(mgl32.Vec3{0, 5, 0}))
	assert.True(t, m.Clipped(mgl32.Vec3{0, -5, 0}))
}

func TestClonesSharePlanes(t *testing.T) {
	plane := common.NewPlane(mgl32.Vec3{0, 1, 0}, 0)
	m := NewMaterial(WithColor(0xff0000), WithClippingPlanes([]*common.Plane{plane}, false))
	c := m.Clone()

	c.SetColor(0x00ff00)
	assert.Equal(t, common.Color(0xff0000), m.Color())

	plane.Set(mgl32.Vec3{1, 0, 0}, 0)
	assert.Same(t, plane, c.ClippingPlanes()[0])
}

func TestOpacityOption(t *testing.T) {
	m := NewMaterial(WithOpacity(2))
	assert.Equal(t, float32(1), m.Opacity())
	assert.False(t, m.Transparent())

	m = NewMaterial(WithOpacity(0.5))
	assert.True(t, m.Transparent())
}

func TestGPUMaterialMarshal(t *testing.T) {
	plane := common.NewPlane(mgl32.Vec3{0, 1, 0}, 0)
	m := NewMaterial(WithColor(common.ColorWhite), WithClippingPlanes([]*common.Plane{plane}, true))
	g := NewGPUMaterial(m, true)
	assert.Equal(t, uint32(1), g.ClipCount)
	assert.Equal(t, uint32(1), g.ClipIntersection)
	assert.Len(t, g.Marshal(), 32)
	assert.Equal(t, 32, g.Size())

	set := MarshalClipSet([]*common.Plane{plane})
	assert.Len(t, set, GPUClipSetSize)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, set[4:8], "normal.y is 1.0")
}
