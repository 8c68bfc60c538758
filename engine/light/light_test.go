package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDirectionalLightPointsAtOrigin(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(0, 0, 10), WithIntensity(0.9))
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, l.Direction())
	assert.Equal(t, float32(0.9), l.Intensity())
	assert.Equal(t, "DirectionalLight", l.Type().String())
}

func TestAmbientLightHasNoDirection(t *testing.T) {
	l := NewLight(LightTypeAmbient, WithPosition(1, 2, 3))
	assert.Equal(t, mgl32.Vec3{}, l.Direction())
}

func TestGPULightMarshal(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(0, 10, 0), WithColor(common.ColorWhite), WithIntensity(0.5))
	g := NewGPULight(l)
	buf := g.Marshal()

	assert.Len(t, buf, GPULightSize)
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
	assert.Equal(t, uint32(LightTypeDirectional), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[28:32])))

	l.SetEnabled(false)
	assert.Equal(t, float32(0), NewGPULight(l).Intensity)
}
