package light

import (
	"encoding/binary"
	"math"
)

// MaxGPULights is the number of directional lights the renderer evaluates per frame.
// The fixed rig uses four; the camera-following rig uses one.
const MaxGPULights = 4

// GPULightSource is the WGSL definition matching GPULight.
const GPULightSource = `struct Light {
    direction: vec3<f32>,
    kind: u32,
    color: vec3<f32>,
    intensity: f32,
};`

// GPULight is the GPU-aligned representation of a single light source.
// Size: 32 bytes (WGSL uniform aligned).
type GPULight struct {
	Direction [3]float32 // offset  0: normalized travel direction, zero for ambient
	LightType uint32     // offset 12: 0 = ambient, 1 = directional
	Color     [3]float32 // offset 16: linear RGB
	Intensity float32    // offset 28: scalar multiplier
}

// GPULightSize is the byte size of a marshaled GPULight.
const GPULightSize = 32

// NewGPULight converts a Light into its GPU representation.
//
// Parameters:
//   - l: the light to convert
//
// Returns:
//   - GPULight: the packed light, with zero intensity when the light is disabled
func NewGPULight(l Light) GPULight {
	r, g, b := l.Color().RGB()
	intensity := l.Intensity()
	if !l.Enabled() {
		intensity = 0
	}
	return GPULight{
		Direction: l.Direction(),
		LightType: uint32(l.Type()),
		Color:     [3]float32{r, g, b},
		Intensity: intensity,
	}
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Direction[2]))
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	return buf
}
