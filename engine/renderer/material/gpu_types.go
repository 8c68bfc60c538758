package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/phoenix-go/common"
)

// MaxGPUClipPlanes is the number of clipping planes a clip set uniform holds. The reveal
// animation uses one plane per vertex of a low resolution sphere.
const MaxGPUClipPlanes = 128

// GPUClipSetSize is the byte size of a marshaled clip set.
const GPUClipSetSize = MaxGPUClipPlanes * 16

// GPUMaterialSource is the WGSL definition of the Material uniform and the clip set it
// refers to. Matches GPUMaterial (32 bytes) and MarshalClipSet (2048 bytes).
const GPUMaterialSource = `struct Material {
    color: vec4<f32>,
    clip_count: u32,
    clip_intersection: u32,
    lit: u32,
    _pad: u32,
};

struct ClipSet {
    planes: array<vec4<f32>, 128>,
};`

// GPUMaterial is the GPU-aligned uniform for the object fragment shader.
// Size: 32 bytes.
type GPUMaterial struct {
	Color            [4]float32 // offset  0: RGB + opacity
	ClipCount        uint32     // offset 16: planes used from the clip set
	ClipIntersection uint32     // offset 20
	Lit              uint32     // offset 24: 0 for lines and points
	_                uint32     // offset 28
}

// NewGPUMaterial packs the material state for upload. The planes themselves are uploaded
// once per shared set with MarshalClipSet.
//
// Parameters:
//   - m: the material
//   - lit: whether the consuming object is a lit surface
//
// Returns:
//   - GPUMaterial: the packed uniform
func NewGPUMaterial(m Material, lit bool) GPUMaterial {
	g := GPUMaterial{
		Color:     m.Color().Vec4(m.Opacity()),
		ClipCount: uint32(min(len(m.ClippingPlanes()), MaxGPUClipPlanes)),
	}
	if m.ClipIntersection() {
		g.ClipIntersection = 1
	}
	if lit {
		g.Lit = 1
	}
	return g
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 32)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:20], g.ClipCount)
	binary.LittleEndian.PutUint32(buf[20:24], g.ClipIntersection)
	binary.LittleEndian.PutUint32(buf[24:28], g.Lit)
	return buf
}

// MarshalClipSet packs up to MaxGPUClipPlanes planes as normal.xyz and constant. Unused
// slots are zero.
//
// Parameters:
//   - planes: the shared plane set of one or more materials
//
// Returns:
//   - []byte: GPUClipSetSize bytes ready for GPU upload
func MarshalClipSet(planes []*common.Plane) []byte {
	buf := make([]byte, GPUClipSetSize)
	for i, p := range planes {
		if i == MaxGPUClipPlanes {
			break
		}
		off := i * 16
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p.Normal[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p.Normal[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p.Normal[2]))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(p.Constant))
	}
	return buf
}
