package model

import (
	"encoding/binary"
	"math"
)

// GPUVertexStride is the byte stride of a marshaled vertex: a vec3<f32> position.
const GPUVertexStride = 12

// MarshalVertices packs the positions for upload into a vertex buffer.
//
// Returns:
//   - []byte: tightly packed little-endian positions
func (g *Geometry) MarshalVertices() []byte {
	positions := g.Positions()
	buf := make([]byte, len(positions)*GPUVertexStride)
	for i, p := range positions {
		off := i * GPUVertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p[2]))
	}
	return buf
}

// MarshalIndices packs the indices as uint32 for upload into an index buffer.
// The result is padded to a multiple of four bytes, which uint32 data always is.
//
// Returns:
//   - []byte: little-endian indices, or nil for non-indexed geometry
func (g *Geometry) MarshalIndices() []byte {
	indices := g.Indices()
	if len(indices) == 0 {
		return nil
	}
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
