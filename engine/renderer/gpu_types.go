package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/material"
)

// GPUUniforms is the uniform block of the model shader.
// Layout matches the WGSL Uniforms struct: three mat4x4<f32>, then four vec4<f32>.
// Size: 256 bytes.
type GPUUniforms struct {
	ModelView  [16]float32             // offset   0
	Projection [16]float32             // offset  64
	Normal     [16]float32             // offset 128
	Light      [4]float32              // offset 192: view space direction, w = 0
	Material   material.GPUPhongParams // offset 208
}

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (256)
func (u *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the uniforms into a little-endian byte buffer for upload.
//
// Returns:
//   - []byte: 256-byte buffer ready for GPU upload
func (u *GPUUniforms) Marshal() []byte {
	buf := make([]byte, 0, u.Size())
	for _, m := range [3][16]float32{u.ModelView, u.Projection, u.Normal} {
		buf = appendFloats(buf, m[:])
	}
	buf = appendFloats(buf, u.Light[:])
	return append(buf, u.Material.Marshal()...)
}

func appendFloats(buf []byte, vals []float32) []byte {
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
