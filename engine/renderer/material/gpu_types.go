package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPhongParams is the GPU-aligned material block embedded in the scene uniform.
// Matches the Phong fields of the WGSL Uniforms struct in the model shader.
// Size: 48 bytes (three vec4<f32>).
type GPUPhongParams struct {
	Ambient  [4]float32 // offset  0: rgb ambient, w unused
	Diffuse  [4]float32 // offset 16: rgb diffuse, w unused
	Specular [4]float32 // offset 32: rgb specular, w = shininess
}

// Size returns the size of the GPUPhongParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (48)
func (g *GPUPhongParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPhongParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUPhongParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i, v := range [3][4]float32{g.Ambient, g.Diffuse, g.Specular} {
		for j := range 4 {
			binary.LittleEndian.PutUint32(buf[i*16+j*4:], math.Float32bits(v[j]))
		}
	}
	return buf
}
