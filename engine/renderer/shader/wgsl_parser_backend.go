package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslTypeLayout is the byte size and alignment of a host-shareable WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// wgslPrimitiveLayoutMap holds size and alignment of the scalar, vector and matrix types.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec2f":       {8, 8},
	"vec3<f32>":   {12, 16},
	"vec3f":       {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4f":       {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout looks a type up among the primitives, then among already sized
// structs, and finally handles fixed-size arrays.
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		elemType, countStr, ok := strings.Cut(typeName[6:len(typeName)-1], ",")
		if !ok {
			return wgslTypeLayout{}, false
		}
		elem, ok := resolveTypeLayout(strings.TrimSpace(elemType), knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
		if err != nil {
			return wgslTypeLayout{}, false
		}
		return wgslTypeLayout{count * roundUpAlign(elem.align, elem.size), elem.align}, true
	}

	return wgslTypeLayout{}, false
}

// computeStructLayout places each member at its next aligned offset and rounds the total
// up to the largest member alignment. Builtin members are not part of buffer memory.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		fl, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(fl.align, offset) + fl.size
		if fl.align > maxAlign {
			maxAlign = fl.align
		}
	}

	return wgslTypeLayout{roundUpAlign(maxAlign, offset), maxAlign}, true
}

// computeStructSizes sizes every struct, repeating until structs that embed other
// structs have all been resolved.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)

	for len(remaining) > 0 {
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(remaining) {
			break
		}
		remaining = next
	}

	return resolved
}

// classifyResource turns one resource declaration into a layout entry. Only the kinds
// the embedded shaders bind are recognized: uniform buffers, filtering samplers and
// float 2D textures.
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) (wgpu.BindGroupLayoutEntry, bool) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case addressSpace != "":
		return entry, false
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "texture_2d<f32>":
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	default:
		return entry, false
	}

	return entry, true
}

// stripComments removes line comments and (possibly nested) block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether a struct has @location members and no @builtin,
// which separates vertex inputs from stage outputs carrying @builtin(position).
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayout lays the struct's members out back to back in one buffer.
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// splitAtTopLevelCommas splits at commas outside angle brackets and parentheses.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(':
			depth++
		case '>', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
