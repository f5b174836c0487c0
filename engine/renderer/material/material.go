package material

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/stl-thumb/common"
)

// DefaultShininess is the Blinn-Phong specular exponent applied to every mesh.
const DefaultShininess = 16

// material is the implementation of the Material interface.
type material struct {
	name      string
	ambient   common.Color
	diffuse   common.Color
	specular  common.Color
	shininess float32
}

// Material describes the Phong surface colors a mesh is shaded with.
// Colors are RGB; the alpha channel of each color is ignored by the shader.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the color added to every fragment regardless of lighting.
	//
	// Returns:
	//   - common.Color: the ambient color
	Ambient() common.Color

	// Diffuse retrieves the color scaled by the Lambertian light term.
	//
	// Returns:
	//   - common.Color: the diffuse color
	Diffuse() common.Color

	// Specular retrieves the color of the highlight.
	//
	// Returns:
	//   - common.Color: the specular color
	Specular() common.Color

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the exponent applied to the half-vector term
	Shininess() float32

	// Validate reports whether every color component is in [0, 1].
	//
	// Returns:
	//   - error: error naming the first out of range channel
	Validate() error

	// GPUParams packs the material into its uniform representation.
	//
	// Returns:
	//   - GPUPhongParams: the GPU-aligned material block
	GPUParams() GPUPhongParams
}

var _ Material = &material{}

// NewMaterial creates a Material with the default stl-thumb palette, then applies options in order.
//
// Parameters:
//   - options: functional options overriding the defaults
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name:      "default",
		ambient:   common.RGB(0.00, 0.13, 0.26),
		diffuse:   common.RGB(0.38, 0.63, 1.00),
		specular:  common.RGB(1.00, 1.00, 1.00),
		shininess: DefaultShininess,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() common.Color {
	return m.ambient
}

func (m *material) Diffuse() common.Color {
	return m.diffuse
}

func (m *material) Specular() common.Color {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Validate() error {
	channels := []struct {
		name  string
		color common.Color
	}{
		{"ambient", m.ambient},
		{"diffuse", m.diffuse},
		{"specular", m.specular},
	}
	for _, ch := range channels {
		for i, v := range [3]float32{ch.color.R, ch.color.G, ch.color.B} {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("material %s %s component %d is %v, want [0, 1]", m.name, ch.name, i, v)
			}
		}
	}
	if !(m.shininess > 0 && m.shininess <= math.MaxFloat32) {
		return fmt.Errorf("material %s shininess must be positive and finite, got %v", m.name, m.shininess)
	}
	return nil
}

func (m *material) GPUParams() GPUPhongParams {
	return GPUPhongParams{
		Ambient:  [4]float32{m.ambient.R, m.ambient.G, m.ambient.B, 0},
		Diffuse:  [4]float32{m.diffuse.R, m.diffuse.G, m.diffuse.B, 0},
		Specular: [4]float32{m.specular.R, m.specular.G, m.specular.B, m.shininess},
	}
}
