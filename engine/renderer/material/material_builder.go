package material

import "github.com/Carmen-Shannon/stl-thumb/common"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient is an option builder that sets the ambient color.
//
// Parameters:
//   - c: the ambient color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient color to a material
func WithAmbient(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = c
	}
}

// WithDiffuse is an option builder that sets the diffuse color.
//
// Parameters:
//   - c: the diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse color to a material
func WithDiffuse(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = c
	}
}

// WithSpecular is an option builder that sets the specular color.
//
// Parameters:
//   - c: the specular color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular color to a material
func WithSpecular(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.specular = c
	}
}

// WithShininess is an option builder that sets the specular exponent.
//
// Parameters:
//   - s: the exponent, must be positive
//
// Returns:
//   - MaterialBuilderOption: a function that applies the exponent to a material
func WithShininess(s float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = s
	}
}
