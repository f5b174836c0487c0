// Package config holds the resolved parameter set for one render. A Config is built once
// through functional options, validated, and then only read.
package config

import (
	"fmt"
	"image/png"
	"math"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/Carmen-Shannon/stl-thumb/engine/light"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/tiff"
)

const (
	// DefaultWidth is the output width used when none is given.
	DefaultWidth = 1024
	// DefaultHeight is the output height used when none is given.
	DefaultHeight = 768
	// DefaultLogLevel is the log level used when none is given.
	DefaultLogLevel = "warn"
)

// ValidationError reports a Config field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Config is the immutable parameter set for one render.
type Config struct {
	stlPath         string
	outputPath      string
	width           int
	height          int
	format          encoder.Format
	formatExplicit  bool
	background      common.Color
	materialOpts    []material.MaterialBuilderOption
	material        material.Material
	light           mgl32.Vec3
	jpegQuality     int
	pngCompression  png.CompressionLevel
	tiffCompression tiff.CompressionType
	visible         bool
	vsync           bool
	recalcNormals   bool
	logLevel        string
}

// NewConfig applies defaults, then each option in order, then validates the result.
// When no format option is given the format is inferred from the output path's extension.
//
// Parameters:
//   - options: functional options to configure the render
//
// Returns:
//   - *Config: the validated configuration
//   - error: a *ValidationError if any field is invalid
func NewConfig(options ...ConfigBuilderOption) (*Config, error) {
	c := &Config{
		width:           DefaultWidth,
		height:          DefaultHeight,
		format:          encoder.FormatPNG,
		background:      common.Color{},
		light:           light.DefaultDirection,
		jpegQuality:     encoder.DefaultJPEGQuality,
		pngCompression:  png.DefaultCompression,
		tiffCompression: tiff.Deflate,
		vsync:           true,
		logLevel:        DefaultLogLevel,
	}
	for _, opt := range options {
		opt(c)
	}
	if !c.formatExplicit && c.outputPath != "" {
		if f, ok := encoder.FormatFromPath(c.outputPath); ok {
			c.format = f
		}
	}
	c.material = material.NewMaterial(c.materialOpts...)
	c.materialOpts = nil

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the default configuration for one input file: 1024x768 PNG on a
// transparent background, written to stdout.
//
// Parameters:
//   - stlPath: the input mesh file
//
// Returns:
//   - *Config: the configuration
//   - error: a *ValidationError if stlPath is empty
func Default(stlPath string) (*Config, error) {
	return NewConfig(WithStlPath(stlPath))
}

func (c *Config) validate() error {
	if c.stlPath == "" {
		return &ValidationError{Field: "stl_path", Reason: "an input mesh file is required"}
	}
	if c.width <= 0 {
		return &ValidationError{Field: "width", Reason: fmt.Sprintf("must be positive, got %d", c.width)}
	}
	if c.height <= 0 {
		return &ValidationError{Field: "height", Reason: fmt.Sprintf("must be positive, got %d", c.height)}
	}
	if !c.format.Valid() {
		return &ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported format %v", c.format)}
	}
	for i, v := range c.background.Vec4() {
		if !(v >= 0 && v <= 1) {
			return &ValidationError{Field: "background", Reason: fmt.Sprintf("component %d is %v, want [0, 1]", i, v)}
		}
	}
	if c.jpegQuality < 1 || c.jpegQuality > 100 {
		return &ValidationError{Field: "jpeg_quality", Reason: fmt.Sprintf("must be in [1, 100], got %d", c.jpegQuality)}
	}
	if c.light.Len() == 0 || !finite(c.light) {
		return &ValidationError{Field: "light", Reason: fmt.Sprintf("direction must be finite and non-zero, got %v", c.light)}
	}
	if err := c.material.Validate(); err != nil {
		return &ValidationError{Field: "material", Reason: err.Error()}
	}
	return nil
}

// StlPath returns the input mesh file path.
func (c *Config) StlPath() string {
	return c.stlPath
}

// OutputPath returns the output image path, or "" when the image goes to stdout.
func (c *Config) OutputPath() string {
	return c.outputPath
}

// Width returns the output width in pixels.
func (c *Config) Width() int {
	return c.width
}

// Height returns the output height in pixels.
func (c *Config) Height() int {
	return c.height
}

// Aspect returns width / height.
func (c *Config) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

// Format returns the output encoding.
func (c *Config) Format() encoder.Format {
	return c.format
}

// Background returns the clear color.
func (c *Config) Background() common.Color {
	return c.background
}

// Material returns the surface colors.
func (c *Config) Material() material.Material {
	return c.material
}

// Visible reports whether the render should be shown in an on-screen window.
func (c *Config) Visible() bool {
	return c.visible
}

// RecalcNormals reports whether facet normals are recomputed from vertex winding.
func (c *Config) RecalcNormals() bool {
	return c.recalcNormals
}

// LightDirection returns the view space direction toward the light.
func (c *Config) LightDirection() mgl32.Vec3 {
	return c.light
}

// VSync reports whether window mode presents on vertical blank.
func (c *Config) VSync() bool {
	return c.vsync
}

// JPEGQuality returns the JPEG quality factor.
func (c *Config) JPEGQuality() int {
	return c.jpegQuality
}

// EncoderOptions returns the codec tuning for the output format.
//
// Returns:
//   - []encoder.EncoderBuilderOption: JPEG quality, PNG and TIFF compression
func (c *Config) EncoderOptions() []encoder.EncoderBuilderOption {
	return []encoder.EncoderBuilderOption{
		encoder.WithJPEGQuality(c.jpegQuality),
		encoder.WithPNGCompression(c.pngCompression),
		encoder.WithTIFFCompression(c.tiffCompression),
	}
}

// LogLevel returns the configured log level name.
func (c *Config) LogLevel() string {
	return c.logLevel
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}
