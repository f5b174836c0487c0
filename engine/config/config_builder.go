package config

import (
	"image/png"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/tiff"
)

// ConfigBuilderOption is a functional option for configuring a Config.
// Use the With* functions to create options.
type ConfigBuilderOption func(c *Config)

// WithStlPath sets the input mesh file.
//
// Parameters:
//   - path: path to an STL file
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithStlPath(path string) ConfigBuilderOption {
	return func(c *Config) {
		c.stlPath = path
	}
}

// WithOutputPath sets the output image file. An empty path writes to stdout.
//
// Parameters:
//   - path: destination file path
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithOutputPath(path string) ConfigBuilderOption {
	return func(c *Config) {
		c.outputPath = path
	}
}

// WithWidth sets the output width.
//
// Parameters:
//   - width: width in pixels
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithWidth(width int) ConfigBuilderOption {
	return func(c *Config) {
		c.width = width
	}
}

// WithHeight sets the output height.
//
// Parameters:
//   - height: height in pixels
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithHeight(height int) ConfigBuilderOption {
	return func(c *Config) {
		c.height = height
	}
}

// WithSize sets both output dimensions.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithSize(width, height int) ConfigBuilderOption {
	return func(c *Config) {
		c.width = width
		c.height = height
	}
}

// WithFormat sets the output encoding, disabling inference from the output extension.
//
// Parameters:
//   - format: the image format
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithFormat(format encoder.Format) ConfigBuilderOption {
	return func(c *Config) {
		c.format = format
		c.formatExplicit = true
	}
}

// WithBackground sets the clear color.
//
// Parameters:
//   - color: RGBA background color
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithBackground(color common.Color) ConfigBuilderOption {
	return func(c *Config) {
		c.background = color
	}
}

// WithMaterial appends material options applied on top of the default palette.
//
// Parameters:
//   - options: material options such as material.WithDiffuse
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithMaterial(options ...material.MaterialBuilderOption) ConfigBuilderOption {
	return func(c *Config) {
		c.materialOpts = append(c.materialOpts, options...)
	}
}

// WithLightDirection sets the view space direction toward the light.
//
// Parameters:
//   - direction: non-zero direction, need not be normalized
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithLightDirection(direction mgl32.Vec3) ConfigBuilderOption {
	return func(c *Config) {
		c.light = direction
	}
}

// WithJPEGQuality sets the JPEG quality factor.
//
// Parameters:
//   - quality: 1 (smallest) to 100 (best)
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithJPEGQuality(quality int) ConfigBuilderOption {
	return func(c *Config) {
		c.jpegQuality = quality
	}
}

// WithPNGCompression sets the PNG compression level.
func WithPNGCompression(level png.CompressionLevel) ConfigBuilderOption {
	return func(c *Config) {
		c.pngCompression = level
	}
}

// WithTIFFCompression sets the TIFF compression scheme.
func WithTIFFCompression(compression tiff.CompressionType) ConfigBuilderOption {
	return func(c *Config) {
		c.tiffCompression = compression
	}
}

// WithVSync chooses whether window mode waits for vertical blank.
//
// Parameters:
//   - vsync: false to present immediately
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithVSync(vsync bool) ConfigBuilderOption {
	return func(c *Config) {
		c.vsync = vsync
	}
}

// WithVisible selects the interactive window mode.
//
// Parameters:
//   - visible: true to display the render in a window
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithVisible(visible bool) ConfigBuilderOption {
	return func(c *Config) {
		c.visible = visible
	}
}

// WithRecalcNormals forces facet normals to be recomputed from vertex winding.
//
// Parameters:
//   - recalc: true to ignore the normals stored in the file
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithRecalcNormals(recalc bool) ConfigBuilderOption {
	return func(c *Config) {
		c.recalcNormals = recalc
	}
}

// WithLogLevel sets the log level name.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error"
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithLogLevel(level string) ConfigBuilderOption {
	return func(c *Config) {
		c.logLevel = level
	}
}
