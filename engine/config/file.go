package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML layout of a config file. Zero values mean "not set".
type fileConfig struct {
	Input           string        `toml:"input"`
	Output          string        `toml:"output"`
	Width           int           `toml:"width"`
	Height          int           `toml:"height"`
	Format          string        `toml:"format"`
	Background      string        `toml:"background"`
	Light           []float32     `toml:"light"`
	JPEGQuality     int           `toml:"jpeg_quality"`
	PNGCompression  string        `toml:"png_compression"`
	TIFFCompression string        `toml:"tiff_compression"`
	Visible         *bool         `toml:"visible"`
	VSync           *bool         `toml:"vsync"`
	RecalcNormals   *bool         `toml:"recalc_normals"`
	LogLevel        string        `toml:"log_level"`
	Material        *fileMaterial `toml:"material"`
}

type fileMaterial struct {
	Ambient   string  `toml:"ambient"`
	Diffuse   string  `toml:"diffuse"`
	Specular  string  `toml:"specular"`
	Shininess float32 `toml:"shininess"`
}

// LoadFile reads a TOML config file and returns the options it sets.
// The options are meant to be placed before command line options so flags win.
//
// Parameters:
//   - path: path to the TOML file
//
// Returns:
//   - []ConfigBuilderOption: one option per key present in the file
//   - error: error if the file cannot be read or contains unknown keys or bad values
func LoadFile(path string) ([]ConfigBuilderOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	opts, err := ParseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return opts, nil
}

// ParseTOML decodes TOML config data into builder options.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - []ConfigBuilderOption: one option per key present in the document
//   - error: error on unknown keys, malformed values or unknown names
func ParseTOML(data []byte) ([]ConfigBuilderOption, error) {
	var fc fileConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}

	var opts []ConfigBuilderOption
	if fc.Input != "" {
		opts = append(opts, WithStlPath(fc.Input))
	}
	if fc.Output != "" {
		opts = append(opts, WithOutputPath(fc.Output))
	}
	if fc.Width != 0 {
		opts = append(opts, WithWidth(fc.Width))
	}
	if fc.Height != 0 {
		opts = append(opts, WithHeight(fc.Height))
	}
	if fc.Format != "" {
		f, err := encoder.ParseFormat(fc.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFormat(f))
	}
	if fc.Background != "" {
		bg, err := common.ParseHexColor(fc.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		opts = append(opts, WithBackground(bg))
	}
	if fc.Light != nil {
		if len(fc.Light) != 3 {
			return nil, fmt.Errorf("light: want 3 components, got %d", len(fc.Light))
		}
		opts = append(opts, WithLightDirection(mgl32.Vec3{fc.Light[0], fc.Light[1], fc.Light[2]}))
	}
	if fc.JPEGQuality != 0 {
		opts = append(opts, WithJPEGQuality(fc.JPEGQuality))
	}
	if fc.PNGCompression != "" {
		level, err := encoder.ParsePNGCompression(fc.PNGCompression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPNGCompression(level))
	}
	if fc.TIFFCompression != "" {
		compression, err := encoder.ParseTIFFCompression(fc.TIFFCompression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTIFFCompression(compression))
	}
	if fc.Visible != nil {
		opts = append(opts, WithVisible(*fc.Visible))
	}
	if fc.VSync != nil {
		opts = append(opts, WithVSync(*fc.VSync))
	}
	if fc.RecalcNormals != nil {
		opts = append(opts, WithRecalcNormals(*fc.RecalcNormals))
	}
	if fc.LogLevel != "" {
		opts = append(opts, WithLogLevel(fc.LogLevel))
	}
	if fc.Material != nil {
		matOpts, err := fc.Material.options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMaterial(matOpts...))
	}
	return opts, nil
}

func (fm *fileMaterial) options() ([]material.MaterialBuilderOption, error) {
	var opts []material.MaterialBuilderOption
	colors := []struct {
		key   string
		value string
		apply func(common.Color) material.MaterialBuilderOption
	}{
		{"ambient", fm.Ambient, material.WithAmbient},
		{"diffuse", fm.Diffuse, material.WithDiffuse},
		{"specular", fm.Specular, material.WithSpecular},
	}
	for _, c := range colors {
		if c.value == "" {
			continue
		}
		parsed, err := common.ParseHexColor(c.value)
		if err != nil {
			return nil, fmt.Errorf("material.%s: %w", c.key, err)
		}
		opts = append(opts, c.apply(parsed))
	}
	if fm.Shininess != 0 {
		opts = append(opts, material.WithShininess(fm.Shininess))
	}
	return opts, nil
}

// ParseMaterialHex builds material options from up to three hex colors in ambient,
// diffuse, specular order. Empty entries keep the default.
//
// Parameters:
//   - colors: hex colors, RRGGBB or RRGGBBAA
//
// Returns:
//   - []material.MaterialBuilderOption: options for the colors given
//   - error: error if more than three colors are given or any is malformed
func ParseMaterialHex(colors ...string) ([]material.MaterialBuilderOption, error) {
	if len(colors) > 3 {
		return nil, fmt.Errorf("material takes at most 3 colors, got %d", len(colors))
	}
	fm := &fileMaterial{}
	targets := []*string{&fm.Ambient, &fm.Diffuse, &fm.Specular}
	for i, c := range colors {
		*targets[i] = c
	}
	return fm.options()
}
