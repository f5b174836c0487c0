package config

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/Carmen-Shannon/stl-thumb/engine/light"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func TestNewConfigDefaults(t *testing.T) {
	c, err := Default("cube.stl")
	require.NoError(t, err)

	assert.Equal(t, "cube.stl", c.StlPath())
	assert.Equal(t, "", c.OutputPath())
	assert.Equal(t, DefaultWidth, c.Width())
	assert.Equal(t, DefaultHeight, c.Height())
	assert.Equal(t, encoder.FormatPNG, c.Format())
	assert.Equal(t, common.Color{}, c.Background())
	assert.Equal(t, common.RGB(0.38, 0.63, 1.00), c.Material().Diffuse())
	assert.False(t, c.Visible())
	assert.True(t, c.VSync())
	assert.False(t, c.RecalcNormals())
	assert.Equal(t, light.DefaultDirection, c.LightDirection())
	assert.Equal(t, encoder.DefaultJPEGQuality, c.JPEGQuality())
	assert.Len(t, c.EncoderOptions(), 3)
	assert.Equal(t, DefaultLogLevel, c.LogLevel())
	assert.InDelta(t, 4.0/3.0, c.Aspect(), 1e-6)
}

func TestDefaultRequiresInput(t *testing.T) {
	_, err := Default("")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stl_path", verr.Field)
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		opts  []ConfigBuilderOption
		field string
	}{
		{name: "missing input", opts: nil, field: "stl_path"},
		{name: "zero width", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithWidth(0)}, field: "width"},
		{name: "negative height", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithHeight(-4)}, field: "height"},
		{name: "bad format", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithFormat(encoder.Format(99))}, field: "format"},
		{name: "bad background", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithBackground(common.Color{R: 2})}, field: "background"},
		{name: "nan background", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithBackground(common.Color{A: float32(math.NaN())})}, field: "background"},
		{name: "bad material", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithMaterial(material.WithAmbient(common.RGB(-1, 0, 0)))}, field: "material"},
		{name: "zero jpeg quality", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithJPEGQuality(0)}, field: "jpeg_quality"},
		{name: "jpeg quality above 100", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithJPEGQuality(101)}, field: "jpeg_quality"},
		{name: "zero light", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithLightDirection(mgl32.Vec3{})}, field: "light"},
		{name: "nan light", opts: []ConfigBuilderOption{WithStlPath("a.stl"), WithLightDirection(mgl32.Vec3{float32(math.NaN()), 0, 1})}, field: "light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opts...)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFormatInference(t *testing.T) {
	c, err := NewConfig(WithStlPath("a.stl"), WithOutputPath("thumb.jpg"))
	require.NoError(t, err)
	assert.Equal(t, encoder.FormatJPEG, c.Format())

	c, err = NewConfig(WithStlPath("a.stl"), WithOutputPath("thumb.jpg"), WithFormat(encoder.FormatBMP))
	require.NoError(t, err)
	assert.Equal(t, encoder.FormatBMP, c.Format(), "explicit format wins over extension")

	c, err = NewConfig(WithStlPath("a.stl"), WithOutputPath("thumb"))
	require.NoError(t, err)
	assert.Equal(t, encoder.FormatPNG, c.Format())
}

func TestParseTOML(t *testing.T) {
	doc := []byte(`
input = "part.stl"
output = "part.tiff"
width = 256
height = 128
background = "FFFFFF00"
light = [1.0, 0.0, 0.5]
jpeg_quality = 70
png_compression = "none"
tiff_compression = "none"
vsync = false
recalc_normals = true
log_level = "debug"

[material]
diffuse = "FF0000"
shininess = 32.0
`)
	opts, err := ParseTOML(doc)
	require.NoError(t, err)

	c, err := NewConfig(opts...)
	require.NoError(t, err)
	assert.Equal(t, "part.stl", c.StlPath())
	assert.Equal(t, "part.tiff", c.OutputPath())
	assert.Equal(t, encoder.FormatTIFF, c.Format())
	assert.Equal(t, 256, c.Width())
	assert.Equal(t, 128, c.Height())
	assert.Equal(t, common.Color{R: 1, G: 1, B: 1, A: 0}, c.Background())
	assert.Equal(t, mgl32.Vec3{1, 0, 0.5}, c.LightDirection())
	assert.False(t, c.VSync())
	assert.Equal(t, 70, c.JPEGQuality())
	assert.True(t, c.RecalcNormals())
	assert.Equal(t, "debug", c.LogLevel())
	assert.Equal(t, common.RGB(1, 0, 0), c.Material().Diffuse())
	assert.Equal(t, common.RGB(0.00, 0.13, 0.26), c.Material().Ambient(), "unset colors keep defaults")
	assert.Equal(t, float32(32), c.Material().Shininess())
}

func TestParseTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown key", doc: `colour = "red"`},
		{name: "bad format", doc: `format = "webp"`},
		{name: "bad background", doc: `background = "nothex"`},
		{name: "bad material", doc: "[material]\nambient = \"12\""},
		{name: "short light", doc: `light = [1.0, 2.0]`},
		{name: "bad png compression", doc: `png_compression = "max"`},
		{name: "bad tiff compression", doc: `tiff_compression = "lzw"`},
		{name: "malformed", doc: `width = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTOML([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestEncoderOptionsFollowConfig(t *testing.T) {
	pb, err := common.NewPixelBuffer(64, 64)
	require.NoError(t, err)

	size := func(opts ...ConfigBuilderOption) int {
		c, err := NewConfig(append([]ConfigBuilderOption{WithStlPath("a.stl")}, opts...)...)
		require.NoError(t, err)
		enc, err := encoder.NewEncoder(c.Format(), c.EncoderOptions()...)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, enc.Encode(&buf, pb))
		return buf.Len()
	}

	assert.Less(t, size(WithPNGCompression(png.BestCompression)), size(WithPNGCompression(png.NoCompression)))
	assert.Less(t,
		size(WithFormat(encoder.FormatTIFF)),
		size(WithFormat(encoder.FormatTIFF), WithTIFFCompression(tiff.Uncompressed)))
}

func TestLoadFileFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.toml")
	require.NoError(t, os.WriteFile(path, []byte("input = \"a.stl\"\nwidth = 64\nheight = 64\n"), 0o644))

	opts, err := LoadFile(path)
	require.NoError(t, err)

	c, err := NewConfig(append(opts, WithWidth(32))...)
	require.NoError(t, err)
	assert.Equal(t, 32, c.Width())
	assert.Equal(t, 64, c.Height())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestParseMaterialHex(t *testing.T) {
	opts, err := ParseMaterialHex("000000", "", "00FF00")
	require.NoError(t, err)
	m := material.NewMaterial(opts...)
	assert.Equal(t, common.RGB(0, 0, 0), m.Ambient())
	assert.Equal(t, common.RGB(0.38, 0.63, 1.00), m.Diffuse())
	assert.Equal(t, common.RGB(0, 1, 0), m.Specular())

	_, err = ParseMaterialHex("1", "2", "3", "4")
	assert.Error(t, err)
}
