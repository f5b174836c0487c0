package encoder

import (
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format identifies an output raster encoding.
type Format int

const (
	// FormatPNG is lossless with alpha; the default.
	FormatPNG Format = iota
	// FormatJPEG drops alpha.
	FormatJPEG
	// FormatGIF quantizes to a 256 color palette.
	FormatGIF
	// FormatBMP is uncompressed.
	FormatBMP
	// FormatTIFF uses deflate compression.
	FormatTIFF
)

var formatNames = map[Format]string{
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatGIF:  "gif",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
}

var formatAliases = map[string]Format{
	"png":  FormatPNG,
	"jpeg": FormatJPEG,
	"jpg":  FormatJPEG,
	"gif":  FormatGIF,
	"bmp":  FormatBMP,
	"tiff": FormatTIFF,
	"tif":  FormatTIFF,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// ParseFormat resolves a format name or common file extension, case-insensitively.
//
// Parameters:
//   - s: a name such as "png", "JPG" or ".tiff"
//
// Returns:
//   - Format: the matching format
//   - error: error if the name is unknown
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return FormatPNG, fmt.Errorf("unknown image format %q", s)
}

// FormatFromPath infers the format from a file name's extension.
//
// Parameters:
//   - path: the output path
//
// Returns:
//   - Format: the inferred format, FormatPNG when not inferable
//   - bool: true if the extension named a known format
func FormatFromPath(path string) (Format, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatPNG, false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return FormatPNG, false
	}
	return f, true
}

var pngCompressionNames = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"fast":    png.BestSpeed,
	"best":    png.BestCompression,
}

var tiffCompressionNames = map[string]tiff.CompressionType{
	"deflate": tiff.Deflate,
	"none":    tiff.Uncompressed,
}

// ParsePNGCompression resolves "default", "none", "fast" or "best".
//
// Parameters:
//   - s: the level name, case-insensitive
//
// Returns:
//   - png.CompressionLevel: the zlib level
//   - error: error if the name is unknown
func ParsePNGCompression(s string) (png.CompressionLevel, error) {
	if level, ok := pngCompressionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level, nil
	}
	return png.DefaultCompression, fmt.Errorf("unknown PNG compression %q", s)
}

// ParseTIFFCompression resolves "deflate" or "none".
func ParseTIFFCompression(s string) (tiff.CompressionType, error) {
	if c, ok := tiffCompressionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return tiff.Deflate, fmt.Errorf("unknown TIFF compression %q", s)
}
