package encoder

import (
	"image/png"

	"golang.org/x/image/tiff"
)

// EncoderBuilderOption is a functional option for configuring an encoder.
type EncoderBuilderOption func(*encoder)

// WithJPEGQuality sets the JPEG quality, clamped to [1, 100].
//
// Parameters:
//   - quality: the quality factor
//
// Returns:
//   - EncoderBuilderOption: option function to apply
func WithJPEGQuality(quality int) EncoderBuilderOption {
	return func(e *encoder) {
		e.jpegQuality = min(max(quality, 1), 100)
	}
}

// WithPNGCompression sets the PNG compression level.
//
// Parameters:
//   - level: the zlib compression level
//
// Returns:
//   - EncoderBuilderOption: option function to apply
func WithPNGCompression(level png.CompressionLevel) EncoderBuilderOption {
	return func(e *encoder) {
		e.pngCompression = level
	}
}

// WithTIFFCompression sets the TIFF compression scheme.
//
// Parameters:
//   - compression: tiff.Uncompressed or tiff.Deflate
//
// Returns:
//   - EncoderBuilderOption: option function to apply
func WithTIFFCompression(compression tiff.CompressionType) EncoderBuilderOption {
	return func(e *encoder) {
		e.tiffCompression = compression
	}
}
