package encoder

import (
	"fmt"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality is the JPEG quality used unless WithJPEGQuality overrides it.
const DefaultJPEGQuality = 90

// encoder is the implementation of the Encoder interface.
type encoder struct {
	format          Format
	jpegQuality     int
	pngCompression  png.CompressionLevel
	tiffCompression tiff.CompressionType
}

// Encoder writes a PixelBuffer in one raster format.
type Encoder interface {
	// Format returns the format this encoder produces.
	//
	// Returns:
	//   - Format: the output format
	Format() Format

	// Encode writes pb to w.
	//
	// Parameters:
	//   - w: destination stream
	//   - pb: the pixels to encode
	//
	// Returns:
	//   - error: error if pb is malformed or the underlying codec fails
	Encode(w io.Writer, pb *common.PixelBuffer) error
}

var _ Encoder = &encoder{}

// NewEncoder creates an Encoder for the given format.
//
// Parameters:
//   - format: the output format
//   - options: codec tuning options
//
// Returns:
//   - Encoder: the configured encoder
//   - error: error if the format is unknown
func NewEncoder(format Format, options ...EncoderBuilderOption) (Encoder, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported image format %v", format)
	}
	e := &encoder{
		format:          format,
		jpegQuality:     DefaultJPEGQuality,
		pngCompression:  png.DefaultCompression,
		tiffCompression: tiff.Deflate,
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

func (e *encoder) Format() Format {
	return e.format
}

func (e *encoder) Encode(w io.Writer, pb *common.PixelBuffer) error {
	if err := pb.Validate(); err != nil {
		return fmt.Errorf("cannot encode %s: %w", e.format, err)
	}
	img := pb.NRGBA()

	var err error
	switch e.format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: e.pngCompression}
		err = enc.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: e.jpegQuality})
	case FormatGIF:
		err = gif.Encode(w, img, &gif.Options{
			NumColors: 256,
			Drawer:    draw.FloydSteinberg,
		})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: e.tiffCompression, Predictor: true})
	default:
		err = fmt.Errorf("unsupported image format %v", e.format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", e.format, err)
	}
	return nil
}
