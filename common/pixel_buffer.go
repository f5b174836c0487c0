package common

import (
	"fmt"
	"image"
)

// BytesPerPixel is the stride of one RGBA8 pixel.
const BytesPerPixel = 4

// PixelBuffer holds RGBA8 pixel data, row-major with a top-left origin.
// len(Pix) is always Width*Height*BytesPerPixel.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed PixelBuffer of the given dimensions.
//
// Parameters:
//   - width: width in pixels (> 0)
//   - height: height in pixels (> 0)
//
// Returns:
//   - *PixelBuffer: the allocated buffer
//   - error: error if either dimension is not positive
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pixel buffer dimensions must be positive, got %dx%d", width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}, nil
}

// Stride returns the number of bytes in one row.
func (p *PixelBuffer) Stride() int {
	return p.Width * BytesPerPixel
}

// Validate checks that the pixel slice matches the declared dimensions.
func (p *PixelBuffer) Validate() error {
	if p == nil {
		return fmt.Errorf("pixel buffer is nil")
	}
	if want := p.Width * p.Height * BytesPerPixel; len(p.Pix) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d for %dx%d", len(p.Pix), want, p.Width, p.Height)
	}
	return nil
}

// FlipVertical reverses the row order in place.
func (p *PixelBuffer) FlipVertical() {
	stride := p.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, p.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := p.Pix[top*stride : (top+1)*stride]
		b := p.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// NRGBA wraps the buffer as an image.NRGBA sharing the same memory.
// Pixel data is straight (non-premultiplied) alpha.
func (p *PixelBuffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: p.Stride(),
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// UnpackRows copies tightly packed rows out of a row-padded readback buffer.
// GPU copies align each row to a fixed byte boundary, so paddedStride may exceed width*4.
//
// Parameters:
//   - src: the padded source bytes
//   - width: width in pixels
//   - height: height in pixels
//   - paddedStride: bytes per row in src
//
// Returns:
//   - *PixelBuffer: a new buffer holding exactly width*height*4 bytes
//   - error: error if src is too short or paddedStride is smaller than a row
func UnpackRows(src []byte, width, height, paddedStride int) (*PixelBuffer, error) {
	pb, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	stride := pb.Stride()
	if paddedStride < stride {
		return nil, fmt.Errorf("padded stride %d is smaller than row size %d", paddedStride, stride)
	}
	if need := paddedStride*(height-1) + stride; len(src) < need {
		return nil, fmt.Errorf("readback holds %d bytes, need at least %d", len(src), need)
	}
	for y := range height {
		copy(pb.Pix[y*stride:(y+1)*stride], src[y*paddedStride:y*paddedStride+stride])
	}
	return pb, nil
}
