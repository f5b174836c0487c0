package encoder

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testPixels(t *testing.T, w, h int) *common.PixelBuffer {
	t.Helper()
	pb, err := common.NewPixelBuffer(w, h)
	require.NoError(t, err)
	for i := 0; i < len(pb.Pix); i += 4 {
		pb.Pix[i] = byte(i)
		pb.Pix[i+1] = 128
		pb.Pix[i+2] = 255
		pb.Pix[i+3] = byte(255 - (i/4)%2*127)
	}
	return pb
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "png", want: FormatPNG},
		{in: "JPG", want: FormatJPEG},
		{in: ".jpeg", want: FormatJPEG},
		{in: "gif", want: FormatGIF},
		{in: "bmp", want: FormatBMP},
		{in: "tif", want: FormatTIFF},
		{in: "webp", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, ok := FormatFromPath("/tmp/thumb.TIFF")
	assert.True(t, ok)
	assert.Equal(t, FormatTIFF, f)

	f, ok = FormatFromPath("thumb")
	assert.False(t, ok)
	assert.Equal(t, FormatPNG, f)

	_, ok = FormatFromPath("thumb.xyz")
	assert.False(t, ok)
}

func TestEncodeDecodes(t *testing.T) {
	pb := testPixels(t, 8, 5)
	for _, format := range []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF} {
		t.Run(format.String(), func(t *testing.T) {
			enc, err := NewEncoder(format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, enc.Encode(&buf, pb))
			require.NotZero(t, buf.Len())

			img, name, err := image.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, format.String(), name)
			assert.Equal(t, image.Rect(0, 0, 8, 5), img.Bounds())
		})
	}
}

func TestPNGIsLossless(t *testing.T) {
	pb := testPixels(t, 3, 3)
	enc, err := NewEncoder(FormatPNG)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, pb))
	img, _, err := image.Decode(&buf)
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, pb.Pix, nrgba.Pix)
}

// noisyPixels fills a buffer with a pseudo random pattern that compresses poorly.
func noisyPixels(t *testing.T, w, h int) *common.PixelBuffer {
	t.Helper()
	pb, err := common.NewPixelBuffer(w, h)
	require.NoError(t, err)
	x := uint32(2463534242)
	for i := range pb.Pix {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		pb.Pix[i] = byte(x)
	}
	return pb
}

// encodedSize encodes pb and returns the byte count.
func encodedSize(t *testing.T, pb *common.PixelBuffer, format Format, opts ...EncoderBuilderOption) int {
	t.Helper()
	enc, err := NewEncoder(format, opts...)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, pb))
	return buf.Len()
}

func TestEncoderOptions(t *testing.T) {
	noisy := noisyPixels(t, 64, 64)
	flat, err := common.NewPixelBuffer(64, 64)
	require.NoError(t, err)

	tests := []struct {
		name         string
		pb           *common.PixelBuffer
		format       Format
		small, large []EncoderBuilderOption
	}{
		{
			name:   "jpeg quality",
			pb:     noisy,
			format: FormatJPEG,
			small:  []EncoderBuilderOption{WithJPEGQuality(10)},
			large:  []EncoderBuilderOption{WithJPEGQuality(100)},
		},
		{
			name:   "png compression",
			pb:     flat,
			format: FormatPNG,
			small:  []EncoderBuilderOption{WithPNGCompression(png.BestCompression)},
			large:  []EncoderBuilderOption{WithPNGCompression(png.NoCompression)},
		},
		{
			name:   "tiff compression",
			pb:     flat,
			format: FormatTIFF,
			small:  []EncoderBuilderOption{WithTIFFCompression(tiff.Deflate)},
			large:  []EncoderBuilderOption{WithTIFFCompression(tiff.Uncompressed)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Less(t, encodedSize(t, tt.pb, tt.format, tt.small...), encodedSize(t, tt.pb, tt.format, tt.large...))
		})
	}
}

func TestJPEGQualityIsClamped(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: -5, want: 1},
		{in: 0, want: 1},
		{in: 75, want: 75},
		{in: 250, want: 100},
	}
	for _, tt := range tests {
		e := &encoder{}
		WithJPEGQuality(tt.in)(e)
		assert.Equal(t, tt.want, e.jpegQuality, "quality %d", tt.in)
	}
}

func TestParseCompression(t *testing.T) {
	level, err := ParsePNGCompression("Best")
	require.NoError(t, err)
	assert.Equal(t, png.BestCompression, level)
	level, err = ParsePNGCompression("fast")
	require.NoError(t, err)
	assert.Equal(t, png.BestSpeed, level)
	_, err = ParsePNGCompression("max")
	assert.Error(t, err)

	c, err := ParseTIFFCompression("none")
	require.NoError(t, err)
	assert.Equal(t, tiff.Uncompressed, c)
	_, err = ParseTIFFCompression("lzw")
	assert.Error(t, err)
}

func TestEncodeRejectsMalformedBuffer(t *testing.T) {
	enc, err := NewEncoder(FormatPNG)
	require.NoError(t, err)
	err = enc.Encode(&bytes.Buffer{}, &common.PixelBuffer{Width: 2, Height: 2, Pix: make([]byte, 3)})
	assert.Error(t, err)
}

func TestNewEncoderUnknownFormat(t *testing.T) {
	_, err := NewEncoder(Format(42))
	assert.Error(t, err)
}

func TestSaveToStream(t *testing.T) {
	enc, err := NewEncoder(FormatPNG)
	require.NoError(t, err)

	var stream bytes.Buffer
	require.NoError(t, Save("", &stream, enc, testPixels(t, 4, 4)))
	assert.Equal(t, "\x89PNG", stream.String()[:4])
}

func TestSaveToFile(t *testing.T) {
	enc, err := NewEncoder(FormatBMP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.bmp")
	require.NoError(t, Save(path, nil, enc, testPixels(t, 4, 4)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	enc, err := NewEncoder(FormatPNG)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "broken.png")
	err = Save(path, nil, enc, &common.PixelBuffer{Width: 1, Height: 1})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveWithoutPathOrStream(t *testing.T) {
	enc, err := NewEncoder(FormatPNG)
	require.NoError(t, err)
	assert.Error(t, Save("", nil, enc, testPixels(t, 1, 1)))
}
