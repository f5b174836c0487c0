package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Color is an RGBA color with float components in the range [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB builds an opaque Color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Vec4 returns the color as a [4]float32 in RGBA order, the layout used by uniform buffers.
func (c Color) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// Hex formats the color as an 8 digit RRGGBBAA string.
func (c Color) Hex() string {
	b := [4]byte{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)}
	return strings.ToUpper(hex.EncodeToString(b[:]))
}

// ParseHexColor parses a color written as RRGGBB or RRGGBBAA, with an optional leading '#'.
// Six digit colors are opaque.
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string has the wrong length or contains non-hex digits
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("hex color %q must have 6 or 8 digits", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	c := Color{
		R: float32(raw[0]) / 255,
		G: float32(raw[1]) / 255,
		B: float32(raw[2]) / 255,
		A: 1,
	}
	if len(raw) == 4 {
		c.A = float32(raw[3]) / 255
	}
	return c, nil
}

func toByte(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}
