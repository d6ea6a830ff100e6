// Package paint holds the color model used by render trees and color
// interpolation.
package paint

import (
	"fmt"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) sRGB color with 8-bit channels
// and a fractional alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// Common colors.
var (
	Transparent = Color{}
	Black       = RGB(0, 0, 0)
	White       = RGB(255, 255, 255)
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a color with the given alpha, clamped to [0, 1].
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: clamp01(a)}
}

// WithAlpha returns a copy of c with alpha a.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Opaque reports whether alpha is 1.
func (c Color) Opaque() bool {
	return c.A >= 1
}

// String formats the color as CSS: "rgb(128, 128, 0)" when opaque,
// "rgba(128, 128, 0, 0.5)" otherwise.
func (c Color) String() string {
	if c.Opaque() {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when translucent.
func (c Color) Hex() string {
	if c.Opaque() {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, uint8(math.Round(c.A*255)))
}

// MarshalText encodes the color in its CSS form.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything [Parse] accepts.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// colorful converts to go-colorful's float representation, dropping alpha.
func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(cc colorful.Color, alpha float64) Color {
	r, g, b := cc.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: clamp01(alpha)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func channel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
