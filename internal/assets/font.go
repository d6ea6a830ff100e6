package assets

import (
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font provides text metrics at any pixel size. A Font parsed from a file
// uses its outlines; the fallback font scales basicfont's 7x13 face.
//
// sfnt.Font methods are safe for concurrent use as long as every call gets
// its own Buffer, so each measurement allocates one.
type Font struct {
	Ref  Ref
	Path string
	sfnt *sfnt.Font
}

var fallback = &Font{}

// Fallback returns the built-in font used when a scene names none.
func Fallback() *Font {
	return fallback
}

// LoadFont parses a TrueType or OpenType file.
func LoadFont(ref Ref, path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFont(ref, path, data)
}

// ParseFont parses font bytes already in memory.
func ParseFont(ref Ref, path string, data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Font{Ref: ref, Path: path, sfnt: f}, nil
}

// Measure returns the advance width of text at size pixels, kerning
// included.
func (f *Font) Measure(text string, size float64) float64 {
	if f == nil || f.sfnt == nil {
		face := basicfont.Face7x13
		return fromFixed(font.MeasureString(face, text)) * size / float64(face.Height)
	}

	var buf sfnt.Buffer
	ppem := toFixed(size)
	var (
		adv     fixed.Int26_6
		prev    sfnt.GlyphIndex
		hasPrev bool
	)
	for _, r := range text {
		idx, err := f.sfnt.GlyphIndex(&buf, r)
		if err != nil {
			idx = 0
		}
		if hasPrev {
			if k, err := f.sfnt.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				adv += k
			}
		}
		if a, err := f.sfnt.GlyphAdvance(&buf, idx, ppem, font.HintingNone); err == nil {
			adv += a
		}
		prev, hasPrev = idx, true
	}
	return fromFixed(adv)
}

// MeasureSpaced is Measure plus letterSpacing after every rune but the last.
func (f *Font) MeasureSpaced(text string, size, letterSpacing float64) float64 {
	w := f.Measure(text, size)
	if n := len([]rune(text)); n > 1 {
		w += letterSpacing * float64(n-1)
	}
	return w
}

// LineMetrics are vertical metrics at a given size, in pixels.
type LineMetrics struct {
	Ascent  float64
	Descent float64
	Height  float64
}

// Metrics returns the font's vertical metrics at size pixels.
func (f *Font) Metrics(size float64) LineMetrics {
	if f == nil || f.sfnt == nil {
		face := basicfont.Face7x13
		scale := size / float64(face.Height)
		return LineMetrics{
			Ascent:  float64(face.Ascent) * scale,
			Descent: float64(face.Descent) * scale,
			Height:  size,
		}
	}

	var buf sfnt.Buffer
	m, err := f.sfnt.Metrics(&buf, toFixed(size), font.HintingNone)
	if err != nil {
		return LineMetrics{Ascent: size * 0.8, Descent: size * 0.2, Height: size}
	}
	return LineMetrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
