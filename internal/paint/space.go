package paint

import (
	"strings"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Space selects the color space in which two colors are blended.
type Space string

const (
	SpaceRGB       Space = "rgb"
	SpaceLinearRGB Space = "linear-rgb"
	SpaceHSV       Space = "hsv"
	SpaceLab       Space = "lab"
	SpaceLuv       Space = "luv"
	SpaceHCL       Space = "hcl"
	SpaceOkLab     Space = "oklab"
	SpaceOkLch     Space = "oklch"
)

var spaces = []Space{SpaceRGB, SpaceLinearRGB, SpaceHSV, SpaceLab, SpaceLuv, SpaceHCL, SpaceOkLab, SpaceOkLch}

// ParseSpace validates a color space name. The empty string means rgb.
func ParseSpace(s string) (Space, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SpaceRGB, nil
	}
	for _, sp := range spaces {
		if string(sp) == s {
			return sp, nil
		}
	}
	return "", errs.Configf("paint.ParseSpace", "colorSpace", errs.ErrUnknown, "%q", s)
}

// UnmarshalText validates the space while decoding configuration.
func (s *Space) UnmarshalText(text []byte) error {
	sp, err := ParseSpace(string(text))
	if err != nil {
		return err
	}
	*s = sp
	return nil
}

// Mix blends a towards b by t in the given space. In rgb each channel is
// blended linearly and rounded half away from zero, so mixing #ff0000 and
// #00ff00 at 0.5 gives rgb(128, 128, 0). Alpha is always blended linearly
// and never rounded. Channels saturate at their limits when t leaves [0, 1].
func Mix(a, b Color, t float64, space Space) Color {
	alpha := a.A + (b.A-a.A)*t

	switch space {
	case SpaceRGB, "":
		return Color{
			R: channel(lerp(float64(a.R), float64(b.R), t)),
			G: channel(lerp(float64(a.G), float64(b.G), t)),
			B: channel(lerp(float64(a.B), float64(b.B), t)),
			A: clamp01(alpha),
		}
	}

	ca, cb := a.colorful(), b.colorful()
	switch space {
	case SpaceLinearRGB:
		return fromColorful(ca.BlendLinearRgb(cb, t), alpha)
	case SpaceHSV:
		return fromColorful(ca.BlendHsv(cb, t), alpha)
	case SpaceLab:
		return fromColorful(ca.BlendLab(cb, t), alpha)
	case SpaceLuv:
		return fromColorful(ca.BlendLuv(cb, t), alpha)
	case SpaceHCL:
		return fromColorful(ca.BlendHcl(cb, t), alpha)
	case SpaceOkLab:
		return fromColorful(ca.BlendOkLab(cb, t), alpha)
	case SpaceOkLch:
		return fromColorful(ca.BlendOkLch(cb, t), alpha)
	default:
		return fromColorful(ca.BlendRgb(cb, t), alpha)
	}
}

func lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}
