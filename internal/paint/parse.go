package paint

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Parse reads a CSS color: "#rgb", "#rgba", "#rrggbb", "#rrggbbaa",
// "rgb(r, g, b)", "rgba(r, g, b, a)", "hsl(h, s%, l%)", "hsla(h, s%, l%, a)",
// "transparent" or an SVG/CSS color keyword such as "white" or "teal".
func Parse(s string) (Color, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	switch {
	case in == "":
		return Color{}, invalid(s, "empty")
	case in == "transparent":
		return Transparent, nil
	case strings.HasPrefix(in, "#"):
		return parseHex(s, in[1:])
	case strings.HasPrefix(in, "rgb"):
		return parseFunc(s, in, "rgb")
	case strings.HasPrefix(in, "hsl"):
		return parseFunc(s, in, "hsl")
	}

	if named, ok := colornames.Map[in]; ok {
		return RGB(named.R, named.G, named.B), nil
	}
	return Color{}, errs.Configf("paint.Parse", "color", errs.ErrUnknown, "%q", s)
}

// MustParse is like Parse but panics on malformed input. Use it only for
// literals.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(orig, digits string) (Color, error) {
	expand := func(i int) (uint8, error) {
		v, err := strconv.ParseUint(digits[i:i+1]+digits[i:i+1], 16, 8)
		return uint8(v), err
	}
	pair := func(i int) (uint8, error) {
		v, err := strconv.ParseUint(digits[i:i+2], 16, 8)
		return uint8(v), err
	}

	var (
		read  func(int) (uint8, error)
		step  int
		alpha bool
	)
	switch len(digits) {
	case 3, 4:
		read, step, alpha = expand, 1, len(digits) == 4
	case 6, 8:
		read, step, alpha = pair, 2, len(digits) == 8
	default:
		return Color{}, invalid(orig, "hex colors have 3, 4, 6 or 8 digits")
	}

	var ch [4]uint8
	ch[3] = 255
	n := 3
	if alpha {
		n = 4
	}
	for i := 0; i < n; i++ {
		v, err := read(i * step)
		if err != nil {
			return Color{}, invalid(orig, "bad hex digit")
		}
		ch[i] = v
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: float64(ch[3]) / 255}, nil
}

func parseFunc(orig, in, family string) (Color, error) {
	open := strings.IndexByte(in, '(')
	if open < 0 || !strings.HasSuffix(in, ")") {
		return Color{}, invalid(orig, "missing parentheses")
	}
	name := in[:open]
	if name != family && name != family+"a" {
		return Color{}, invalid(orig, "unknown function "+name)
	}

	body := strings.NewReplacer(",", " ", "/", " ").Replace(in[open+1 : len(in)-1])
	args := strings.Fields(body)
	if len(args) != 3 && len(args) != 4 {
		return Color{}, invalid(orig, "expected 3 or 4 components")
	}

	alpha := 1.0
	if len(args) == 4 {
		a, err := component(args[3], 1)
		if err != nil {
			return Color{}, invalid(orig, err.Error())
		}
		alpha = clamp01(a)
	}

	if family == "rgb" {
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := component(args[i], 255)
			if err != nil {
				return Color{}, invalid(orig, err.Error())
			}
			ch[i] = channel(v)
		}
		return Color{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
	}

	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Color{}, invalid(orig, "bad hue")
	}
	sat, err := component(args[1], 1)
	if err != nil {
		return Color{}, invalid(orig, err.Error())
	}
	light, err := component(args[2], 1)
	if err != nil {
		return Color{}, invalid(orig, err.Error())
	}
	h = normalizeHue(h)
	return fromColorful(colorful.Hsl(h, clamp01(sat), clamp01(light)), alpha), nil
}

// component parses a plain number or a percentage of full.
func component(s string, full float64) (float64, error) {
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, err
		}
		return v / 100 * full, nil
	}
	return strconv.ParseFloat(s, 64)
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func invalid(s, why string) error {
	return errs.Configf("paint.Parse", "color", errs.ErrInvalid, "%q: %s", s, why)
}
