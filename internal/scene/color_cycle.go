package scene

import (
	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
	"github.com/ivlev/scene2frames/internal/timeline"
)

func init() {
	Register("color-cycle", NewColorCycle)
}

// ColorCycleConfig configures a color-cycle scene.
type ColorCycleConfig struct {
	Palette []paint.Color `yaml:"palette"`
	Space   paint.Space   `yaml:"colorSpace"`
	Easing  string        `yaml:"easing"`
	Delay   int           `yaml:"delay"`
	// FramesPerColor is the length of each transition.
	FramesPerColor int `yaml:"framesPerColor"`
	// Loop returns to the first color and starts over. Times == 0 loops
	// forever.
	Loop    bool          `yaml:"loop"`
	Times   int           `yaml:"times"`
	Swatch  float64       `yaml:"swatch"`
	Radius  float64       `yaml:"radius"`
	Caption string        `yaml:"caption"`
	Font    assets.Ref    `yaml:"font"`
	Spring  spring.Config `yaml:"spring"`
}

// DefaultColorCycle returns the color-cycle defaults.
func DefaultColorCycle() ColorCycleConfig {
	return ColorCycleConfig{
		Palette:        []paint.Color{paint.MustParse("#ff6b6b"), paint.MustParse("#4ecdc4")},
		Space:          paint.SpaceRGB,
		FramesPerColor: 60,
		Swatch:         200,
		Radius:         20,
		Spring:         spring.Config{Damping: 20, Stiffness: 100},
	}
}

// ColorCycle moves the background through a palette and shows the current
// color on a swatch.
type ColorCycle struct {
	cfg    ColorCycleConfig
	video  VideoConfig
	face   typeface
	colors *interp.ColorCurve
	loop   *timeline.Loop
	scale  *spring.Spring
}

// NewColorCycle is the factory for "color-cycle".
func NewColorCycle(ctx Context, params Params) (Scene, error) {
	const op = "scene.color-cycle"
	cfg := DefaultColorCycle()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Palette) < 2 {
		return nil, errs.Configf(op, "palette", errs.ErrTooFewPoints, "got %d colors", len(cfg.Palette))
	}
	if err := positive(op, "framesPerColor", float64(cfg.FramesPerColor)); err != nil {
		return nil, err
	}
	if err := positive(op, "swatch", cfg.Swatch); err != nil {
		return nil, err
	}
	if err := nonNegative(op, "delay", cfg.Delay); err != nil {
		return nil, err
	}
	ease, err := lookupEasing(op, cfg.Easing)
	if err != nil {
		return nil, err
	}

	stops := append([]paint.Color(nil), cfg.Palette...)
	if cfg.Loop {
		stops = append(stops, cfg.Palette[0])
	}
	in := make([]float64, len(stops))
	for i := range in {
		in[i] = float64(i * cfg.FramesPerColor)
	}
	colors, err := interp.NewColors(in, stops, interp.ColorOptions{Space: cfg.Space, Easing: ease})
	if err != nil {
		return nil, err
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}
	scale, err := newSpring(ctx, cfg.Spring)
	if err != nil {
		return nil, err
	}

	s := &ColorCycle{cfg: cfg, video: ctx.Video, face: face, colors: colors, scale: scale}
	if cfg.Loop {
		l := timeline.Loop{Duration: (len(stops) - 1) * cfg.FramesPerColor, Times: cfg.Times}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		s.loop = &l
	}
	return s, nil
}

// ColorAt is the palette color shown at frame.
func (c *ColorCycle) ColorAt(frame int) paint.Color {
	local := frame - c.cfg.Delay
	if c.loop != nil && local >= 0 {
		if f, _, ok := c.loop.Local(local); ok {
			local = f
		} else {
			// Finished looping: hold the color the last pass ended on.
			local = c.loop.Duration
		}
	}
	return c.colors.Frame(local)
}

func (c *ColorCycle) Evaluate(frame int) render.Node {
	w, h := float64(c.video.Width), float64(c.video.Height)
	cx, cy := c.video.Center()
	color := c.ColorAt(frame)

	children := []render.Node{
		render.Box{Common: render.At(cx, cy).WithID("background"), Width: w, Height: h, Fill: color},
		render.Box{
			Common: render.At(cx, cy).WithID("swatch").WithScale(c.scale.At(frame - c.cfg.Delay)),
			Width:  c.cfg.Swatch,
			Height: c.cfg.Swatch,
			Fill:   color,
			Radius: c.cfg.Radius,
			Stroke: &render.Stroke{Color: paint.White, Width: 4},
			Shadow: &render.Shadow{Color: color.WithAlpha(0.25), Blur: 40, OffsetY: 20},
		},
	}
	caption := c.cfg.Caption
	if caption == "" {
		caption = color.Hex()
	}
	children = append(children, c.face.text(
		render.At(cx, cy+c.cfg.Swatch/2+48).WithID("caption"),
		caption, 24, 700, paint.White, render.AlignCenter))
	return render.Stack("color-cycle", children...)
}
