package scene

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

func init() {
	Register("counter", NewCounter)
}

// CounterConfig configures a counter scene.
type CounterConfig struct {
	End      float64       `yaml:"end"`
	Delay    int           `yaml:"delay"`
	Duration int           `yaml:"duration"`
	Decimals int           `yaml:"decimals"`
	Prefix   string        `yaml:"prefix"`
	Suffix   string        `yaml:"suffix"`
	Locale   string        `yaml:"locale"`
	Label    string        `yaml:"label"`
	Font     assets.Ref    `yaml:"font"`
	Size     float64       `yaml:"size"`
	Color    paint.Color   `yaml:"color"`
	Easing   string        `yaml:"easing"`
	Spring   spring.Config `yaml:"spring"`
}

// DefaultCounter returns the counter defaults.
func DefaultCounter() CounterConfig {
	return CounterConfig{
		Duration: 60,
		Locale:   "en",
		Size:     48,
		Color:    paint.MustParse("#667eea"),
		Spring:   spring.Config{Damping: 20, Stiffness: 100},
	}
}

// Counter counts up from zero to End and pops in on a spring.
type Counter struct {
	cfg      CounterConfig
	face     typeface
	printer  *message.Printer
	progress *interp.Curve
	scale    *spring.Spring
	x, y     float64
}

// NewCounter is the factory for "counter".
func NewCounter(ctx Context, params Params) (Scene, error) {
	const op = "scene.counter"
	cfg := DefaultCounter()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if math.IsNaN(cfg.End) || math.IsInf(cfg.End, 0) {
		return nil, errs.Configf(op, "end", errs.ErrNotFinite, "%v", cfg.End)
	}
	if err := nonNegative(op, "delay", cfg.Delay); err != nil {
		return nil, err
	}
	if err := positive(op, "duration", float64(cfg.Duration)); err != nil {
		return nil, err
	}
	if cfg.Decimals < 0 || cfg.Decimals > 6 {
		return nil, errs.Configf(op, "decimals", errs.ErrInvalid, "%d not in [0, 6]", cfg.Decimals)
	}
	if err := positive(op, "size", cfg.Size); err != nil {
		return nil, err
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, errs.Configf(op, "locale", errs.ErrInvalid, "%q: %v", cfg.Locale, err)
	}
	ease, err := lookupEasing(op, cfg.Easing)
	if err != nil {
		return nil, err
	}
	progress, err := interp.New(
		[]float64{float64(cfg.Delay), float64(cfg.Delay + cfg.Duration)},
		[]float64{0, 1}, interp.Clamped(ease))
	if err != nil {
		return nil, err
	}
	scale, err := newSpring(ctx, cfg.Spring)
	if err != nil {
		return nil, err
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}

	cx, cy := ctx.Video.Center()
	return &Counter{
		cfg:      cfg,
		face:     face,
		printer:  message.NewPrinter(tag),
		progress: progress,
		scale:    scale,
		x:        cx,
		y:        face.baseline(cfg.Size, cy),
	}, nil
}

// Value is the number shown at frame, already rounded.
func (c *Counter) Value(frame int) float64 {
	v := c.cfg.End * c.progress.Frame(frame)
	pow := math.Pow(10, float64(c.cfg.Decimals))
	return roundHalfUp(v*pow) / pow
}

// Format renders v with the configured locale, prefix and suffix.
func (c *Counter) Format(v float64) string {
	digits := c.printer.Sprint(number.Decimal(v, number.Scale(c.cfg.Decimals)))
	return c.cfg.Prefix + digits + c.cfg.Suffix
}

func (c *Counter) Evaluate(frame int) render.Node {
	group := render.Group{
		Common: render.At(0, 0).WithID("counter"),
		Children: []render.Node{
			c.face.text(render.At(c.x, c.y).WithID("value").WithScale(c.scale.At(frame-c.cfg.Delay)),
				c.Format(c.Value(frame)), c.cfg.Size, 700, c.cfg.Color, render.AlignCenter),
		},
	}
	if c.cfg.Label != "" {
		labelSize := c.cfg.Size * 0.4
		group.Children = append(group.Children, c.face.text(
			render.At(c.x, c.y+c.cfg.Size*0.9).WithID("label").WithOpacity(c.progress.Frame(frame)),
			c.cfg.Label, labelSize, 400, c.cfg.Color.WithAlpha(0.8), render.AlignCenter))
	}
	return group
}
