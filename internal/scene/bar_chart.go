package scene

import (
	"math"
	"strconv"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

func init() {
	Register("bar-chart", NewBarChart)
}

// Bar is one bar-chart value.
type Bar struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// BarChartConfig configures a bar-chart scene.
type BarChartConfig struct {
	Data      []Bar         `yaml:"data"`
	Title     string        `yaml:"title"`
	Font      assets.Ref    `yaml:"font"`
	Delay     int           `yaml:"delay"`
	Stagger   int           `yaml:"stagger"`
	BarWidth  float64       `yaml:"barWidth"`
	Gap       float64       `yaml:"gap"`
	MaxHeight float64       `yaml:"maxHeight"`
	Colors    []paint.Color `yaml:"colors"`
	TextColor paint.Color   `yaml:"textColor"`
	Spring    spring.Config `yaml:"spring"`
}

// DefaultBarChart returns the bar-chart defaults.
func DefaultBarChart() BarChartConfig {
	return BarChartConfig{
		Stagger:   10,
		BarWidth:  60,
		Gap:       20,
		MaxHeight: 250,
		Colors: []paint.Color{
			paint.MustParse("#667eea"),
			paint.MustParse("#4ecdc4"),
			paint.MustParse("#45b7d1"),
			paint.MustParse("#96ceb4"),
			paint.MustParse("#feca57"),
		},
		TextColor: paint.White,
		Spring:    spring.Config{Damping: 20, Stiffness: 100},
	}
}

const (
	barLabelSize = 14
	barValueSize = 12
	barPadding   = 30
)

// BarChart grows bars one after another on springs.
type BarChart struct {
	cfg    BarChartConfig
	video  VideoConfig
	face   typeface
	grow   *spring.Spring
	max    float64
	left   float64 // x of the first bar's center
	bottom float64 // y of the bars' base line
}

// NewBarChart is the factory for "bar-chart".
func NewBarChart(ctx Context, params Params) (Scene, error) {
	const op = "scene.bar-chart"
	cfg := DefaultBarChart()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Data) == 0 {
		return nil, errs.Configf(op, "data", errs.ErrInvalid, "no bars")
	}
	if len(cfg.Colors) == 0 {
		return nil, errs.Configf(op, "colors", errs.ErrInvalid, "empty palette")
	}
	var top float64
	for i, b := range cfg.Data {
		field := "data[" + strconv.Itoa(i) + "].value"
		if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
			return nil, errs.Configf(op, field, errs.ErrNotFinite, "%v", b.Value)
		}
		if b.Value < 0 {
			return nil, errs.Configf(op, field, errs.ErrNegative, "%v", b.Value)
		}
		top = math.Max(top, b.Value)
	}
	if top == 0 {
		return nil, errs.Configf(op, "data", errs.ErrNonPositive, "all values are zero")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"barWidth", cfg.BarWidth}, {"maxHeight", cfg.MaxHeight}} {
		if err := positive(op, f.name, f.v); err != nil {
			return nil, err
		}
	}
	if cfg.Gap < 0 {
		return nil, errs.Configf(op, "gap", errs.ErrNegative, "%v", cfg.Gap)
	}
	if err := nonNegative(op, "delay", cfg.Delay); err != nil {
		return nil, err
	}
	if err := nonNegative(op, "stagger", cfg.Stagger); err != nil {
		return nil, err
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}
	grow, err := newSpring(ctx, cfg.Spring)
	if err != nil {
		return nil, err
	}

	n := float64(len(cfg.Data))
	span := n*cfg.BarWidth + (n-1)*cfg.Gap
	cx, cy := ctx.Video.Center()
	return &BarChart{
		cfg:    cfg,
		video:  ctx.Video,
		face:   face,
		grow:   grow,
		max:    top,
		left:   cx - span/2 + cfg.BarWidth/2,
		bottom: cy + cfg.MaxHeight/2,
	}, nil
}

// Progress is the growth of bar i at frame, in [0, 1] once settled.
func (c *BarChart) Progress(i, frame int) float64 {
	return c.grow.At(frame - c.cfg.Delay - i*c.cfg.Stagger)
}

func (c *BarChart) Evaluate(frame int) render.Node {
	n := float64(len(c.cfg.Data))
	span := n*c.cfg.BarWidth + (n-1)*c.cfg.Gap
	cx, _ := c.video.Center()

	panelH := c.cfg.MaxHeight + 2*barPadding + barLabelSize + barValueSize + 20
	children := []render.Node{render.Box{
		Common: render.At(cx, c.bottom-c.cfg.MaxHeight/2+barLabelSize).WithID("panel"),
		Width:  span + 2*barPadding,
		Height: panelH,
		Fill:   paint.White.WithAlpha(0.1),
		Radius: 15,
	}}
	if c.cfg.Title != "" {
		children = append(children, c.face.text(
			render.At(cx, c.bottom-c.cfg.MaxHeight-barPadding-20).WithID("title"),
			c.cfg.Title, 24, 700, c.cfg.TextColor, render.AlignCenter))
	}

	for i, b := range c.cfg.Data {
		p := c.Progress(i, frame)
		h := b.Value / c.max * c.cfg.MaxHeight * p
		x := c.left + float64(i)*(c.cfg.BarWidth+c.cfg.Gap)
		color := c.cfg.Colors[i%len(c.cfg.Colors)]
		id := "bar-" + strconv.Itoa(i)

		bar := render.Box{
			Common: render.At(x, c.bottom-h/2).WithID(id),
			Width:  c.cfg.BarWidth,
			Height: h,
			Fill:   color,
			Radius: 4,
			Shadow: glow(color, 20),
		}
		value := c.face.text(render.At(x, c.bottom-h-8).WithID(id+"-value"),
			strconv.FormatFloat(roundHalfUp(b.Value*p), 'f', -1, 64),
			barValueSize, 700, c.cfg.TextColor, render.AlignCenter)
		label := c.face.text(render.At(x, c.bottom+barLabelSize+10).WithID(id+"-label").WithOpacity(clampUnit(p)),
			b.Label, barLabelSize, 700, c.cfg.TextColor, render.AlignCenter)
		children = append(children, bar, value, label)
	}
	return render.Stack("bar-chart", children...)
}

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
