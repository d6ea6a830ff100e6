package scene

import (
	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/easing"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

func init() {
	Register("brand-logo", NewBrandLogo)
}

// BrandLogoConfig configures a brand-logo scene.
type BrandLogoConfig struct {
	Name   string     `yaml:"name"`
	Letter string     `yaml:"letter"`
	// Logo, when set, is an image asset drawn inside the circle instead of
	// Letter.
	Logo     assets.Ref    `yaml:"logo"`
	Font     assets.Ref    `yaml:"font"`
	Diameter float64       `yaml:"diameter"`
	NameSize float64       `yaml:"nameSize"`
	Colors   []paint.Color `yaml:"colors"`
	// Background paints the animated full-canvas gradient behind the logo.
	Background bool          `yaml:"background"`
	Spring     spring.Config `yaml:"spring"`
}

// DefaultBrandLogo returns the brand-logo defaults.
func DefaultBrandLogo() BrandLogoConfig {
	return BrandLogoConfig{
		Name:       "BRAND",
		Letter:     "B",
		Diameter:   200,
		NameSize:   48,
		Colors:     []paint.Color{paint.MustParse("#667eea"), paint.MustParse("#764ba2")},
		Background: true,
		Spring:     spring.Config{Damping: 25, Stiffness: 100},
	}
}

const brandGap = 20

// brandParticle is a decorative dot placed as a fraction of the canvas.
type brandParticle struct {
	x, y     float64
	size     float64
	alpha    float64
	fadeFrom float64
}

var brandParticles = []brandParticle{
	{x: 0.10, y: 0.20, size: 10, alpha: 0.6, fadeFrom: 30},
	{x: 0.85, y: 0.70, size: 8, alpha: 0.4, fadeFrom: 40},
}

// BrandLogo reveals a logo mark and brand name over a shifting gradient.
type BrandLogo struct {
	cfg    BrandLogoConfig
	video  VideoConfig
	face   typeface
	logo   *assets.Image
	layout struct {
		circleY, nameY float64
	}

	opacity   *interp.Curve
	slide     *interp.Curve
	scale     *spring.Spring
	bgStart   *interp.ColorCurve
	bgEnd     *interp.ColorCurve
	particles []*interp.Curve
}

// NewBrandLogo is the factory for "brand-logo".
func NewBrandLogo(ctx Context, params Params) (Scene, error) {
	const op = "scene.brand-logo"
	cfg := DefaultBrandLogo()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if err := positive(op, "diameter", cfg.Diameter); err != nil {
		return nil, err
	}
	if err := positive(op, "nameSize", cfg.NameSize); err != nil {
		return nil, err
	}
	if len(cfg.Colors) < 2 {
		return nil, errs.Configf(op, "colors", errs.ErrTooFewPoints, "got %d", len(cfg.Colors))
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}
	scale, err := newSpring(ctx, cfg.Spring)
	if err != nil {
		return nil, err
	}

	s := &BrandLogo{
		cfg:   cfg,
		video: ctx.Video,
		face:  face,
		scale: scale,
		opacity: interp.MustNew([]float64{0, 30}, []float64{0, 1},
			interp.Clamped(easing.Out(easing.Cubic))),
		slide: interp.MustNew([]float64{0, 45}, []float64{100, 0},
			interp.Clamped(easing.Out(easing.Back(1.2)))),
	}
	if cfg.Logo != "" {
		img, err := ctx.Assets.Image(cfg.Logo)
		if err != nil {
			return nil, err
		}
		s.logo = &img
	}
	if cfg.Background {
		rgb := interp.ColorOptions{Space: paint.SpaceRGB}
		s.bgStart, err = interp.NewColors([]float64{60, 120},
			[]paint.Color{paint.RGB(255, 0, 100), paint.RGB(255, 255, 100)}, rgb)
		if err != nil {
			return nil, err
		}
		s.bgEnd, err = interp.NewColors([]float64{60, 120},
			[]paint.Color{paint.RGB(100, 0, 255), paint.RGB(100, 255, 255)}, rgb)
		if err != nil {
			return nil, err
		}
	}
	for _, p := range brandParticles {
		s.particles = append(s.particles, interp.Fade(p.fadeFrom, p.fadeFrom+30))
	}

	// The circle and the name form one column centered on the canvas.
	nameHeight := face.font.Metrics(cfg.NameSize).Height
	total := cfg.Diameter + brandGap + nameHeight
	s.layout.circleY = -total/2 + cfg.Diameter/2
	s.layout.nameY = face.baseline(cfg.NameSize, total/2-nameHeight/2)
	return s, nil
}

func (b *BrandLogo) Evaluate(frame int) render.Node {
	w, h := float64(b.video.Width), float64(b.video.Height)
	cx, cy := b.video.Center()
	var children []render.Node

	if b.bgStart != nil {
		children = append(children, render.Box{
			Common: render.At(cx, cy).WithID("background"),
			Width:  w,
			Height: h,
			Gradient: &render.Gradient{Angle: 135, Stops: []render.Stop{
				{Offset: 0, Color: b.bgStart.Frame(frame)},
				{Offset: 1, Color: b.bgEnd.Frame(frame)},
			}},
		})
	}

	mark := b.mark()
	name := b.face.text(render.At(0, b.layout.nameY).WithID("name"),
		b.cfg.Name, b.cfg.NameSize, 700, paint.White, render.AlignCenter)
	name.Shadow = &render.Shadow{Color: paint.Black.WithAlpha(0.5), Blur: 4, OffsetX: 2, OffsetY: 2}

	children = append(children, render.Group{
		Common: render.At(cx, cy+b.slide.Frame(frame)).
			WithID("logo").
			WithOpacity(b.opacity.Frame(frame)).
			WithScale(b.scale.At(frame)),
		Children: []render.Node{mark, name},
	})

	for i, p := range brandParticles {
		children = append(children, circle(
			render.At(w*p.x, h*p.y).WithOpacity(b.particles[i].Frame(frame)),
			p.size, paint.White.WithAlpha(p.alpha)))
	}
	return render.Stack("brand-logo", children...)
}

func (b *BrandLogo) mark() render.Node {
	d := b.cfg.Diameter
	disc := render.Box{
		Common: render.At(0, 0),
		Width:  d,
		Height: d,
		Radius: d / 2,
		Fill:   b.cfg.Colors[0],
		Gradient: &render.Gradient{Angle: 45, Stops: []render.Stop{
			{Offset: 0, Color: b.cfg.Colors[0]},
			{Offset: 1, Color: b.cfg.Colors[1]},
		}},
		Stroke: &render.Stroke{Color: paint.White, Width: 4},
		Shadow: &render.Shadow{Color: paint.Black.WithAlpha(0.3), Blur: 40, OffsetY: 20},
	}

	var inner render.Node
	if b.logo != nil {
		// Fit the image inside the circle's inscribed square.
		side := d / 1.4142135623730951
		iw, ih := side, side
		if a := b.logo.Aspect(); a > 1 {
			ih = side / a
		} else {
			iw = side * a
		}
		inner = render.Image{Common: render.At(0, 0), Asset: b.cfg.Logo, Width: iw, Height: ih}
	} else {
		size := d * 0.4
		inner = b.face.text(render.At(0, b.face.baseline(size, 0)), b.cfg.Letter, size, 700, paint.White, render.AlignCenter)
	}

	return render.Group{
		Common:   render.At(0, b.layout.circleY).WithID("mark"),
		Children: []render.Node{disc, inner},
	}
}
