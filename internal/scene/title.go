package scene

import (
	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

func init() {
	Register("title", NewTitle)
}

// TitleConfig configures a title scene.
type TitleConfig struct {
	Text       string        `yaml:"text"`
	Font       assets.Ref    `yaml:"font"`
	Size       float64       `yaml:"size"`
	Weight     int           `yaml:"weight"`
	Color      paint.Color   `yaml:"color"`
	FadeFrames int           `yaml:"fadeFrames"`
	Spring     spring.Config `yaml:"spring"`
	// Y is the vertical center as a fraction of the canvas height.
	Y float64 `yaml:"y"`
}

// DefaultTitle returns the title defaults.
func DefaultTitle() TitleConfig {
	return TitleConfig{
		Size:       112,
		Weight:     700,
		Color:      paint.Black,
		FadeFrames: 20,
		Y:          0.5,
	}
}

// Title fades a line of text in while it springs up to full size.
type Title struct {
	cfg   TitleConfig
	face  typeface
	x, y  float64
	fade  *interp.Curve
	scale *spring.Spring
}

// NewTitle is the factory for "title".
func NewTitle(ctx Context, params Params) (Scene, error) {
	const op = "scene.title"
	cfg := DefaultTitle()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if cfg.Text == "" {
		return nil, errs.Configf(op, "text", errs.ErrInvalid, "empty")
	}
	if err := positive(op, "size", cfg.Size); err != nil {
		return nil, err
	}
	if err := positive(op, "fadeFrames", float64(cfg.FadeFrames)); err != nil {
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

	cx, _ := ctx.Video.Center()
	return &Title{
		cfg:   cfg,
		face:  face,
		x:     cx,
		y:     face.baseline(cfg.Size, cfg.Y*float64(ctx.Video.Height)),
		fade:  interp.Fade(0, float64(cfg.FadeFrames)),
		scale: scale,
	}, nil
}

func (t *Title) Evaluate(frame int) render.Node {
	c := render.At(t.x, t.y).
		WithID("title").
		WithOpacity(t.fade.Frame(frame)).
		WithScale(t.scale.At(frame))
	return t.face.text(c, t.cfg.Text, t.cfg.Size, t.cfg.Weight, t.cfg.Color, render.AlignCenter)
}
