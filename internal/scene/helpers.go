package scene

import (
	"fmt"
	"math"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/easing"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func newSpring(ctx Context, cfg spring.Config) (*spring.Spring, error) {
	return spring.New(spring.Params{FPS: ctx.Video.FPS, Config: cfg})
}

func lookupEasing(op, name string) (easing.Func, error) {
	f, err := easing.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

func positive(op, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Configf(op, field, errs.ErrNotFinite, "%v", v)
	}
	if v <= 0 {
		return errs.Configf(op, field, errs.ErrNonPositive, "%v", v)
	}
	return nil
}

func nonNegative(op, field string, v int) error {
	if v < 0 {
		return errs.Configf(op, field, errs.ErrNegative, "%d", v)
	}
	return nil
}

// typeface bundles a font with the ref written into text nodes.
type typeface struct {
	ref  assets.Ref
	font *assets.Font
}

func loadTypeface(ctx Context, ref assets.Ref) (typeface, error) {
	f, err := ctx.Font(ref)
	if err != nil {
		return typeface{}, err
	}
	return typeface{ref: ref, font: f}, nil
}

// text builds a measured text node anchored at c.
func (tf typeface) text(c render.Common, content string, size float64, weight int, color paint.Color, align render.Align) render.Text {
	return render.Text{
		Common:  c,
		Content: content,
		Font:    tf.ref,
		Size:    size,
		Weight:  weight,
		Color:   color,
		Align:   align,
		Width:   tf.font.Measure(content, size),
	}
}

// baseline returns the baseline that vertically centers a line of text on cy.
func (tf typeface) baseline(size, cy float64) float64 {
	m := tf.font.Metrics(size)
	return cy + (m.Ascent-m.Descent)/2
}

func circle(c render.Common, diameter float64, fill paint.Color) render.Box {
	return render.Box{
		Common: c,
		Width:  diameter,
		Height: diameter,
		Fill:   fill,
		Radius: diameter / 2,
	}
}

// glow is the soft colored shadow used around accents: the color at 25%
// alpha, blurred by blur pixels.
func glow(c paint.Color, blur float64) *render.Shadow {
	return &render.Shadow{Color: c.WithAlpha(0.25), Blur: blur}
}
