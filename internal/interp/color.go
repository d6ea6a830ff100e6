package interp

import (
	"github.com/ivlev/scene2frames/internal/easing"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
)

// ColorOptions tune a ColorCurve. Color curves always clamp on both sides.
type ColorOptions struct {
	Space  paint.Space
	Easing easing.Func
}

// ColorCurve blends between color keyframes.
type ColorCurve struct {
	in     []float64
	colors []paint.Color
	opts   ColorOptions
}

// NewColors validates the breakpoints and returns a color curve.
func NewColors(in []float64, colors []paint.Color, opts ColorOptions) (*ColorCurve, error) {
	if err := validate("interp.NewColors", in, len(colors)); err != nil {
		return nil, err
	}
	space, err := paint.ParseSpace(string(opts.Space))
	if err != nil {
		return nil, errs.Config("interp.NewColors", "colorSpace", err)
	}
	opts.Space = space
	if opts.Easing == nil {
		opts.Easing = easing.Linear
	}
	return &ColorCurve{
		in:     append([]float64(nil), in...),
		colors: append([]paint.Color(nil), colors...),
		opts:   opts,
	}, nil
}

// InterpolateColors validates and evaluates in one call.
func InterpolateColors(x float64, in []float64, colors []paint.Color, opts ColorOptions) (paint.Color, error) {
	c, err := NewColors(in, colors, opts)
	if err != nil {
		return paint.Color{}, err
	}
	return c.At(x), nil
}

// At returns the color at x. Progress within the segment is clamped to
// [0, 1] before easing, so the ends hold the first and last colors.
func (c *ColorCurve) At(x float64) paint.Color {
	k := segment(c.in, x)
	lo, hi := c.in[k], c.in[k+1]

	t := (x - lo) / (hi - lo)
	switch {
	case t <= 0:
		return c.colors[k]
	case t >= 1:
		return c.colors[k+1]
	}
	return paint.Mix(c.colors[k], c.colors[k+1], c.opts.Easing(t), c.opts.Space)
}

// Frame is At for integer frames.
func (c *ColorCurve) Frame(frame int) paint.Color {
	return c.At(float64(frame))
}
