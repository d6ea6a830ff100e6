// Package interp maps frame numbers through keyframe breakpoints onto
// scalar or color outputs.
package interp

import (
	"math"

	"github.com/ivlev/scene2frames/internal/easing"
	"github.com/ivlev/scene2frames/internal/errs"
)

// Options tune a Curve. The zero value is linear with Extend on both sides.
type Options struct {
	Easing           easing.Func
	ExtrapolateLeft  Extrapolate
	ExtrapolateRight Extrapolate
}

// Clamped returns options that clamp on both sides.
func Clamped(e easing.Func) Options {
	return Options{Easing: e, ExtrapolateLeft: Clamp, ExtrapolateRight: Clamp}
}

// Curve is a validated keyframe range. It is immutable and safe for
// concurrent use.
type Curve struct {
	in, out []float64
	opts    Options
}

// New validates the breakpoints and returns a curve. The slices are copied.
func New(in, out []float64, opts Options) (*Curve, error) {
	if err := validate("interp.New", in, len(out)); err != nil {
		return nil, err
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Configf("interp.New", "outputRange", errs.ErrNotFinite, "index %d is %v", i, v)
		}
	}
	if !opts.ExtrapolateLeft.valid() {
		return nil, errs.Configf("interp.New", "extrapolateLeft", errs.ErrUnknown, "%q", opts.ExtrapolateLeft)
	}
	if !opts.ExtrapolateRight.valid() {
		return nil, errs.Configf("interp.New", "extrapolateRight", errs.ErrUnknown, "%q", opts.ExtrapolateRight)
	}
	if opts.Easing == nil {
		opts.Easing = easing.Linear
	}

	return &Curve{
		in:   append([]float64(nil), in...),
		out:  append([]float64(nil), out...),
		opts: opts,
	}, nil
}

// MustNew is like New but panics. Use it for literal curves only.
func MustNew(in, out []float64, opts Options) *Curve {
	c, err := New(in, out, opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Fade maps [from, to] onto [0, 1], clamped on both sides.
func Fade(from, to float64) *Curve {
	return MustNew([]float64{from, to}, []float64{0, 1}, Clamped(nil))
}

// Interpolate validates and evaluates in one call.
func Interpolate(x float64, in, out []float64, opts Options) (float64, error) {
	c, err := New(in, out, opts)
	if err != nil {
		return 0, err
	}
	return c.At(x), nil
}

// At evaluates the curve at x.
func (c *Curve) At(x float64) float64 {
	k := segment(c.in, x)
	return c.segmentAt(x, k)
}

// Frame is At for integer frames.
func (c *Curve) Frame(frame int) float64 {
	return c.At(float64(frame))
}

func (c *Curve) segmentAt(x float64, k int) float64 {
	inMin, inMax := c.in[k], c.in[k+1]
	outMin, outMax := c.out[k], c.out[k+1]

	if x < inMin {
		switch c.opts.ExtrapolateLeft {
		case Identity:
			return x
		case Clamp:
			x = inMin
		case Wrap:
			x = wrap(x, inMin, inMax)
		}
	}
	if x > inMax {
		switch c.opts.ExtrapolateRight {
		case Identity:
			return x
		case Clamp:
			x = inMax
		case Wrap:
			x = wrap(x, inMin, inMax)
		}
	}

	if outMin == outMax {
		return outMin
	}

	t := (x - inMin) / (inMax - inMin)
	e := c.opts.Easing(t)
	switch e {
	case 0:
		return outMin
	case 1:
		return outMax
	}
	return outMin + (outMax-outMin)*e
}

// segment returns k such that [in[k], in[k+1]] is the segment used for x:
// the first inner breakpoint not below x closes the segment, and inputs past
// the last inner breakpoint use the final segment.
func segment(in []float64, x float64) int {
	i := 1
	for ; i < len(in)-1; i++ {
		if in[i] >= x {
			break
		}
	}
	return i - 1
}

func wrap(x, lo, hi float64) float64 {
	span := hi - lo
	return math.Mod(math.Mod(x-lo, span)+span, span) + lo
}

func validate(op string, in []float64, outLen int) error {
	if len(in) != outLen {
		return errs.Configf(op, "inputRange", errs.ErrLengthMismatch, "%d inputs, %d outputs", len(in), outLen)
	}
	if len(in) < 2 {
		return errs.Configf(op, "inputRange", errs.ErrTooFewPoints, "got %d", len(in))
	}
	for i, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.Configf(op, "inputRange", errs.ErrNotFinite, "index %d is %v", i, v)
		}
		if i > 0 && v <= in[i-1] {
			return errs.Configf(op, "inputRange", errs.ErrNotIncreasing, "%v follows %v at index %d", v, in[i-1], i)
		}
	}
	return nil
}
