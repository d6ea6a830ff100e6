// Package easing reshapes normalized animation progress.
//
// Every Func maps t in [0, 1] to a value with f(0) = 0 and f(1) = 1. Values in
// between may leave [0, 1] (back and elastic curves overshoot on purpose).
// Inputs outside [0, 1] are evaluated by the same formula, never rejected.
//
// Primitives ([Quad], [Cubic], [Back], ...) are "in" curves; wrap them with
// [Out] or [InOut] to change where the acceleration happens:
//
//	easing.Out(easing.Cubic)       // fast start, slow end
//	easing.Out(easing.Back(1.2))   // overshoots then settles
package easing

import "math"

// Func maps normalized progress to eased progress.
type Func func(t float64) float64

// pin makes f exact at both endpoints. Trigonometric and polynomial forms
// are routinely a few ulps away from 0 or 1 there, and interpolation relies on
// exact boundaries.
func pin(f Func) Func {
	return func(t float64) float64 {
		switch t {
		case 0:
			return 0
		case 1:
			return 1
		}
		return f(t)
	}
}

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// Quad is t².
func Quad(t float64) float64 {
	return t * t
}

// Cubic is t³.
func Cubic(t float64) float64 {
	return t * t * t
}

// Poly returns t^n.
func Poly(n float64) Func {
	return pin(func(t float64) float64 {
		return math.Pow(t, n)
	})
}

// Sin is a sinusoidal ease-in.
var Sin = pin(func(t float64) float64 {
	return 1 - math.Cos(t*math.Pi/2)
})

// Circle is a circular ease-in.
var Circle = pin(func(t float64) float64 {
	return 1 - math.Sqrt(1-t*t)
})

// Exp is an exponential ease-in. The raw formula is 2^-10 at t = 0; the
// endpoint is pinned to 0.
var Exp = pin(func(t float64) float64 {
	return math.Pow(2, 10*(t-1))
})

// DefaultBackOvershoot is the overshoot of the argument-less "back" easing.
const DefaultBackOvershoot = 1.70158

// Back pulls back slightly before moving forward. Larger s pulls back
// further; s = 0 is a plain cubic.
func Back(s float64) Func {
	return pin(func(t float64) float64 {
		return t * t * ((s+1)*t - s)
	})
}

// Elastic oscillates like a spring. Bounciness 0 does not oscillate.
func Elastic(bounciness float64) Func {
	p := bounciness * math.Pi
	return pin(func(t float64) float64 {
		c := math.Cos(t * math.Pi / 2)
		return 1 - c*c*c*math.Cos(t*p)
	})
}

// Bounce drops onto the target and bounces three times before resting.
// Unlike the other primitives its shape already decelerates at the end.
var Bounce = pin(bounce)

func bounce(t float64) float64 {
	switch {
	case t < 1/2.75:
		return 7.5625 * t * t
	case t < 2/2.75:
		t -= 1.5 / 2.75
		return 7.5625*t*t + 0.75
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return 7.5625*t*t + 0.9375
	default:
		t -= 2.625 / 2.75
		return 7.5625*t*t + 0.984375
	}
}

// In returns f unchanged. It exists for symmetry with [Out] and [InOut].
func In(f Func) Func {
	return pin(f)
}

// Out runs f backwards: 1 - f(1 - t).
func Out(f Func) Func {
	return pin(func(t float64) float64 {
		return 1 - f(1-t)
	})
}

// InOut runs f forwards for the first half and backwards for the second.
func InOut(f Func) Func {
	return pin(func(t float64) float64 {
		if t < 0.5 {
			return f(t*2) / 2
		}
		return 1 - f((1-t)*2)/2
	})
}
