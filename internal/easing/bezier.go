package easing

import "math"

// Bezier returns an easing function matching CSS cubic-bezier(x1, y1, x2, y2).
// The curve runs from (0,0) to (1,1) with the two given control points.
func Bezier(x1, y1, x2, y2 float64) Func {
	if x1 == y1 && x2 == y2 {
		return Linear
	}
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		// Newton-Raphson converges quickly for most values.
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Bisection keeps the parameter inside [0,1] when Newton stalls.
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 20 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

// CSS named timing functions.
var (
	Ease      = Bezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = Bezier(0.42, 0.0, 1.0, 1.0)
	EaseOut   = Bezier(0.0, 0.0, 0.58, 1.0)
	EaseInOut = Bezier(0.42, 0.0, 0.58, 1.0)
)

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
