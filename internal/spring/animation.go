package spring

import (
	"math"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Params describe a spring animation between two values.
type Params struct {
	FPS    float64
	Config Config
	From   float64
	// To is the target; nil means 1. Use [Target] for literals.
	To    *float64
	Delay int
	// DurationInFrames stretches the spring so it settles at that frame.
	// Zero keeps the natural duration.
	DurationInFrames int
	// RestThreshold used when measuring the natural duration. Zero means
	// DefaultRestThreshold.
	RestThreshold float64
	// Reverse plays the animation backwards, starting at To.
	Reverse bool
}

// Target returns a pointer to v for Params.To.
func Target(v float64) *float64 {
	return &v
}

// Spring is a validated, immutable spring animation.
type Spring struct {
	p        Params
	from, to float64
	omega    float64
	zeta     float64
	natural  int
	duration int
}

// New validates p and measures the natural duration when it is needed.
func New(p Params) (*Spring, error) {
	if err := checkFPS("spring.New", p.FPS); err != nil {
		return nil, err
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	to := 1.0
	if p.To != nil {
		to = *p.To
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"from", p.From}, {"to", to}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return nil, errs.Configf("spring.New", f.name, errs.ErrNotFinite, "%v", f.v)
		}
	}
	if p.DurationInFrames < 0 {
		return nil, errs.Configf("spring.New", "durationInFrames", errs.ErrNegative, "%d", p.DurationInFrames)
	}
	p.Config = p.Config.WithDefaults()

	s := &Spring{
		p:     p,
		from:  p.From,
		to:    to,
		omega: p.Config.AngularFrequency(),
		zeta:  p.Config.DampingRatio(),
	}
	if p.Reverse || p.DurationInFrames > 0 {
		natural, err := Measure(p.FPS, p.Config, p.RestThreshold)
		if err != nil {
			return nil, err
		}
		s.natural = natural
	}
	s.duration = p.DurationInFrames
	if s.duration == 0 {
		s.duration = s.natural
	}
	return s, nil
}

// MustNew is like New but panics. Use it for literal springs only.
func MustNew(p Params) *Spring {
	s, err := New(p)
	if err != nil {
		panic(err)
	}
	return s
}

// At evaluates the animation at frame.
func (s *Spring) At(frame int) float64 {
	return s.Eval(float64(frame))
}

// Eval evaluates the animation at a fractional frame.
func (s *Spring) Eval(frame float64) float64 {
	p := s.p

	local := frame
	if p.Reverse {
		local = float64(s.duration) - frame + float64(p.Delay)
	} else {
		local -= float64(p.Delay)
	}

	if p.DurationInFrames > 0 {
		if local > float64(p.DurationInFrames) {
			return s.to
		}
		if s.natural > 0 {
			local /= float64(p.DurationInFrames) / float64(s.natural)
		}
	}

	progress := step(local/p.FPS, s.omega, s.zeta, p.Config.InitialVelocity)
	if p.Config.OvershootClamping && progress > 1 {
		progress = 1
	}

	if s.from == 0 && s.to == 1 {
		return progress
	}
	switch progress {
	case 0:
		return s.from
	case 1:
		return s.to
	}
	return s.from + (s.to-s.from)*progress
}

// NaturalDuration is the measured settle frame. It is zero unless the
// spring was built with Reverse or DurationInFrames.
func (s *Spring) NaturalDuration() int {
	return s.natural
}
