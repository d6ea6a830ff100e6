// Package spring evaluates damped harmonic oscillators analytically at an
// arbitrary frame. Nothing is simulated step by step: the displacement at
// t = frame/fps seconds comes straight from the closed-form solution, so
// seeking is free and results do not depend on call order.
package spring

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Defaults applied to zero-valued Config fields.
const (
	DefaultMass      = 1.0
	DefaultStiffness = 100.0
	DefaultDamping   = 10.0
)

// Config holds the physical constants of a spring. Zero Mass, Stiffness or
// Damping take the defaults above. InitialVelocity is in units per second
// towards the target.
type Config struct {
	Mass              float64 `yaml:"mass,omitempty" json:"mass,omitempty"`
	Stiffness         float64 `yaml:"stiffness,omitempty" json:"stiffness,omitempty"`
	Damping           float64 `yaml:"damping,omitempty" json:"damping,omitempty"`
	InitialVelocity   float64 `yaml:"initialVelocity,omitempty" json:"initialVelocity,omitempty"`
	OvershootClamping bool    `yaml:"overshootClamping,omitempty" json:"overshootClamping,omitempty"`
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	if c.Mass == 0 {
		c.Mass = DefaultMass
	}
	if c.Stiffness == 0 {
		c.Stiffness = DefaultStiffness
	}
	if c.Damping == 0 {
		c.Damping = DefaultDamping
	}
	return c
}

// Validate checks the constants after defaults are applied.
func (c Config) Validate() error {
	c = c.WithDefaults()
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"mass", c.Mass},
		{"stiffness", c.Stiffness},
		{"damping", c.Damping},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errs.Configf("spring.Config", f.name, errs.ErrNotFinite, "%v", f.v)
		}
		if f.v <= 0 {
			return errs.Configf("spring.Config", f.name, errs.ErrNonPositive, "%v", f.v)
		}
	}
	if math.IsNaN(c.InitialVelocity) || math.IsInf(c.InitialVelocity, 0) {
		return errs.Configf("spring.Config", "initialVelocity", errs.ErrNotFinite, "%v", c.InitialVelocity)
	}
	return nil
}

// AngularFrequency is ω0 = sqrt(k/m) in radians per second.
func (c Config) AngularFrequency() float64 {
	c = c.WithDefaults()
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio is ζ = c / (2 sqrt(k m)). Below 1 the spring oscillates.
func (c Config) DampingRatio() float64 {
	c = c.WithDefaults()
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Value is the unit step response (0 towards 1) of cfg at frame, sampled at
// fps frames per second. Negative frames evaluate as frame 0, which is
// exactly 0. Overshoot clamping is not applied here; use New for that.
func Value(frame, fps float64, cfg Config) (float64, error) {
	if err := checkFPS("spring.Value", fps); err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(frame) {
		return 0, errs.Configf("spring.Value", "frame", errs.ErrNotFinite, "%v", frame)
	}
	return step(frame/fps, cfg.AngularFrequency(), cfg.DampingRatio(), cfg.InitialVelocity), nil
}

// step evaluates the step response at t seconds. Harmonica's coefficients
// for a single time step of length t are the closed-form solution for
// over-, critically and under-damped oscillators alike.
func step(t, omega, zeta, v0 float64) float64 {
	if t <= 0 {
		return 0
	}
	if math.IsInf(t, 1) {
		return 1
	}
	pos, _ := harmonica.NewSpring(t, omega, zeta).Update(0, v0, 1)
	return pos
}

func checkFPS(op string, fps float64) error {
	if math.IsNaN(fps) || math.IsInf(fps, 0) {
		return errs.Configf(op, "fps", errs.ErrNotFinite, "%v", fps)
	}
	if fps <= 0 {
		return errs.Configf(op, "fps", errs.ErrNonPositive, "%v", fps)
	}
	return nil
}
