package scene

import (
	"math"
	"strconv"

	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/random"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

func init() {
	Register("orbit-particles", NewOrbitParticles)
}

// OrbitParticlesConfig configures an orbit-particles scene.
type OrbitParticlesConfig struct {
	Count  int           `yaml:"count"`
	Seed   string        `yaml:"seed"`
	Colors []paint.Color `yaml:"colors"`
	// Radius of the ring; each particle's distance varies by Jitter times
	// the radius in either direction.
	Radius float64 `yaml:"radius"`
	Jitter float64 `yaml:"jitter"`
	// Stagger delays particle i by i*Stagger frames.
	Stagger int `yaml:"stagger"`
	// OrbitFrames is the time one revolution takes at unit speed. Zero
	// keeps the particles on fixed angles.
	OrbitFrames int           `yaml:"orbitFrames"`
	Lifetime    int           `yaml:"lifetime"`
	Spring      spring.Config `yaml:"spring"`
}

// DefaultOrbitParticles returns the orbit-particles defaults.
func DefaultOrbitParticles() OrbitParticlesConfig {
	return OrbitParticlesConfig{
		Count: 50,
		Seed:  "particles",
		Colors: []paint.Color{
			paint.MustParse("#667eea"),
			paint.MustParse("#4ecdc4"),
			paint.MustParse("#45b7d1"),
			paint.MustParse("#96ceb4"),
			paint.MustParse("#feca57"),
		},
		Radius:   200,
		Jitter:   0.25,
		Stagger:  2,
		Lifetime: 300,
		Spring:   spring.Config{Damping: 25, Stiffness: 80},
	}
}

type orbiter struct {
	angle  float64
	radius float64
	speed  float64
	size   float64
	color  paint.Color
}

// OrbitParticles scatters particles on a ring around the canvas center. The
// ring is fixed by the seed; motion depends only on the frame.
type OrbitParticles struct {
	cfg      OrbitParticlesConfig
	video    VideoConfig
	ps       []orbiter
	opacity  *interp.Curve
	rotation *interp.Curve
	scale    *spring.Spring
}

// NewOrbitParticles is the factory for "orbit-particles".
func NewOrbitParticles(ctx Context, params Params) (Scene, error) {
	const op = "scene.orbit-particles"
	cfg := DefaultOrbitParticles()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if err := positive(op, "count", float64(cfg.Count)); err != nil {
		return nil, err
	}
	if len(cfg.Colors) == 0 {
		return nil, errs.Configf(op, "colors", errs.ErrInvalid, "empty palette")
	}
	if err := positive(op, "radius", cfg.Radius); err != nil {
		return nil, err
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		return nil, errs.Configf(op, "jitter", errs.ErrInvalid, "%v not in [0, 1]", cfg.Jitter)
	}
	if err := nonNegative(op, "stagger", cfg.Stagger); err != nil {
		return nil, err
	}
	if err := nonNegative(op, "orbitFrames", cfg.OrbitFrames); err != nil {
		return nil, err
	}
	// The fade needs distinct breakpoints at 60, lifetime-60 and lifetime.
	if cfg.Lifetime <= 120 {
		return nil, errs.Configf(op, "lifetime", errs.ErrInvalid, "%d must exceed 120 frames", cfg.Lifetime)
	}
	scale, err := newSpring(ctx, cfg.Spring)
	if err != nil {
		return nil, err
	}
	life := float64(cfg.Lifetime)
	opacity, err := interp.New([]float64{0, 60, life - 60, life}, []float64{0, 0.8, 0.8, 0}, interp.Clamped(nil))
	if err != nil {
		return nil, err
	}

	s := &OrbitParticles{
		cfg:      cfg,
		video:    ctx.Video,
		opacity:  opacity,
		rotation: interp.MustNew([]float64{0, life}, []float64{0, 360}, interp.Clamped(nil)),
		scale:    scale,
	}
	n := float64(cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		key := cfg.Seed + "-" + strconv.Itoa(i)
		fi := float64(i)
		s.ps = append(s.ps, orbiter{
			angle:  fi/n*2*math.Pi + random.Range(key+"-angle", -0.5, 0.5)*2*math.Pi/n,
			radius: cfg.Radius * (1 + cfg.Jitter*random.Range(key+"-radius", -1, 1)),
			speed:  0.5 + math.Sin(fi)*0.3,
			size:   3 + math.Sin(fi*0.5)*2,
			color:  cfg.Colors[i%len(cfg.Colors)],
		})
	}
	return s, nil
}

func (o *OrbitParticles) Evaluate(frame int) render.Node {
	cx, cy := o.video.Center()
	children := make([]render.Node, 0, len(o.ps))
	for i, p := range o.ps {
		pf := max(0, frame-i*o.cfg.Stagger)
		f := float64(pf)

		angle := p.angle
		if o.cfg.OrbitFrames > 0 {
			angle += 2 * math.Pi * f * p.speed / float64(o.cfg.OrbitFrames)
		}
		x := cx + math.Cos(angle)*p.radius + math.Sin(f*0.01)*100
		y := cy + math.Sin(angle)*p.radius + math.Cos(f*0.015)*80

		dot := circle(render.At(x, y).
			WithID("particle-"+strconv.Itoa(i)).
			WithOpacity(o.opacity.At(f)).
			WithScale(o.scale.At(pf)).
			WithRotation(o.rotation.At(f)),
			p.size, p.color)
		dot.Shadow = &render.Shadow{Color: p.color.WithAlpha(0x60 / 255.0), Blur: p.size * 3}
		children = append(children, dot)
	}
	return render.Stack("orbit-particles", children...)
}
