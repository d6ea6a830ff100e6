package scene

import (
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/spring"
)

func init() {
	Register("cta", NewCTA)
}

// CTAPalette holds the call-to-action colors.
type CTAPalette struct {
	Background paint.Color `yaml:"background"`
	Primary    paint.Color `yaml:"primary"`
	Secondary  paint.Color `yaml:"secondary"`
	Accent     paint.Color `yaml:"accent"`
	Text       paint.Color `yaml:"text"`
}

// CTAConfig configures a cta scene.
type CTAConfig struct {
	Headline string     `yaml:"headline"`
	Subline  string     `yaml:"subline"`
	Button   string     `yaml:"button"`
	URL      string     `yaml:"url"`
	Note     string     `yaml:"note"`
	Font     assets.Ref `yaml:"font"`
	Colors   CTAPalette `yaml:"colors"`
	// QR draws a QR code for QRContent, or for URL when QRContent is empty.
	QR             bool          `yaml:"qr"`
	QRContent      string        `yaml:"qrContent"`
	QRSize         float64       `yaml:"qrSize"`
	Particles      int           `yaml:"particles"`
	ParticleDelay  int           `yaml:"particleDelay"`
	PulseFrames    int           `yaml:"pulseFrames"`
	Spring         spring.Config `yaml:"spring"`
	ParticleSpring spring.Config `yaml:"particleSpring"`
}

// DefaultCTA returns the cta defaults.
func DefaultCTA() CTAConfig {
	return CTAConfig{
		Headline: "CloudSync Pro",
		Subline:  "Starting at $9.99/month",
		Button:   "Start Free Trial",
		URL:      "www.cloudsyncpro.com",
		Note:     "Try it free for 30 days. No credit card required.",
		Colors: CTAPalette{
			Background: paint.MustParse("#0A1628"),
			Primary:    paint.MustParse("#00A8FF"),
			Secondary:  paint.MustParse("#6C5CE7"),
			Accent:     paint.MustParse("#00FFF2"),
			Text:       paint.White,
		},
		QRSize:         160,
		Particles:      20,
		ParticleDelay:  10,
		PulseFrames:    150,
		Spring:         spring.Config{Damping: 20, Stiffness: 100},
		ParticleSpring: spring.Config{Damping: 25, Stiffness: 80},
	}
}

// CTA is the closing call to action: a headline, a pulsing button and a
// field of particles that light up one after another.
type CTA struct {
	cfg      CTAConfig
	video    VideoConfig
	face     typeface
	progress *spring.Spring
	particle *spring.Spring
	pulse    *interp.Curve
	qr       *render.Path
}

// NewCTA is the factory for "cta".
func NewCTA(ctx Context, params Params) (Scene, error) {
	const op = "scene.cta"
	cfg := DefaultCTA()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if cfg.Headline == "" {
		return nil, errs.Configf(op, "headline", errs.ErrInvalid, "empty")
	}
	if err := nonNegative(op, "particles", cfg.Particles); err != nil {
		return nil, err
	}
	if err := nonNegative(op, "particleDelay", cfg.ParticleDelay); err != nil {
		return nil, err
	}
	if err := positive(op, "pulseFrames", float64(cfg.PulseFrames)); err != nil {
		return nil, err
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}
	progress, err := newSpring(ctx, cfg.Spring)
	if err != nil {
		return nil, err
	}
	particle, err := newSpring(ctx, cfg.ParticleSpring)
	if err != nil {
		return nil, err
	}

	s := &CTA{
		cfg:      cfg,
		video:    ctx.Video,
		face:     face,
		progress: progress,
		particle: particle,
		pulse: interp.MustNew([]float64{0, float64(cfg.PulseFrames)}, []float64{1, 1.1},
			interp.Options{ExtrapolateRight: interp.Clamp}),
	}
	if cfg.QR {
		content := cfg.QRContent
		if content == "" {
			content = cfg.URL
		}
		if content == "" {
			return nil, errs.Configf(op, "qrContent", errs.ErrInvalid, "nothing to encode")
		}
		if err := positive(op, "qrSize", cfg.QRSize); err != nil {
			return nil, err
		}
		path, err := QRPath(content, cfg.QRSize, cfg.Colors.Text)
		if err != nil {
			return nil, errs.Config(op, "qrContent", err)
		}
		s.qr = &path
	}
	return s, nil
}

func (c *CTA) Evaluate(frame int) render.Node {
	w, h := float64(c.video.Width), float64(c.video.Height)
	cx, cy := c.video.Center()
	pal := c.cfg.Colors
	p := c.progress.At(frame)

	children := []render.Node{render.Box{
		Common: render.At(cx, cy).WithID("background"),
		Width:  w,
		Height: h,
		Fill:   pal.Background,
		Gradient: &render.Gradient{Angle: 135, Stops: []render.Stop{
			{Offset: 0, Color: pal.Background},
			{Offset: 1, Color: pal.Secondary.WithAlpha(0.125)},
		}},
	}}

	for i := 0; i < c.cfg.Particles; i++ {
		pp := c.particle.At(max(0, frame-i*c.cfg.ParticleDelay))
		fx := 0.1 + float64(i)*0.04
		fy := 0.1 + float64(i)*0.03
		dot := circle(render.At(w*fx, h*fy).WithID("particle-"+strconv.Itoa(i)).WithOpacity(clampUnit(pp*0.6)), 6, pal.Accent)
		dot.Shadow = &render.Shadow{Color: pal.Accent, Blur: 15}
		children = append(children, dot)
	}

	headline := c.face.text(render.At(cx, h*0.2+64).WithID("headline").WithOpacity(clampUnit(p)),
		c.cfg.Headline, 64, 700, pal.Text, render.AlignCenter)
	headline.Shadow = &render.Shadow{Color: pal.Primary, Blur: 30}
	children = append(children, headline)
	if c.cfg.Subline != "" {
		children = append(children, c.face.text(render.At(cx, h*0.2+64+20+32).WithID("subline").WithOpacity(clampUnit(p)),
			c.cfg.Subline, 32, 400, pal.Accent, render.AlignCenter))
	}

	if c.cfg.Button != "" {
		label := c.face.text(render.At(0, c.face.baseline(24, 0)), c.cfg.Button, 24, 700, pal.Background, render.AlignCenter)
		children = append(children, render.Group{
			Common: render.At(cx, cy).WithID("button").WithOpacity(clampUnit(p)).WithScale(p * c.pulse.Frame(frame)),
			Children: []render.Node{
				render.Box{
					Common: render.At(0, 0),
					Width:  label.Width + 120,
					Height: 24*1.2 + 40,
					Fill:   pal.Accent,
					Radius: 50,
					Stroke: &render.Stroke{Color: paint.White, Width: 3},
					Shadow: &render.Shadow{Color: pal.Accent.WithAlpha(0.25), Blur: 40, OffsetY: 20},
				},
				label,
			},
		})
	}

	if c.cfg.URL != "" {
		url := c.face.text(render.At(cx, h*0.8-40).WithID("url").WithOpacity(clampUnit(p)),
			c.cfg.URL, 24, 400, pal.Text, render.AlignCenter)
		url.Shadow = &render.Shadow{Color: paint.Black.WithAlpha(0.5), Blur: 4, OffsetX: 2, OffsetY: 2}
		children = append(children, url)
	}
	if c.cfg.Note != "" {
		children = append(children, c.face.text(render.At(cx, h*0.8-10).WithID("note").WithOpacity(clampUnit(p)),
			c.cfg.Note, 16, 400, pal.Accent, render.AlignCenter))
	}

	if c.qr != nil {
		qr := *c.qr
		margin := 40 + c.cfg.QRSize/2
		qr.Common = render.At(w-margin, h-margin).WithID("qr").WithOpacity(clampUnit(p))
		children = append(children, qr)
	}
	return render.Stack("cta", children...)
}

// QRPath encodes content as a QR code and returns it as a path of size x
// size pixels. Each horizontal run of dark modules becomes one rectangle.
func QRPath(content string, size float64, fill paint.Color) (render.Path, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return render.Path{}, err
	}
	bitmap := trimQuietZone(q.Bitmap())
	cell := size / float64(len(bitmap))

	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	var d strings.Builder
	for y, row := range bitmap {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			run := float64(x-start) * cell
			d.WriteString("M" + num(float64(start)*cell) + " " + num(float64(y)*cell))
			d.WriteString("h" + num(run) + "v" + num(cell) + "h" + num(-run) + "z")
		}
	}
	return render.Path{
		Common: render.At(0, 0),
		D:      d.String(),
		Width:  size,
		Height: size,
		Fill:   fill,
	}, nil
}

// trimQuietZone drops the light border around the symbol so the path
// covers exactly the modules.
func trimQuietZone(bitmap [][]bool) [][]bool {
	border := len(bitmap)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				border = min(border, x, y)
			}
		}
	}
	n := len(bitmap) - 2*border
	if n <= 0 {
		return bitmap
	}
	out := make([][]bool, n)
	for i := range out {
		out[i] = bitmap[border+i][border : border+n]
	}
	return out
}
