package scene

import (
	"strconv"
	"unicode"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/easing"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/interp"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/random"
	"github.com/ivlev/scene2frames/internal/render"
)

func init() {
	Register("shuffle-reveal", NewShuffleReveal)
}

// Intro and outro styles for shuffle-reveal.
const (
	IntroAppear            = "appear"
	IntroSlideLeftToCenter = "slide-left-to-center"

	OutroFade         = "fade"
	OutroSlideUpDown  = "slide-up-down"
	OutroSlideToRight = "slide-to-right"
)

// ShuffleRevealConfig configures a shuffle-reveal scene.
type ShuffleRevealConfig struct {
	Text        string      `yaml:"text"`
	Font        assets.Ref  `yaml:"font"`
	Size        float64     `yaml:"size"`
	Color       paint.Color `yaml:"color"`
	StrokeWidth float64     `yaml:"strokeWidth"`
	Intro       string      `yaml:"intro"`
	Outro       string      `yaml:"outro"`
	IntroFrames int         `yaml:"introFrames"`
	HoldFrames  int         `yaml:"holdFrames"`
	OutroFrames int         `yaml:"outroFrames"`
	// RevealSpeed is the number of frames between two revealed characters.
	RevealSpeed int `yaml:"revealSpeed"`
	// Seed drives the reveal order. Empty means Text.
	Seed string `yaml:"seed"`
}

// DefaultShuffleReveal returns the shuffle-reveal defaults.
func DefaultShuffleReveal() ShuffleRevealConfig {
	return ShuffleRevealConfig{
		Size:        250,
		Color:       paint.MustParse("hotpink"),
		StrokeWidth: 3,
		Intro:       IntroAppear,
		Outro:       OutroFade,
		IntroFrames: 20,
		HoldFrames:  30,
		OutroFrames: 20,
		RevealSpeed: 2,
	}
}

// outlineLength is the dash length used to draw the outline on.
const outlineLength = 1000

type revealGlyph struct {
	index   int // rune index in the text
	content string
	x       float64
	rank    int // position in the shuffled reveal order
}

type revealLine struct {
	y      float64
	glyphs []revealGlyph
}

// ShuffleReveal outlines a title, fills its characters in a seeded random
// order and then moves it off screen.
type ShuffleReveal struct {
	cfg   ShuffleRevealConfig
	video VideoConfig
	face  typeface
	lines []revealLine

	intro, outro *interp.Curve
	slideIn      *interp.Curve
	slideOut     easing.Func
}

// NewShuffleReveal is the factory for "shuffle-reveal".
func NewShuffleReveal(ctx Context, params Params) (Scene, error) {
	const op = "scene.shuffle-reveal"
	cfg := DefaultShuffleReveal()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if cfg.Text == "" {
		return nil, errs.Configf(op, "text", errs.ErrInvalid, "empty")
	}
	switch cfg.Intro {
	case IntroAppear, IntroSlideLeftToCenter:
	default:
		return nil, errs.Configf(op, "intro", errs.ErrUnknown, "%q", cfg.Intro)
	}
	switch cfg.Outro {
	case OutroFade, OutroSlideUpDown, OutroSlideToRight:
	default:
		return nil, errs.Configf(op, "outro", errs.ErrUnknown, "%q", cfg.Outro)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"size", cfg.Size},
		{"introFrames", float64(cfg.IntroFrames)},
		{"holdFrames", float64(cfg.HoldFrames)},
		{"outroFrames", float64(cfg.OutroFrames)},
		{"revealSpeed", float64(cfg.RevealSpeed)},
	} {
		if err := positive(op, f.name, f.v); err != nil {
			return nil, err
		}
	}
	if cfg.StrokeWidth < 0 {
		return nil, errs.Configf(op, "strokeWidth", errs.ErrNegative, "%v", cfg.StrokeWidth)
	}
	if cfg.Seed == "" {
		cfg.Seed = cfg.Text
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}

	outroStart := float64(cfg.IntroFrames + cfg.HoldFrames)
	s := &ShuffleReveal{
		cfg:   cfg,
		video: ctx.Video,
		face:  face,
		intro: interp.Fade(0, float64(cfg.IntroFrames)),
		outro: interp.Fade(outroStart, outroStart+float64(cfg.OutroFrames)),
		slideIn: interp.MustNew([]float64{0, 1}, []float64{-float64(ctx.Video.Width), 0},
			interp.Options{Easing: easing.Out(easing.Back(1.2))}),
		slideOut: easing.In(easing.Cubic),
	}
	s.layout()
	return s, nil
}

// layout splits the text into one line per word and assigns each character
// its reveal rank. Ranks index the whole text, spaces included.
func (s *ShuffleReveal) layout() {
	runes := []rune(s.cfg.Text)
	order := random.Shuffle(len(runes), s.cfg.Seed)
	rank := make([]int, len(runes))
	for pos, idx := range order {
		rank[idx] = pos
	}

	type word struct{ start, end int }
	var words []word
	start := -1
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r) && start >= 0:
			words = append(words, word{start, i})
			start = -1
		case !unicode.IsSpace(r) && start < 0:
			start = i
		}
	}
	if start >= 0 {
		words = append(words, word{start, len(runes)})
	}

	cx, cy := s.video.Center()
	size := s.cfg.Size
	lead := 1.2 * size
	top := cy + 0.3*size - float64(len(words)-1)*lead/2
	for li, w := range words {
		text := string(runes[w.start:w.end])
		left := cx - s.face.font.Measure(text, size)/2
		line := revealLine{y: top + float64(li)*lead}
		for i := w.start; i < w.end; i++ {
			line.glyphs = append(line.glyphs, revealGlyph{
				index:   i,
				content: string(runes[i]),
				x:       left + s.face.font.Measure(string(runes[w.start:i]), size),
				rank:    rank[i],
			})
		}
		s.lines = append(s.lines, line)
	}
}

// Revealed returns how many characters are filled at frame.
func (s *ShuffleReveal) Revealed(frame int) int {
	hold := frame - s.cfg.IntroFrames
	if hold < 0 || hold >= s.cfg.HoldFrames {
		return 0
	}
	return hold / s.cfg.RevealSpeed
}

func (s *ShuffleReveal) Evaluate(frame int) render.Node {
	cx, cy := s.video.Center()
	var (
		opacity, scale = 1.0, 1.0
		dx, spread     float64
		dashOffset     float64
	)

	switch {
	case frame < s.cfg.IntroFrames:
		p := s.intro.Frame(frame)
		dashOffset = outlineLength * (1 - p)
		opacity = p
		if s.cfg.Intro == IntroAppear {
			scale = 0.8 + 0.2*p
		} else {
			dx = s.slideIn.At(p)
		}
	case frame >= s.cfg.IntroFrames+s.cfg.HoldFrames:
		p := s.outro.Frame(frame)
		opacity = 1 - p
		switch s.cfg.Outro {
		case OutroSlideUpDown:
			spread = 200 * s.slideOut(p)
		case OutroSlideToRight:
			dx = float64(s.video.Width) * s.slideOut(p)
		}
	}

	revealed := s.Revealed(frame)
	stroke := &render.Stroke{Color: s.cfg.Color, Width: s.cfg.StrokeWidth, Dash: outlineLength, DashOffset: dashOffset}

	lines := make([]render.Node, 0, len(s.lines))
	for li, line := range s.lines {
		// The first line leaves upwards, the rest downwards.
		dy := spread
		if li == 0 {
			dy = -spread
		}
		glyphs := make([]render.Node, 0, len(line.glyphs))
		for _, g := range line.glyphs {
			fill := 0.0
			if g.rank < revealed {
				fill = 1
			}
			t := s.face.text(render.At(g.x-cx, line.y-cy).WithID("char-"+strconv.Itoa(g.index)), g.content, s.cfg.Size, 900,
				s.cfg.Color.WithAlpha(fill), render.AlignLeft)
			t.Stroke = stroke
			glyphs = append(glyphs, t)
		}
		lines = append(lines, render.Group{
			Common:   render.At(0, dy).WithID("line-" + strconv.Itoa(li)),
			Children: glyphs,
		})
	}

	return render.Group{
		Common:   render.At(cx+dx, cy).WithID("shuffle-reveal").WithOpacity(opacity).WithScale(scale),
		Children: lines,
	}
}
