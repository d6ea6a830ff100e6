package scene

import (
	"math"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
)

func init() {
	Register("typewriter", NewTypewriter)
}

// TypewriterConfig configures a typewriter scene.
type TypewriterConfig struct {
	Text   string      `yaml:"text"`
	Font   assets.Ref  `yaml:"font"`
	Size   float64     `yaml:"size"`
	Color  paint.Color `yaml:"color"`
	Delay  int         `yaml:"delay"`
	Speed  int         `yaml:"speed"` // frames per character
	Cursor bool        `yaml:"cursor"`
	// BlinkFrames is the length of one cursor on/off phase once typing is
	// done. Zero means half a second.
	BlinkFrames int     `yaml:"blinkFrames"`
	Y           float64 `yaml:"y"`
}

// DefaultTypewriter returns the typewriter defaults.
func DefaultTypewriter() TypewriterConfig {
	return TypewriterConfig{
		Size:   64,
		Color:  paint.White,
		Speed:  3,
		Cursor: true,
		Y:      0.5,
	}
}

// Typewriter reveals text one character at a time.
type Typewriter struct {
	cfg   TypewriterConfig
	face  typeface
	runes []rune
	left  float64
	y     float64
	// offsets[i] is the advance of the first i runes.
	offsets []float64
}

// NewTypewriter is the factory for "typewriter".
func NewTypewriter(ctx Context, params Params) (Scene, error) {
	const op = "scene.typewriter"
	cfg := DefaultTypewriter()
	if err := params.Decode(op, &cfg); err != nil {
		return nil, err
	}
	if cfg.Text == "" {
		return nil, errs.Configf(op, "text", errs.ErrInvalid, "empty")
	}
	if err := positive(op, "size", cfg.Size); err != nil {
		return nil, err
	}
	if err := positive(op, "speed", float64(cfg.Speed)); err != nil {
		return nil, err
	}
	if err := nonNegative(op, "delay", cfg.Delay); err != nil {
		return nil, err
	}
	if err := nonNegative(op, "blinkFrames", cfg.BlinkFrames); err != nil {
		return nil, err
	}
	if cfg.BlinkFrames == 0 {
		cfg.BlinkFrames = max(1, int(math.Round(ctx.Video.FPS/2)))
	}
	face, err := loadTypeface(ctx, cfg.Font)
	if err != nil {
		return nil, err
	}

	runes := []rune(cfg.Text)
	offsets := make([]float64, len(runes)+1)
	for i := range runes {
		offsets[i+1] = face.font.Measure(string(runes[:i+1]), cfg.Size)
	}
	cx, _ := ctx.Video.Center()
	return &Typewriter{
		cfg:     cfg,
		face:    face,
		runes:   runes,
		offsets: offsets,
		// Anchor on the full line so the text does not drift while typing.
		left: cx - offsets[len(runes)]/2,
		y:    face.baseline(cfg.Size, cfg.Y*float64(ctx.Video.Height)),
	}, nil
}

// Visible returns how many characters are shown at frame.
func (t *Typewriter) Visible(frame int) int {
	n := floorDiv(frame-t.cfg.Delay, t.cfg.Speed)
	return min(max(0, n), len(t.runes))
}

func (t *Typewriter) Evaluate(frame int) render.Node {
	n := t.Visible(frame)
	line := t.face.text(render.At(t.left, t.y).WithID("text"),
		string(t.runes[:n]), t.cfg.Size, 700, t.cfg.Color, render.AlignLeft)
	if !t.cfg.Cursor {
		return render.Stack("typewriter", line)
	}

	cursor := t.face.text(render.At(t.left+t.offsets[n], t.y).WithID("cursor").WithOpacity(t.cursorOpacity(frame, n)),
		"|", t.cfg.Size, 700, t.cfg.Color, render.AlignLeft)
	return render.Stack("typewriter", line, cursor)
}

// cursorOpacity keeps the cursor solid while characters are still being
// typed and blinks it afterwards.
func (t *Typewriter) cursorOpacity(frame, visible int) float64 {
	if frame < t.cfg.Delay {
		return 0
	}
	if visible < len(t.runes) {
		return 1
	}
	done := t.cfg.Delay + len(t.runes)*t.cfg.Speed
	if (frame-done)/t.cfg.BlinkFrames%2 == 0 {
		return 1
	}
	return 0
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
