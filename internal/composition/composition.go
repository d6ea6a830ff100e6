package composition

import (
	"fmt"
	"math"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/scene"
	"github.com/ivlev/scene2frames/internal/timeline"
)

// Composition is a built, validated composition. It is read-only and safe
// for concurrent use: Frame may be called from many goroutines.
type Composition struct {
	ID         string
	Video      scene.VideoConfig
	Background paint.Color
	Assets     *assets.Set
	Soundtrack assets.Ref

	timeline *timeline.Timeline[scene.Scene]
	kinds    []string
}

// Build resolves the spec's assets, derives its duration and constructs
// every scene. A nil resolver resolves paths relative to the working
// directory.
func Build(spec Spec, resolver assets.Resolver) (*Composition, error) {
	const op = "composition.Build"
	if spec.ID == "" {
		return nil, errs.Configf(op, "id", errs.ErrInvalid, "empty")
	}
	if math.IsNaN(spec.FPS) || math.IsInf(spec.FPS, 0) {
		return nil, errs.Configf(op, "fps", errs.ErrNotFinite, "%v", spec.FPS)
	}
	if spec.FPS <= 0 {
		return nil, errs.Configf(op, "fps", errs.ErrNonPositive, "%v", spec.FPS)
	}
	if spec.Width <= 0 {
		return nil, errs.Configf(op, "width", errs.ErrNonPositive, "%d", spec.Width)
	}
	if spec.Height <= 0 {
		return nil, errs.Configf(op, "height", errs.ErrNonPositive, "%d", spec.Height)
	}
	if spec.DurationInFrames < 0 {
		return nil, errs.Configf(op, "durationInFrames", errs.ErrNegative, "%d", spec.DurationInFrames)
	}
	if len(spec.Sequences) > 0 && len(spec.Series) > 0 {
		return nil, errs.Configf(op, "series", errs.ErrInvalid, "use either sequences or series, not both")
	}

	if resolver == nil {
		resolver = assets.Dir("")
	}
	set, err := resolver.Resolve(spec.Assets)
	if err != nil {
		return nil, fmt.Errorf("composition %s: %w", spec.ID, err)
	}

	c := &Composition{
		ID:         spec.ID,
		Background: spec.Background,
		Assets:     set,
		Soundtrack: spec.Soundtrack,
		Video: scene.VideoConfig{
			FPS:              spec.FPS,
			Width:            spec.Width,
			Height:           spec.Height,
			DurationInFrames: spec.DurationInFrames,
		},
	}
	if spec.Soundtrack != "" {
		track, err := set.Audio(spec.Soundtrack)
		if err != nil {
			return nil, fmt.Errorf("composition %s: %w", spec.ID, err)
		}
		if c.Video.DurationInFrames == 0 {
			c.Video.DurationInFrames = track.Frames(spec.FPS)
		}
	}
	if c.Video.DurationInFrames <= 0 {
		return nil, errs.Configf(op, "durationInFrames", errs.ErrNonPositive,
			"%d and no soundtrack to derive it from", c.Video.DurationInFrames)
	}

	entries, err := c.entries(spec)
	if err != nil {
		return nil, fmt.Errorf("composition %s: %w", spec.ID, err)
	}
	c.timeline, err = timeline.New(entries)
	if err != nil {
		return nil, fmt.Errorf("composition %s: %w", spec.ID, err)
	}
	return c, nil
}

// placement is a sequence or series item after layout.
type placement struct {
	name     string
	from     int
	duration int
	kind     string
	params   scene.Params
	loop     *timeline.Loop
}

func (c *Composition) entries(spec Spec) ([]timeline.Entry[scene.Scene], error) {
	var items []placement
	for i := range spec.Sequences {
		s := &spec.Sequences[i]
		items = append(items, placement{
			name:     s.Name,
			from:     s.From,
			duration: loopDuration(s.DurationInFrames, s.Loop),
			kind:     s.Scene,
			params:   scene.ParamsOf(&s.Params),
			loop:     s.Loop,
		})
	}

	if len(spec.Series) > 0 {
		series := timeline.NewSeries[placement](0)
		for i := range spec.Series {
			s := &spec.Series[i]
			p := placement{name: s.Name, kind: s.Scene, params: scene.ParamsOf(&s.Params), loop: s.Loop}
			series.Add(s.Name, loopDuration(s.DurationInFrames, s.Loop), s.Offset, p)
		}
		placed, err := series.Entries()
		if err != nil {
			return nil, err
		}
		for _, e := range placed {
			p := e.Content
			p.from, p.duration = e.From, e.Duration
			items = append(items, p)
		}
	}

	entries := make([]timeline.Entry[scene.Scene], 0, len(items))
	for i, p := range items {
		if p.name == "" {
			return nil, errs.Configf("composition.Build", "name", errs.ErrInvalid, "sequence %d has no name", i)
		}
		window := p.duration
		if window == 0 {
			window = max(0, c.Video.DurationInFrames-p.from)
		}
		if p.loop != nil {
			if err := p.loop.Validate(); err != nil {
				return nil, fmt.Errorf("sequence %q: %w", p.name, err)
			}
			window = p.loop.Duration
		}

		ctx := scene.Context{Video: c.Video, Assets: c.Assets}
		ctx.Video.DurationInFrames = window
		s, err := scene.New(p.kind, ctx, p.params)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", p.name, err)
		}
		if p.loop != nil {
			s = looped{scene: s, loop: *p.loop}
		}
		entries = append(entries, timeline.Entry[scene.Scene]{
			Name:     p.name,
			From:     p.from,
			Duration: p.duration,
			Content:  s,
		})
		c.kinds = append(c.kinds, p.kind)
	}
	return entries, nil
}

// loopDuration lets a finite loop define the length of its sequence.
func loopDuration(duration int, loop *timeline.Loop) int {
	if duration == 0 && loop != nil {
		return loop.Total()
	}
	return duration
}

// looped replays a scene's first loop.Duration frames.
type looped struct {
	scene scene.Scene
	loop  timeline.Loop
}

func (l looped) Evaluate(frame int) render.Node {
	local, _, ok := l.loop.Local(frame)
	if !ok {
		if frame < 0 {
			return l.scene.Evaluate(frame)
		}
		return render.Stack("")
	}
	return l.scene.Evaluate(local)
}

// DurationInFrames is the number of frames in the composition.
func (c *Composition) DurationInFrames() int {
	return c.Video.DurationInFrames
}

// Frame evaluates one frame: a background box followed by every active
// scene, back to front in declaration order. Frames where nothing is
// active render the background alone.
func (c *Composition) Frame(frame int) (render.Frame, error) {
	if frame < 0 || frame >= c.Video.DurationInFrames {
		return render.Frame{}, fmt.Errorf("composition %s: %w: %d not in [0, %d)",
			c.ID, errs.ErrFrameOutOfRange, frame, c.Video.DurationInFrames)
	}

	active := c.timeline.Active(frame)
	w, h := float64(c.Video.Width), float64(c.Video.Height)
	children := make([]render.Node, 0, len(active)+1)
	children = append(children, render.Box{
		Common: render.At(w/2, h/2).WithID("background"),
		Width:  w,
		Height: h,
		Fill:   c.Background,
	})
	for _, a := range active {
		children = append(children, render.Stack(a.Entry.Name, a.Entry.Content.Evaluate(a.LocalFrame)))
	}

	return render.Frame{
		Composition: c.ID,
		Index:       frame,
		Width:       c.Video.Width,
		Height:      c.Video.Height,
		FPS:         c.Video.FPS,
		Root:        render.Stack("root", children...),
	}, nil
}

// Active names the sequences visible at frame.
func (c *Composition) Active(frame int) []string {
	var names []string
	for _, a := range c.timeline.Active(frame) {
		names = append(names, a.Entry.Name)
	}
	return names
}

// SequenceInfo summarizes one placed sequence.
type SequenceInfo struct {
	Name     string `yaml:"name" json:"name"`
	Scene    string `yaml:"scene" json:"scene"`
	From     int    `yaml:"from" json:"from"`
	Duration int    `yaml:"durationInFrames" json:"durationInFrames"`
}

// Sequences lists the placed sequences in declaration order.
func (c *Composition) Sequences() []SequenceInfo {
	entries := c.timeline.Entries()
	out := make([]SequenceInfo, len(entries))
	for i, e := range entries {
		out[i] = SequenceInfo{Name: e.Name, Scene: c.kinds[i], From: e.From, Duration: e.Duration}
	}
	return out
}

// Warnings reports placements that are legal but probably unintended:
// sequences that never become visible and frames where nothing is shown.
func (c *Composition) Warnings() []string {
	var out []string
	end := c.Video.DurationInFrames
	for _, e := range c.timeline.Entries() {
		if e.From >= end {
			out = append(out, fmt.Sprintf("sequence %q starts at frame %d, after the composition ends at %d", e.Name, e.From, end))
		} else if !e.Unbounded() && e.End() > end {
			out = append(out, fmt.Sprintf("sequence %q is cut at frame %d (ends at %d)", e.Name, end, e.End()))
		}
	}

	gapStart := -1
	for f := 0; f <= end; f++ {
		empty := f < end && len(c.timeline.Active(f)) == 0
		switch {
		case empty && gapStart < 0:
			gapStart = f
		case !empty && gapStart >= 0:
			out = append(out, fmt.Sprintf("frames [%d, %d) show only the background", gapStart, f))
			gapStart = -1
		}
	}
	return out
}
