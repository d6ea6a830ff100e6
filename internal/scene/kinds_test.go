package scene

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/random"
	"github.com/ivlev/scene2frames/internal/render"
)

func TestTitle(t *testing.T) {
	s := build(t, "title", map[string]any{"text": "Hello", "fadeFrames": 20})

	tests := []struct {
		frame   int
		opacity float64
	}{
		{-5, 0},
		{0, 0},
		{10, 0.5},
		{20, 1},
		{200, 1},
	}
	for _, tt := range tests {
		n := s.Evaluate(tt.frame).(render.Text)
		assert.InDelta(t, tt.opacity, n.Opacity, 1e-12, "frame %d", tt.frame)
		assert.Equal(t, "Hello", n.Content)
		assert.Equal(t, render.AlignCenter, n.Align)
		assert.Greater(t, n.Width, 0.0)
	}

	assert.Equal(t, 0.0, s.Evaluate(0).(render.Text).Transform.Scale)
	assert.InDelta(t, 1, s.Evaluate(300).(render.Text).Transform.Scale, 1e-3)
	assert.Equal(t, 960.0, s.Evaluate(0).(render.Text).Transform.X)
}

func TestBrandLogo(t *testing.T) {
	s := build(t, "brand-logo", nil)

	logo := func(frame int) render.Common {
		return render.Placement(find(t, s.Evaluate(frame), "logo"))
	}
	assert.Equal(t, 0.0, logo(0).Opacity)
	assert.Equal(t, 540.0+100, logo(0).Transform.Y)
	assert.Equal(t, 0.0, logo(0).Transform.Scale)
	assert.Equal(t, 540.0, logo(45).Transform.Y)
	assert.Equal(t, 1.0, logo(30).Opacity)
	assert.InDelta(t, 0.875, logo(15).Opacity, 1e-12)

	// Past half way the back easing overshoots above the resting place.
	assert.Less(t, logo(30).Transform.Y, 540.0)

	gradient := func(frame int) []render.Stop {
		return find(t, s.Evaluate(frame), "background").(render.Box).Gradient.Stops
	}
	assert.Equal(t, paint.RGB(255, 0, 100), gradient(0)[0].Color)
	assert.Equal(t, paint.RGB(255, 0, 100), gradient(60)[0].Color)
	assert.Equal(t, paint.RGB(255, 128, 100), gradient(90)[0].Color)
	assert.Equal(t, paint.RGB(100, 128, 255), gradient(90)[1].Color)
	assert.Equal(t, paint.RGB(100, 255, 255), gradient(500)[1].Color)

	name := find(t, s.Evaluate(100), "name").(render.Text)
	assert.Equal(t, "BRAND", name.Content)
	require.NotNil(t, name.Shadow)

	mark := find(t, s.Evaluate(100), "mark").(render.Group)
	require.Len(t, mark.Children, 2)
	disc := mark.Children[0].(render.Box)
	assert.Equal(t, 200.0, disc.Width)
	assert.Equal(t, 100.0, disc.Radius)
	assert.Equal(t, "B", mark.Children[1].(render.Text).Content)

	withoutBackground := build(t, "brand-logo", map[string]any{"background": false})
	_, ok := render.Find(withoutBackground.Evaluate(90), "background")
	assert.False(t, ok)
}

func TestBrandLogoParticlesFadeIn(t *testing.T) {
	s := build(t, "brand-logo", nil)
	root := s.Evaluate(45).(render.Group)
	last := root.Children[len(root.Children)-2:]

	first := last[0].(render.Box)
	assert.InDelta(t, 0.5, first.Opacity, 1e-12)
	assert.InDelta(t, 192, first.Transform.X, 1e-9)
	assert.Equal(t, 10.0, first.Width)

	second := last[1].(render.Box)
	assert.InDelta(t, 5.0/30, second.Opacity, 1e-12)
}

func TestTypewriterVisible(t *testing.T) {
	s := build(t, "typewriter", map[string]any{"text": "Hello", "delay": 10, "speed": 3}).(*Typewriter)

	tests := []struct {
		frame, want int
	}{
		{-100, 0},
		{9, 0},
		{10, 0},
		{12, 0},
		{13, 1},
		{24, 4},
		{25, 5},
		{1000, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Visible(tt.frame), "frame %d", tt.frame)
	}

	line := find(t, s.Evaluate(16), "text").(render.Text)
	assert.Equal(t, "He", line.Content)
	assert.Equal(t, render.AlignLeft, line.Align)

	// The line is laid out for the full text, so its anchor never moves.
	assert.Equal(t, line.Transform.X, find(t, s.Evaluate(25), "text").(render.Text).Transform.X)
}

func TestTypewriterCursor(t *testing.T) {
	s := build(t, "typewriter", map[string]any{"text": "Hello", "delay": 10, "speed": 3})

	cursor := func(frame int) render.Text {
		return find(t, s.Evaluate(frame), "cursor").(render.Text)
	}
	assert.Equal(t, 0.0, cursor(5).Opacity)
	assert.Equal(t, 1.0, cursor(12).Opacity)
	assert.Equal(t, 1.0, cursor(24).Opacity)

	// Typing ends at frame 25; the cursor then blinks every 15 frames.
	assert.Equal(t, 1.0, cursor(25).Opacity)
	assert.Equal(t, 0.0, cursor(40).Opacity)
	assert.Equal(t, 1.0, cursor(55).Opacity)

	line := find(t, s.Evaluate(16), "text").(render.Text)
	assert.InDelta(t, line.Transform.X+line.Width, cursor(16).Transform.X, 1e-9)

	plain := build(t, "typewriter", map[string]any{"text": "Hello", "cursor": false})
	_, ok := render.Find(plain.Evaluate(10), "cursor")
	assert.False(t, ok)
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 3, 2},
		{6, 3, 2},
		{-1, 3, -1},
		{-3, 3, -1},
		{-4, 3, -2},
		{0, 3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "%d/%d", tt.a, tt.b)
	}
}

func TestCounter(t *testing.T) {
	s := build(t, "counter", map[string]any{"end": 1234, "delay": 10, "duration": 60}).(*Counter)

	assert.Equal(t, 0.0, s.Value(-20))
	assert.Equal(t, 0.0, s.Value(10))
	assert.Equal(t, 617.0, s.Value(40))
	assert.Equal(t, 1234.0, s.Value(70))
	assert.Equal(t, 1234.0, s.Value(700))

	value := find(t, s.Evaluate(70), "value").(render.Text)
	assert.Equal(t, "1,234", value.Content)
	assert.Equal(t, paint.MustParse("#667eea"), value.Color)
	assert.Equal(t, 0.0, find(t, s.Evaluate(10), "value").(render.Text).Transform.Scale)
}

func TestCounterFormatting(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"grouping", map[string]any{"end": 1500000}, "1,500,000"},
		{"german", map[string]any{"end": 1234, "locale": "de"}, "1.234"},
		{"affixes", map[string]any{"end": 250, "prefix": "$", "suffix": "+"}, "$250+"},
		{"decimals", map[string]any{"end": 99.5, "decimals": 2}, "99.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := build(t, "counter", tt.params).(*Counter)
			assert.Equal(t, tt.want, s.Format(s.Value(1000)))
		})
	}
}

func TestCounterLabel(t *testing.T) {
	s := build(t, "counter", map[string]any{"end": 10, "label": "Happy users"})
	label := find(t, s.Evaluate(30), "label").(render.Text)
	assert.Equal(t, "Happy users", label.Content)
	assert.InDelta(t, 0.5, label.Opacity, 1e-12)
}

func TestShuffleRevealOrder(t *testing.T) {
	const text = "HELLO"
	s := build(t, "shuffle-reveal", map[string]any{"text": text}).(*ShuffleReveal)

	assert.Equal(t, 0, s.Revealed(19))
	assert.Equal(t, 0, s.Revealed(21))
	assert.Equal(t, 1, s.Revealed(22))
	assert.Equal(t, 14, s.Revealed(49))
	assert.Equal(t, 0, s.Revealed(50))

	order := random.Shuffle(len(text), text)
	tree := s.Evaluate(26)
	filled := map[int]bool{}
	for i := range text {
		g := find(t, tree, "char-"+strconv.Itoa(i)).(render.Text)
		if g.Color.A == 1 {
			filled[i] = true
		}
	}
	want := map[int]bool{}
	for _, idx := range order[:3] {
		want[idx] = true
	}
	assert.Equal(t, want, filled)

	// Characters are outlined only outside the hold phase.
	for _, frame := range []int{10, 60} {
		render.Walk(s.Evaluate(frame), func(n render.Node) bool {
			if txt, ok := n.(render.Text); ok {
				assert.Equal(t, 0.0, txt.Color.A)
			}
			return true
		})
	}
}

func TestShuffleRevealPhases(t *testing.T) {
	root := func(s Scene, frame int) render.Group {
		return s.Evaluate(frame).(render.Group)
	}

	appear := build(t, "shuffle-reveal", map[string]any{"text": "RECHEE MOTION"})
	assert.Equal(t, 0.0, root(appear, 0).Opacity)
	assert.Equal(t, 0.8, root(appear, 0).Transform.Scale)
	assert.InDelta(t, 0.5, root(appear, 10).Opacity, 1e-12)
	assert.Equal(t, 1.0, root(appear, 30).Opacity)
	assert.InDelta(t, 0.5, root(appear, 60).Opacity, 1e-12)
	assert.Equal(t, 0.0, root(appear, 70).Opacity)
	assert.Len(t, root(appear, 30).Children, 2)

	stroke := find(t, appear.Evaluate(0), "char-0").(render.Text).Stroke
	require.NotNil(t, stroke)
	assert.Equal(t, 1000.0, stroke.DashOffset)
	assert.Equal(t, 0.0, find(t, appear.Evaluate(30), "char-0").(render.Text).Stroke.DashOffset)

	slide := build(t, "shuffle-reveal", map[string]any{
		"text": "RECHEE MOTION", "intro": "slide-left-to-center", "outro": "slide-to-right",
	})
	assert.Equal(t, 960.0-1920, root(slide, 0).Transform.X)
	for frame, want := range map[int]float64{0: 0, 5: 0.25, 10: 0.5, 19: 0.95} {
		assert.InDelta(t, want, root(slide, frame).Opacity, 1e-12, "frame %d", frame)
	}
	assert.Equal(t, 1.0, root(slide, 0).Transform.Scale)
	assert.Equal(t, 960.0, root(slide, 30).Transform.X)
	assert.Equal(t, 960.0+1920, root(slide, 70).Transform.X)

	split := build(t, "shuffle-reveal", map[string]any{"text": "RECHEE MOTION", "outro": "slide-up-down"})
	lines := root(split, 70).Children
	assert.Equal(t, -200.0, render.Placement(lines[0]).Transform.Y)
	assert.Equal(t, 200.0, render.Placement(lines[1]).Transform.Y)
}

func TestBarChart(t *testing.T) {
	s := build(t, "bar-chart", map[string]any{
		"data": []map[string]any{
			{"label": "Q1", "value": 50},
			{"label": "Q2", "value": 100},
			{"label": "Q3", "value": 25},
		},
		"delay": 5,
	}).(*BarChart)

	assert.Equal(t, 0.0, s.Progress(0, 5))
	assert.Equal(t, 0.0, s.Progress(1, 15))
	assert.Greater(t, s.Progress(1, 16), 0.0)

	settled := s.Evaluate(600)
	heights := []float64{125, 250, 62.5}
	for i, want := range heights {
		id := "bar-" + strconv.Itoa(i)
		bar := find(t, settled, id).(render.Box)
		assert.InDelta(t, want, bar.Height, 1e-3, id)
		assert.Equal(t, 60.0, bar.Width)
		assert.Equal(t, DefaultBarChart().Colors[i], bar.Fill)
	}
	assert.Equal(t, "100", find(t, settled, "bar-1-value").(render.Text).Content)
	assert.Equal(t, "Q3", find(t, settled, "bar-2-label").(render.Text).Content)

	// Bars stand on a common base line, spaced by width plus gap.
	b0 := find(t, settled, "bar-0").(render.Box)
	b1 := find(t, settled, "bar-1").(render.Box)
	assert.Equal(t, 80.0, b1.Transform.X-b0.Transform.X)
	assert.InDelta(t, b0.Transform.Y+b0.Height/2, b1.Transform.Y+b1.Height/2, 1e-9)

	first := s.Evaluate(0)
	assert.Equal(t, 0.0, find(t, first, "bar-2").(render.Box).Height)
	assert.Equal(t, "0", find(t, first, "bar-2-value").(render.Text).Content)
}

func TestColorCycle(t *testing.T) {
	s := build(t, "color-cycle", nil).(*ColorCycle)

	assert.Equal(t, paint.MustParse("#ff6b6b"), s.ColorAt(-10))
	assert.Equal(t, paint.MustParse("#ff6b6b"), s.ColorAt(0))
	assert.Equal(t, paint.RGB(167, 156, 152), s.ColorAt(30))
	assert.Equal(t, paint.MustParse("#4ecdc4"), s.ColorAt(60))
	assert.Equal(t, paint.MustParse("#4ecdc4"), s.ColorAt(600))

	tree := s.Evaluate(60)
	assert.Equal(t, "#4ecdc4", find(t, tree, "caption").(render.Text).Content)
	assert.Equal(t, paint.MustParse("#4ecdc4"), find(t, tree, "background").(render.Box).Fill)
	assert.Equal(t, 0.0, find(t, s.Evaluate(0), "swatch").(render.Box).Transform.Scale)
}

func TestColorCycleLoop(t *testing.T) {
	red, teal := paint.MustParse("#ff6b6b"), paint.MustParse("#4ecdc4")

	forever := build(t, "color-cycle", map[string]any{"loop": true}).(*ColorCycle)
	assert.Equal(t, teal, forever.ColorAt(60))
	assert.Equal(t, red, forever.ColorAt(120))
	assert.Equal(t, teal, forever.ColorAt(180))
	assert.Equal(t, forever.ColorAt(35), forever.ColorAt(35+120*7))

	once := build(t, "color-cycle", map[string]any{"loop": true, "times": 1}).(*ColorCycle)
	assert.Equal(t, teal, once.ColorAt(60))
	assert.Equal(t, red, once.ColorAt(180))
}

func TestColorCycleSpaces(t *testing.T) {
	for _, space := range []string{"rgb", "hsv", "lab", "oklch"} {
		t.Run(space, func(t *testing.T) {
			s := build(t, "color-cycle", map[string]any{
				"palette": []string{"#ff0000", "#0000ff"}, "colorSpace": space,
			}).(*ColorCycle)
			assert.Equal(t, paint.RGB(255, 0, 0), s.ColorAt(0))
			assert.Equal(t, paint.RGB(0, 0, 255), s.ColorAt(60))
		})
	}
}

func TestCTA(t *testing.T) {
	s := build(t, "cta", map[string]any{"qr": true})

	particle := func(frame, i int) render.Box {
		return find(t, s.Evaluate(frame), "particle-"+strconv.Itoa(i)).(render.Box)
	}
	assert.Equal(t, 0.0, particle(0, 0).Opacity)
	assert.InDelta(t, 0.6, particle(400, 0).Opacity, 1e-3)
	assert.Equal(t, 0.0, particle(50, 5).Opacity)
	assert.Greater(t, particle(51, 5).Opacity, 0.0)
	assert.InDelta(t, 1920*(0.1+19*0.04), particle(0, 19).Transform.X, 1e-9)

	button := func(frame int) render.Group {
		return find(t, s.Evaluate(frame), "button").(render.Group)
	}
	assert.Equal(t, 0.0, button(0).Transform.Scale)
	assert.InDelta(t, 1.1, button(150).Transform.Scale, 5e-3)
	assert.InDelta(t, 1.1, button(400).Transform.Scale, 1e-3)

	headline := find(t, s.Evaluate(100), "headline").(render.Text)
	assert.Equal(t, "CloudSync Pro", headline.Content)

	qr := find(t, s.Evaluate(100), "qr").(render.Path)
	assert.Equal(t, 160.0, qr.Width)
	assert.True(t, strings.HasPrefix(qr.D, "M0 0h"))

	_, ok := render.Find(build(t, "cta", nil).Evaluate(100), "qr")
	assert.False(t, ok)
}

func TestTrimQuietZone(t *testing.T) {
	bitmap := [][]bool{
		{false, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, false},
	}
	assert.Equal(t, [][]bool{{true, false}, {false, true}}, trimQuietZone(bitmap))
}

func TestQRPath(t *testing.T) {
	p, err := QRPath("https://example.com", 100, paint.Black)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Width)
	assert.Equal(t, 100.0, p.Height)
	assert.Equal(t, strings.Count(p.D, "M"), strings.Count(p.D, "z"))

	again, err := QRPath("https://example.com", 100, paint.Black)
	require.NoError(t, err)
	assert.Equal(t, p.D, again.D)

	other, err := QRPath("https://example.org", 100, paint.Black)
	require.NoError(t, err)
	assert.NotEqual(t, p.D, other.D)
}

func TestOrbitParticles(t *testing.T) {
	a := build(t, "orbit-particles", map[string]any{"count": 20, "seed": "alpha"})
	b := build(t, "orbit-particles", map[string]any{"count": 20, "seed": "alpha"})
	c := build(t, "orbit-particles", map[string]any{"count": 20, "seed": "beta"})

	assert.Equal(t, a.Evaluate(77), b.Evaluate(77))
	assert.NotEqual(t, a.Evaluate(77), c.Evaluate(77))
	assert.Equal(t, 20, render.Count(a.Evaluate(0), render.KindBox))

	p := func(frame, i int) render.Box {
		return find(t, a.Evaluate(frame), "particle-"+strconv.Itoa(i)).(render.Box)
	}
	assert.Equal(t, 0.0, p(0, 0).Opacity)
	assert.InDelta(t, 0.8, p(60, 0).Opacity, 1e-12)
	assert.InDelta(t, 0.8*58/60, p(60, 1).Opacity, 1e-12)
	assert.Equal(t, 0.0, p(300, 0).Opacity)
	assert.InDelta(t, 180, p(150, 0).Transform.Rotate, 1e-9)

	// Every particle stays near the ring: radius within jitter plus the wobble.
	for i := 0; i < 20; i++ {
		box := p(90, i)
		dx, dy := box.Transform.X-960, box.Transform.Y-540
		assert.Less(t, dx*dx+dy*dy, (250.0+130)*(250.0+130))
	}
}
