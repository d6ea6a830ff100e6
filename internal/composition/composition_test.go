package composition

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/scene"
	"github.com/ivlev/scene2frames/internal/timeline"
)

// recorder keeps which local frames each named instance was asked for.
var recorder = struct {
	sync.Mutex
	calls map[string][]int
}{calls: map[string][]int{}}

func init() {
	scene.Register("recorder", func(ctx scene.Context, params scene.Params) (scene.Scene, error) {
		var cfg struct {
			Tag string `yaml:"tag"`
		}
		if err := params.Decode("recorder", &cfg); err != nil {
			return nil, err
		}
		window := ctx.Video.DurationInFrames
		return scene.Func(func(frame int) render.Node {
			recorder.Lock()
			recorder.calls[cfg.Tag] = append(recorder.calls[cfg.Tag], frame)
			recorder.Unlock()
			return render.Box{Common: render.At(0, 0).WithID(cfg.Tag), Width: float64(window), Height: float64(frame)}
		}), nil
	})
}

func resetRecorder() {
	recorder.Lock()
	recorder.calls = map[string][]int{}
	recorder.Unlock()
}

func recordedCalls() map[string][]int {
	recorder.Lock()
	defer recorder.Unlock()
	out := make(map[string][]int, len(recorder.calls))
	for k, v := range recorder.calls {
		out[k] = append([]int(nil), v...)
	}
	return out
}

const cloudSync = `
version: "1.0"
compositions:
  - id: CloudSyncPro
    fps: 30
    width: 1920
    height: 1080
    durationInFrames: 1350
    background: "#0A1628"
    sequences:
      - {name: intro, from: 0, durationInFrames: 240, scene: recorder, params: {tag: intro}}
      - {name: features, from: 240, durationInFrames: 120, scene: recorder, params: {tag: features}}
      - {name: stats, from: 360, durationInFrames: 240, scene: recorder, params: {tag: stats}}
      - {name: chart, from: 600, durationInFrames: 240, scene: recorder, params: {tag: chart}}
      - {name: colors, from: 840, durationInFrames: 210, scene: recorder, params: {tag: colors}}
      - {name: particles, from: 1050, durationInFrames: 150, scene: recorder, params: {tag: particles}}
      - {name: cta, from: 1200, durationInFrames: 150, scene: recorder, params: {tag: cta}}
`

func buildDoc(t *testing.T, src string) *Composition {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	spec, err := doc.Find("")
	require.NoError(t, err)
	c, err := Build(*spec, nil)
	require.NoError(t, err)
	return c
}

func TestFrameEvaluatesOnlyActiveScene(t *testing.T) {
	c := buildDoc(t, cloudSync)
	require.Equal(t, 1350, c.DurationInFrames())

	resetRecorder()
	f, err := c.Frame(300)
	require.NoError(t, err)

	assert.Equal(t, map[string][]int{"features": {60}}, recordedCalls())
	assert.Equal(t, []string{"features"}, c.Active(300))
	assert.Equal(t, 300, f.Index)
	assert.Equal(t, "CloudSyncPro", f.Composition)

	require.Len(t, f.Root.Children, 2)
	bg := f.Root.Children[0].(render.Box)
	assert.Equal(t, "background", bg.ID)
	assert.Equal(t, paint.MustParse("#0A1628"), bg.Fill)

	seq := f.Root.Children[1].(render.Group)
	assert.Equal(t, "features", seq.ID)
	box := seq.Children[0].(render.Box)
	assert.Equal(t, 120.0, box.Width, "scene sees its own window as the video duration")
	assert.Equal(t, 60.0, box.Height)
}

func TestFrameBoundaries(t *testing.T) {
	c := buildDoc(t, cloudSync)

	resetRecorder()
	_, err := c.Frame(239)
	require.NoError(t, err)
	_, err = c.Frame(240)
	require.NoError(t, err)
	_, err = c.Frame(1349)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"intro": {239}, "features": {0}, "cta": {149}}, recordedCalls())

	for _, frame := range []int{-1, 1350, 5000} {
		_, err := c.Frame(frame)
		assert.ErrorIs(t, err, errs.ErrFrameOutOfRange, "frame %d", frame)
	}
}

func TestFrameGapShowsBackground(t *testing.T) {
	c := buildDoc(t, `
compositions:
  - id: gap
    fps: 30
    width: 100
    height: 50
    durationInFrames: 100
    sequences:
      - {name: a, from: 0, durationInFrames: 10, scene: recorder}
      - {name: b, from: 20, durationInFrames: 10, scene: recorder}
`)
	f, err := c.Frame(15)
	require.NoError(t, err)
	require.Len(t, f.Root.Children, 1)
	assert.Equal(t, []string{
		"frames [10, 20) show only the background",
		"frames [30, 100) show only the background",
	}, c.Warnings())
}

func TestOverlapKeepsDeclarationOrder(t *testing.T) {
	c := buildDoc(t, `
compositions:
  - id: overlap
    fps: 30
    width: 100
    height: 100
    durationInFrames: 60
    sequences:
      - {name: back, from: 0, scene: recorder}
      - {name: front, from: 10, durationInFrames: 20, scene: recorder}
`)
	assert.Equal(t, []string{"back", "front"}, c.Active(15))
	assert.Equal(t, []string{"back"}, c.Active(45))
	assert.Empty(t, c.Warnings())

	f, err := c.Frame(59)
	require.NoError(t, err)
	box := f.Root.Children[1].(render.Group).Children[0].(render.Box)
	assert.Equal(t, 60.0, box.Width, "unbounded sequence sees the rest of the composition")
}

func TestSeries(t *testing.T) {
	c := buildDoc(t, `
compositions:
  - id: series
    fps: 30
    width: 100
    height: 100
    durationInFrames: 200
    series:
      - {name: one, durationInFrames: 60, scene: recorder}
      - {name: two, durationInFrames: 60, offset: -10, scene: recorder}
      - {name: three, durationInFrames: 30, offset: 5, scene: recorder}
`)
	assert.Equal(t, []SequenceInfo{
		{Name: "one", Scene: "recorder", From: 0, Duration: 60},
		{Name: "two", Scene: "recorder", From: 50, Duration: 60},
		{Name: "three", Scene: "recorder", From: 115, Duration: 30},
	}, c.Sequences())
	assert.Equal(t, []string{"one", "two"}, c.Active(55))
	assert.Empty(t, c.Active(112))
}

func TestLoopedSequence(t *testing.T) {
	c := buildDoc(t, `
compositions:
  - id: loop
    fps: 30
    width: 100
    height: 100
    durationInFrames: 100
    sequences:
      - name: spin
        from: 10
        scene: recorder
        params: {tag: spin}
        loop: {durationInFrames: 20, times: 3}
`)
	assert.Equal(t, []SequenceInfo{{Name: "spin", Scene: "recorder", From: 10, Duration: 60}}, c.Sequences())

	resetRecorder()
	for _, frame := range []int{10, 29, 30, 55, 69} {
		_, err := c.Frame(frame)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{0, 19, 0, 5, 19}, recordedCalls()["spin"])
	assert.Empty(t, c.Active(70))
}

func TestDurationFromSoundtrack(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "track.wav"))
	require.NoError(t, err)
	format := beep.Format{SampleRate: 44100, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(44100*2+100), format))
	require.NoError(t, f.Close())

	doc, err := Parse([]byte(`
compositions:
  - id: audio
    fps: 30
    width: 100
    height: 100
    assets:
      audio: {music: track.wav}
    soundtrack: music
    sequences:
      - {name: all, from: 0, scene: recorder}
`))
	require.NoError(t, err)
	c, err := Build(doc.Compositions[0], assets.Dir(dir))
	require.NoError(t, err)
	assert.Equal(t, 61, c.DurationInFrames())
	assert.Equal(t, "music", string(c.Soundtrack))
}

func TestBuildErrors(t *testing.T) {
	base := func() Spec {
		return Spec{ID: "x", FPS: 30, Width: 10, Height: 10, DurationInFrames: 10,
			Sequences: []Sequence{{Name: "a", Scene: "recorder"}}}
	}
	tests := []struct {
		name  string
		edit  func(*Spec)
		cause error
	}{
		{"no id", func(s *Spec) { s.ID = "" }, errs.ErrInvalid},
		{"zero fps", func(s *Spec) { s.FPS = 0 }, errs.ErrNonPositive},
		{"zero width", func(s *Spec) { s.Width = 0 }, errs.ErrNonPositive},
		{"negative duration", func(s *Spec) { s.DurationInFrames = -1 }, errs.ErrNegative},
		{"no duration", func(s *Spec) { s.DurationInFrames = 0 }, errs.ErrNonPositive},
		{"unknown scene", func(s *Spec) { s.Sequences[0].Scene = "fireworks" }, errs.ErrUnknown},
		{"unnamed", func(s *Spec) { s.Sequences[0].Name = "" }, errs.ErrInvalid},
		{"negative from", func(s *Spec) { s.Sequences[0].From = -5 }, errs.ErrNegative},
		{"both forms", func(s *Spec) { s.Series = []SeriesItem{{Name: "b", DurationInFrames: 5, Scene: "recorder"}} }, errs.ErrInvalid},
		{"bad loop", func(s *Spec) { s.Sequences[0].Loop = &timeline.Loop{Duration: 0} }, errs.ErrNonPositive},
		{"missing soundtrack", func(s *Spec) { s.Soundtrack = "music" }, errs.ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base()
			tt.edit(&spec)
			_, err := Build(spec, nil)
			require.Error(t, err)
			assert.True(t, errs.IsConfiguration(err), "%v", err)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no compositions", "version: \"1.0\"\n"},
		{"future version", "version: \"2.0\"\ncompositions: [{id: a}]\n"},
		{"unknown key", "compositions: [{id: a, speed: 3}]\n"},
		{"duplicate id", "compositions: [{id: a}, {id: a}]\n"},
		{"missing id", "compositions: [{fps: 30}]\n"},
		{"bad color", "compositions: [{id: a, background: nope}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errs.IsConfiguration(err), "%v", err)
		})
	}
}

func TestFind(t *testing.T) {
	doc, err := Parse([]byte("compositions: [{id: a}, {id: b}]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.IDs())

	spec, err := doc.Find("b")
	require.NoError(t, err)
	assert.Equal(t, "b", spec.ID)

	_, err = doc.Find("c")
	assert.ErrorIs(t, err, errs.ErrUnknown)
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	doc, err := Parse([]byte(cloudSync))
	require.NoError(t, err)

	path := filepath.Join(dir, "out.yaml")
	require.NoError(t, Write(doc, path))
	back, err := Read(path)
	require.NoError(t, err)

	require.Len(t, back.Compositions, 1)
	got, want := back.Compositions[0], doc.Compositions[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Background, got.Background)
	require.Len(t, got.Sequences, 7)

	var params struct{ Tag string }
	require.NoError(t, got.Sequences[6].Params.Decode(&params))
	assert.False(t, scene.ParamsOf(&got.Sequences[0].Params).Empty())
	assert.Equal(t, "cta", params.Tag)

	_, err = Read(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"a.yaml", "b.yml", "c.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("compositions: []"), 0644))
		ts := time.Now().Add(time.Duration(i-3) * time.Hour)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}
	got, err := FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.yml"), got)
}

func TestWarnings(t *testing.T) {
	c := buildDoc(t, `
compositions:
  - id: warn
    fps: 30
    width: 100
    height: 100
    durationInFrames: 50
    sequences:
      - {name: main, from: 0, scene: recorder}
      - {name: long, from: 40, durationInFrames: 30, scene: recorder}
      - {name: late, from: 80, durationInFrames: 10, scene: recorder}
`)
	assert.Equal(t, []string{
		`sequence "long" is cut at frame 50 (ends at 70)`,
		`sequence "late" starts at frame 80, after the composition ends at 50`,
	}, c.Warnings())
}

func TestSequenceParamsNode(t *testing.T) {
	var seq Sequence
	require.NoError(t, yaml.Unmarshal([]byte("{name: a, scene: title, params: {text: Hi}}"), &seq))
	assert.Equal(t, yaml.MappingNode, seq.Params.Kind)
	assert.False(t, scene.ParamsOf(&seq.Params).Empty())

	var bare Sequence
	require.NoError(t, yaml.Unmarshal([]byte("{name: a, scene: title}"), &bare))
	assert.True(t, scene.ParamsOf(&bare.Params).Empty())
}

func TestParamsReachScenes(t *testing.T) {
	c := buildDoc(t, `
compositions:
  - id: params
    fps: 30
    width: 640
    height: 360
    durationInFrames: 60
    series:
      - name: hello
        durationInFrames: 30
        scene: title
        params: {text: Hello, color: "#ff0000"}
      - name: count
        durationInFrames: 30
        scene: counter
        params: {end: 42, duration: 1, prefix: "$"}
`)
	f, err := c.Frame(20)
	require.NoError(t, err)
	title, ok := render.Find(f.Root, "title")
	require.True(t, ok)
	assert.Equal(t, "Hello", title.(render.Text).Content)
	assert.Equal(t, paint.RGB(255, 0, 0), title.(render.Text).Color)

	f, err = c.Frame(59)
	require.NoError(t, err)
	value, ok := render.Find(f.Root, "value")
	require.True(t, ok)
	assert.Equal(t, "$42", value.(render.Text).Content)
}

func TestParamsTypoRejected(t *testing.T) {
	doc, err := Parse([]byte(`
compositions:
  - id: typo
    fps: 30
    width: 64
    height: 64
    durationInFrames: 10
    sequences:
      - {name: a, from: 0, scene: title, params: {text: Hi, colour: red}}
`))
	require.NoError(t, err)
	_, err = Build(doc.Compositions[0], nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalid)
}

func TestSampleComposition(t *testing.T) {
	path := filepath.Join("..", "..", "input", "compositions", "cloudsync.yaml")
	doc, err := Read(path)
	require.NoError(t, err)
	spec, err := doc.Find("CloudSyncPro")
	require.NoError(t, err)

	c, err := Build(*spec, assets.Dir(filepath.Dir(path)))
	require.NoError(t, err)
	assert.Equal(t, 1350, c.DurationInFrames())
	assert.Empty(t, c.Warnings())

	seqs := c.Sequences()
	require.Len(t, seqs, 7)
	for _, s := range seqs {
		frame := s.From + s.Duration/2
		f, err := c.Frame(frame)
		require.NoError(t, err, s.Name)
		assert.Equal(t, []string{s.Name}, c.Active(frame))

		node, ok := render.Find(f.Root, s.Name)
		require.True(t, ok, s.Name)
		group := node.(render.Group)
		require.Len(t, group.Children, 1, s.Name)
		assert.Greater(t, render.Count(group, render.KindText)+render.Count(group, render.KindBox), 0, s.Name)
	}

	brand, ok := render.Find(mustFrame(t, c, 300).Root, "name")
	require.True(t, ok)
	assert.Equal(t, "CloudSync Pro", brand.(render.Text).Content)
}

func mustFrame(t *testing.T, c *Composition, frame int) render.Frame {
	t.Helper()
	f, err := c.Frame(frame)
	require.NoError(t, err)
	return f
}
