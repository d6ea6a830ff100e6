package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/scene2frames/internal/composition"
	"github.com/ivlev/scene2frames/internal/config"
	"github.com/ivlev/scene2frames/internal/errs"
)

const demo = `
compositions:
  - id: demo
    fps: 30
    width: 640
    height: 360
    durationInFrames: 90
    background: "#101820"
    sequences:
      - {name: title, from: 0, durationInFrames: 40, scene: title, params: {text: Hello}}
      - {name: counter, from: 30, durationInFrames: 40, scene: counter, params: {end: 1234}}
      - {name: colors, from: 60, scene: color-cycle, params: {framesPerColor: 10, loop: true}}
`

func demoComposition(t *testing.T) *composition.Composition {
	t.Helper()
	doc, err := composition.Parse([]byte(demo))
	require.NoError(t, err)
	c, err := composition.Build(doc.Compositions[0], nil)
	require.NoError(t, err)
	return c
}

func testConfig(format string, workers int) *config.Config {
	cfg := config.Default()
	cfg.Format = format
	cfg.Workers = workers
	return cfg
}

func renderJSONL(t *testing.T, comp *composition.Composition, cfg *config.Config) ([]byte, Report) {
	t.Helper()
	var out bytes.Buffer
	report, err := NewProject(cfg, comp, NewJSONLWriter(&out)).Run(context.Background())
	require.NoError(t, err)
	return out.Bytes(), report
}

func TestOutputIndependentOfWorkers(t *testing.T) {
	comp := demoComposition(t)

	serial, report := renderJSONL(t, comp, testConfig(config.FormatJSONL, 1))
	assert.Equal(t, 90, report.Frames)
	assert.Equal(t, 1, report.Workers)

	for _, workers := range []int{2, 8, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			parallel, _ := renderJSONL(t, comp, testConfig(config.FormatJSONL, workers))
			assert.Equal(t, serial, parallel)
		})
	}
}

func TestJSONLIsOrdered(t *testing.T) {
	comp := demoComposition(t)
	cfg := testConfig(config.FormatJSONL, 4)
	cfg.From, cfg.To = 25, 65

	out, report := renderJSONL(t, comp, cfg)
	assert.Equal(t, 40, report.Frames)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	want := 25
	for scanner.Scan() {
		var frame struct {
			Composition string `json:"composition"`
			Frame       int    `json:"frame"`
			Root        struct {
				Type     string            `json:"type"`
				Children []json.RawMessage `json:"children"`
			} `json:"root"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &frame))
		assert.Equal(t, "demo", frame.Composition)
		assert.Equal(t, want, frame.Frame)
		assert.NotEmpty(t, frame.Root.Children)
		want++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 65, want)
}

func TestDirWriter(t *testing.T) {
	comp := demoComposition(t)
	dir := filepath.Join(t.TempDir(), "frames")
	cfg := testConfig(config.FormatDir, 3)
	cfg.OutputPath = dir
	cfg.From, cfg.To = 10, 20

	report, err := NewProject(cfg, comp, NewDirWriter(dir)).Run(context.Background())
	require.NoError(t, err)

	for i := 10; i < 20; i++ {
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf(FramePattern, i)))
		require.NoError(t, err)
		assert.Contains(t, string(data), fmt.Sprintf(`"frame":%d`, i))
	}
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf(FramePattern, 20)))
	assert.True(t, os.IsNotExist(err))

	m, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, m.RunID)
	assert.Equal(t, "demo", m.Composition)
	assert.Equal(t, 90, m.DurationInFrames)
	assert.Equal(t, 10, m.From)
	assert.Equal(t, 20, m.To)
	assert.Equal(t, FramePattern, m.Pattern)
	require.Len(t, m.Sequences, 3)
	assert.Equal(t, "counter", m.Sequences[1].Scene)
}

func TestYAMLWriter(t *testing.T) {
	comp := demoComposition(t)
	cfg := testConfig(config.FormatYAML, 0)
	cfg.Frame = 35

	var out bytes.Buffer
	_, err := NewProject(cfg, comp, NewYAMLWriter(&out)).Run(context.Background())
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &frame))
	assert.Equal(t, 35, frame["frame"])
	assert.Contains(t, out.String(), "id: counter")

	cfg.Frame = config.NoFrame
	_, err = NewProject(cfg, comp, NewYAMLWriter(&out)).Run(context.Background())
	assert.Error(t, err)
}

func TestRunOutOfRange(t *testing.T) {
	comp := demoComposition(t)
	for _, frame := range []int{90, 1000} {
		cfg := testConfig(config.FormatJSONL, 1)
		cfg.Frame = frame
		_, err := NewProject(cfg, comp, NewJSONLWriter(&bytes.Buffer{})).Run(context.Background())
		assert.ErrorIs(t, err, errs.ErrFrameOutOfRange, "frame %d", frame)
	}
}

func TestRunCancelled(t *testing.T) {
	comp := demoComposition(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProject(testConfig(config.FormatJSONL, 2), comp, NewJSONLWriter(&bytes.Buffer{})).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatsAppendBenchmark(t *testing.T) {
	comp := demoComposition(t)
	cfg := testConfig(config.FormatJSONL, 2)
	cfg.ShowStats = true
	cfg.BenchmarkLog = filepath.Join(t.TempDir(), "benchmark.log")
	cfg.To = 10

	for i := 0; i < 2; i++ {
		renderJSONL(t, comp, cfg)
	}
	data, err := os.ReadFile(cfg.BenchmarkLog)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Composition: demo | Frames: 10")
}

func TestReportString(t *testing.T) {
	r := Report{RunID: "abc", Composition: "demo", Frames: 3, Workers: 2, FPS: 12.5}
	s := r.String()
	assert.True(t, strings.HasPrefix(s, "--- [PERFORMANCE REPORT] ---"))
	assert.Contains(t, s, "Run: abc")
	assert.Contains(t, s, "Effective FPS: 12.50")
}

func TestNewWriter(t *testing.T) {
	for _, format := range []string{config.FormatJSONL, config.FormatDir, config.FormatYAML} {
		w, err := NewWriter(format, &bytes.Buffer{}, t.TempDir())
		require.NoError(t, err)
		assert.NotNil(t, w)
	}
	_, err := NewWriter("mp4", nil, "")
	assert.Error(t, err)
}
