package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/composition"
	"github.com/ivlev/scene2frames/internal/config"
	"github.com/ivlev/scene2frames/internal/render"
	"github.com/ivlev/scene2frames/internal/system"
)

// Writer receives the frames of a run. WriteFrame is called concurrently
// and in no particular order; Close runs once all frames are written.
type Writer interface {
	Begin(run Run) error
	WriteFrame(frame render.Frame) error
	Close() error
}

// NewWriter returns the writer for format. out is used by the stream
// formats, dir by the directory format.
func NewWriter(format string, out io.Writer, dir string) (Writer, error) {
	switch format {
	case config.FormatJSONL:
		return NewJSONLWriter(out), nil
	case config.FormatDir:
		return NewDirWriter(dir), nil
	case config.FormatYAML:
		return NewYAMLWriter(out), nil
	default:
		return nil, fmt.Errorf("неизвестный формат вывода %q", format)
	}
}

func encodeJSON(frame render.Frame) ([]byte, error) {
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)
	if err := json.NewEncoder(buf).Encode(frame); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

// JSONLWriter buffers every frame and writes them as ordered JSON lines
// when the run completes.
type JSONLWriter struct {
	out   io.Writer
	from  int
	lines [][]byte
}

func NewJSONLWriter(out io.Writer) *JSONLWriter {
	return &JSONLWriter{out: out}
}

func (w *JSONLWriter) Begin(run Run) error {
	sample, err := run.Composition.Frame(run.From)
	if err != nil {
		return err
	}
	line, err := encodeJSON(sample)
	if err != nil {
		return err
	}
	if err := system.CheckMemory(uint64(len(line)) * uint64(run.Frames()) * 2); err != nil {
		return fmt.Errorf("диапазон слишком велик для jsonl, используйте -format dir: %w", err)
	}
	w.from = run.From
	w.lines = make([][]byte, run.Frames())
	return nil
}

// WriteFrame stores the encoded frame in its own slot, so no locking is
// needed.
func (w *JSONLWriter) WriteFrame(frame render.Frame) error {
	line, err := encodeJSON(frame)
	if err != nil {
		return err
	}
	w.lines[frame.Index-w.from] = line
	return nil
}

func (w *JSONLWriter) Close() error {
	bw := bufio.NewWriter(w.out)
	for i, line := range w.lines {
		if line == nil {
			return fmt.Errorf("кадр %d не был создан", w.from+i)
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	w.lines = nil
	return bw.Flush()
}

// FramePattern names the per-frame files of the directory format.
const FramePattern = "frame_%06d.json"

// ManifestName is the manifest file written next to the frames.
const ManifestName = "manifest.yaml"

// Manifest describes a directory of rendered frames for the rasterizer.
type Manifest struct {
	RunID            string                     `yaml:"runId"`
	Build            string                     `yaml:"build,omitempty"`
	Created          string                     `yaml:"created"`
	Composition      string                     `yaml:"composition"`
	FPS              float64                    `yaml:"fps"`
	Width            int                        `yaml:"width"`
	Height           int                        `yaml:"height"`
	DurationInFrames int                        `yaml:"durationInFrames"`
	From             int                        `yaml:"from"`
	To               int                        `yaml:"to"`
	Pattern          string                     `yaml:"pattern"`
	Soundtrack       assets.Ref                 `yaml:"soundtrack,omitempty"`
	Sequences        []composition.SequenceInfo `yaml:"sequences"`
	Assets           []assets.Entry             `yaml:"assets,omitempty"`
}

// DirWriter writes each frame to its own file from the worker that
// evaluated it, then a manifest.
type DirWriter struct {
	dir      string
	manifest Manifest
}

func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{dir: dir}
}

func (w *DirWriter) Begin(run Run) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	c := run.Composition
	w.manifest = Manifest{
		RunID:            run.ID,
		Build:            run.Build,
		Created:          run.Started.Format("2006-01-02 15:04:05"),
		Composition:      c.ID,
		FPS:              c.Video.FPS,
		Width:            c.Video.Width,
		Height:           c.Video.Height,
		DurationInFrames: c.DurationInFrames(),
		From:             run.From,
		To:               run.To,
		Pattern:          FramePattern,
		Soundtrack:       c.Soundtrack,
		Sequences:        c.Sequences(),
		Assets:           c.Assets.Manifest(),
	}
	return nil
}

func (w *DirWriter) WriteFrame(frame render.Frame) error {
	data, err := encodeJSON(frame)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.dir, fmt.Sprintf(FramePattern, frame.Index)), data, 0644)
}

func (w *DirWriter) Close() error {
	data, err := yaml.Marshal(w.manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.dir, ManifestName), data, 0644)
}

// ReadManifest reads a manifest written by DirWriter.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// YAMLWriter writes a single frame as a YAML document, which is easier to
// read when debugging a scene.
type YAMLWriter struct {
	out   io.Writer
	mu    sync.Mutex
	frame *render.Frame
}

func NewYAMLWriter(out io.Writer) *YAMLWriter {
	return &YAMLWriter{out: out}
}

func (w *YAMLWriter) Begin(run Run) error {
	if run.Frames() != 1 {
		return fmt.Errorf("формат yaml поддерживает один кадр, запрошено %d", run.Frames())
	}
	return nil
}

func (w *YAMLWriter) WriteFrame(frame render.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame = &frame
	return nil
}

func (w *YAMLWriter) Close() error {
	if w.frame == nil {
		return fmt.Errorf("кадр не был создан")
	}
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(w.frame); err != nil {
		return err
	}
	return enc.Close()
}
