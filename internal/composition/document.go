// Package composition loads composition files and turns them into
// timelines of scenes that can be evaluated frame by frame.
package composition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/paint"
	"github.com/ivlev/scene2frames/internal/system"
	"github.com/ivlev/scene2frames/internal/timeline"
)

// Version is the document version written by Write.
const Version = "1.0"

// Document is a composition file. It may hold several compositions.
type Document struct {
	Version      string `yaml:"version"`
	Compositions []Spec `yaml:"compositions"`
}

// Spec describes one composition as written in a file.
type Spec struct {
	ID     string  `yaml:"id"`
	FPS    float64 `yaml:"fps"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	// DurationInFrames of zero derives the duration from the soundtrack.
	DurationInFrames int         `yaml:"durationInFrames"`
	Background       paint.Color `yaml:"background"`
	Assets           assets.Spec `yaml:"assets,omitempty"`
	Soundtrack       assets.Ref  `yaml:"soundtrack,omitempty"`
	// Sequences are placed at absolute frames; Series are placed one after
	// another. A composition uses one form or the other.
	Sequences []Sequence   `yaml:"sequences,omitempty"`
	Series    []SeriesItem `yaml:"series,omitempty"`
}

// Sequence places a scene at an absolute frame.
type Sequence struct {
	Name string `yaml:"name"`
	From int    `yaml:"from"`
	// DurationInFrames of zero keeps the scene until the composition ends.
	DurationInFrames int            `yaml:"durationInFrames"`
	Scene            string         `yaml:"scene"`
	// Params is kept as a node and decoded by the scene's factory. It must
	// be a value: yaml.v3 decodes a *yaml.Node like any other struct.
	Params           yaml.Node      `yaml:"params,omitempty"`
	Loop             *timeline.Loop `yaml:"loop,omitempty"`
}

// SeriesItem places a scene right after the previous one. Offset shifts
// the start; a negative offset overlaps the previous item.
type SeriesItem struct {
	Name             string         `yaml:"name"`
	DurationInFrames int            `yaml:"durationInFrames"`
	Offset           int            `yaml:"offset,omitempty"`
	Scene            string         `yaml:"scene"`
	Params           yaml.Node      `yaml:"params,omitempty"`
	Loop             *timeline.Loop `yaml:"loop,omitempty"`
}

// Parse decodes and checks a document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Configf("composition.Parse", "compositions", errs.ErrInvalid, "empty document")
		}
		if errs.IsConfiguration(err) {
			return nil, err
		}
		return nil, errs.Config("composition.Parse", "", fmt.Errorf("%w: %v", errs.ErrInvalid, err))
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) check() error {
	if d.Version != "" && d.Version != Version {
		return errs.Configf("composition.Parse", "version", errs.ErrInvalid, "unsupported version %q", d.Version)
	}
	if len(d.Compositions) == 0 {
		return errs.Configf("composition.Parse", "compositions", errs.ErrInvalid, "no compositions")
	}
	seen := make(map[string]bool, len(d.Compositions))
	for i, c := range d.Compositions {
		if c.ID == "" {
			return errs.Configf("composition.Parse", fmt.Sprintf("compositions[%d].id", i), errs.ErrInvalid, "empty")
		}
		if seen[c.ID] {
			return errs.Configf("composition.Parse", fmt.Sprintf("compositions[%d].id", i), errs.ErrInvalid, "duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// Read reads a document from a YAML file.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write writes a document to a YAML file.
func Write(doc *Document, path string) error {
	if doc.Version == "" {
		doc.Version = Version
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IDs lists composition IDs in file order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Compositions))
	for i, c := range d.Compositions {
		ids[i] = c.ID
	}
	return ids
}

// Find returns the composition with the given ID. The empty ID selects the
// first composition.
func (d *Document) Find(id string) (*Spec, error) {
	if id == "" && len(d.Compositions) > 0 {
		return &d.Compositions[0], nil
	}
	for i := range d.Compositions {
		if d.Compositions[i].ID == id {
			return &d.Compositions[i], nil
		}
	}
	return nil, errs.Configf("composition.Find", "id", errs.ErrUnknown, "%q", id)
}

// FindLatest returns the most recently modified composition file in dir.
func FindLatest(dir string) (string, error) {
	return system.FindLatest(dir, ".yaml", ".yml")
}
