// Package assets resolves fonts, audio tracks and images once, before any
// frame is evaluated. Scenes receive the resulting Set by pointer and only
// read from it; nodes carry the opaque Ref of the asset they draw.
package assets

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/render"
)

// Ref names an asset inside a Set.
type Ref = render.Ref

// Spec maps asset names to file paths, as written in a composition file.
type Spec struct {
	Fonts  map[string]string `yaml:"fonts,omitempty"`
	Audio  map[string]string `yaml:"audio,omitempty"`
	Images map[string]string `yaml:"images,omitempty"`
}

// Empty reports whether the spec names no assets.
func (s Spec) Empty() bool {
	return len(s.Fonts) == 0 && len(s.Audio) == 0 && len(s.Images) == 0
}

// Resolver turns a Spec into a Set.
type Resolver interface {
	Resolve(spec Spec) (*Set, error)
}

// Dir resolves relative asset paths against a directory.
type Dir string

func (d Dir) Resolve(spec Spec) (*Set, error) {
	return Resolve(spec, string(d))
}

// Set holds resolved assets. It is read-only after Resolve and safe for
// concurrent use.
type Set struct {
	fonts  map[Ref]*Font
	audio  map[Ref]Audio
	images map[Ref]Image
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		fonts:  map[Ref]*Font{},
		audio:  map[Ref]Audio{},
		images: map[Ref]Image{},
	}
}

// Resolve loads every asset in spec. Relative paths are joined to base.
func Resolve(spec Spec, base string) (*Set, error) {
	set := NewSet()

	for _, name := range sortedKeys(spec.Fonts) {
		f, err := LoadFont(Ref(name), join(base, spec.Fonts[name]))
		if err != nil {
			return nil, fmt.Errorf("assets: font %q: %w", name, err)
		}
		set.fonts[Ref(name)] = f
	}
	for _, name := range sortedKeys(spec.Audio) {
		a, err := InspectAudio(join(base, spec.Audio[name]))
		if err != nil {
			return nil, fmt.Errorf("assets: audio %q: %w", name, err)
		}
		set.audio[Ref(name)] = a
	}
	for _, name := range sortedKeys(spec.Images) {
		img, err := InspectImage(join(base, spec.Images[name]))
		if err != nil {
			return nil, fmt.Errorf("assets: image %q: %w", name, err)
		}
		set.images[Ref(name)] = img
	}
	return set, nil
}

// Font returns the named font. The empty ref is the built-in fallback face.
func (s *Set) Font(ref Ref) (*Font, error) {
	if ref == "" {
		return Fallback(), nil
	}
	if s != nil {
		if f, ok := s.fonts[ref]; ok {
			return f, nil
		}
	}
	return nil, errs.Configf("assets.Font", "font", errs.ErrUnknown, "%q", ref)
}

// Audio returns the named track.
func (s *Set) Audio(ref Ref) (Audio, error) {
	if s != nil {
		if a, ok := s.audio[ref]; ok {
			return a, nil
		}
	}
	return Audio{}, errs.Configf("assets.Audio", "audio", errs.ErrUnknown, "%q", ref)
}

// Image returns the named image.
func (s *Set) Image(ref Ref) (Image, error) {
	if s != nil {
		if img, ok := s.images[ref]; ok {
			return img, nil
		}
	}
	return Image{}, errs.Configf("assets.Image", "image", errs.ErrUnknown, "%q", ref)
}

// Entry describes one resolved asset for the render manifest.
type Entry struct {
	Ref      Ref     `yaml:"ref" json:"ref"`
	Kind     string  `yaml:"kind" json:"kind"`
	Path     string  `yaml:"path" json:"path"`
	Page     int     `yaml:"page,omitempty" json:"page,omitempty"`
	Width    int     `yaml:"width,omitempty" json:"width,omitempty"`
	Height   int     `yaml:"height,omitempty" json:"height,omitempty"`
	Duration float64 `yaml:"duration,omitempty" json:"duration,omitempty"` // seconds
}

// Manifest lists every asset, ordered by kind and then ref, so a rasterizer
// can map refs back to files.
func (s *Set) Manifest() []Entry {
	if s == nil {
		return nil
	}
	var out []Entry
	for _, ref := range sortedRefs(s.fonts) {
		out = append(out, Entry{Ref: ref, Kind: "font", Path: s.fonts[ref].Path})
	}
	for _, ref := range sortedRefs(s.audio) {
		a := s.audio[ref]
		out = append(out, Entry{Ref: ref, Kind: "audio", Path: a.Path, Duration: a.Duration.Seconds()})
	}
	for _, ref := range sortedRefs(s.images) {
		img := s.images[ref]
		out = append(out, Entry{Ref: ref, Kind: "image", Path: img.Path, Page: img.Page, Width: img.Width, Height: img.Height})
	}
	return out
}

func join(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRefs[V any](m map[Ref]V) []Ref {
	refs := make([]Ref, 0, len(m))
	for r := range m {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}
