// Package scene defines the scene evaluators a composition is built from.
//
// A scene is constructed once by its Factory, which decodes and validates the
// scene's parameters, and is then evaluated any number of times. Evaluate is
// a pure function of the local frame: it keeps no state between calls, so
// frames may be evaluated in any order and from any goroutine.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/render"
)

// Scene maps a local frame to a render tree. Frames before zero and past the
// scene's window are valid and yield the saturated state.
type Scene interface {
	Evaluate(frame int) render.Node
}

// Func adapts a plain function to Scene.
type Func func(frame int) render.Node

func (f Func) Evaluate(frame int) render.Node { return f(frame) }

// VideoConfig is the canvas a scene draws on.
type VideoConfig struct {
	FPS              float64
	Width            int
	Height           int
	DurationInFrames int
}

// Center returns the canvas midpoint.
func (v VideoConfig) Center() (float64, float64) {
	return float64(v.Width) / 2, float64(v.Height) / 2
}

func (v VideoConfig) validate(op string) error {
	if !(v.FPS > 0) {
		return errs.Configf(op, "fps", errs.ErrNonPositive, "%v", v.FPS)
	}
	if v.Width <= 0 {
		return errs.Configf(op, "width", errs.ErrNonPositive, "%d", v.Width)
	}
	if v.Height <= 0 {
		return errs.Configf(op, "height", errs.ErrNonPositive, "%d", v.Height)
	}
	return nil
}

// Context is everything a factory may read besides its own parameters.
// Assets may be nil, in which case only the fallback font is available.
type Context struct {
	Video  VideoConfig
	Assets *assets.Set
}

// Font looks up a font asset. The empty ref is the fallback font.
func (c Context) Font(ref assets.Ref) (*assets.Font, error) {
	return c.Assets.Font(ref)
}

// Params carries a scene's raw parameters until its factory decodes them.
type Params struct {
	node *yaml.Node
}

// ParamsOf wraps a YAML node taken from a composition file.
func ParamsOf(node *yaml.Node) Params {
	return Params{node: node}
}

// ParamsFrom builds Params from any value that YAML can encode, typically a
// map[string]any.
func ParamsFrom(v any) (Params, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return Params{}, err
	}
	return Params{node: &node}, nil
}

// MustParams is ParamsFrom for literals.
func MustParams(v any) Params {
	p, err := ParamsFrom(v)
	if err != nil {
		panic(err)
	}
	return p
}

// Empty reports whether no parameters were given.
func (p Params) Empty() bool {
	return p.node == nil || p.node.Kind == 0 ||
		(p.node.Kind == yaml.ScalarNode && p.node.Tag == "!!null")
}

// Decode fills into, which should already hold the defaults. Unknown keys
// are rejected so that typos surface at load time.
func (p Params) Decode(op string, into any) error {
	if p.Empty() {
		return nil
	}
	raw, err := yaml.Marshal(p.node)
	if err != nil {
		return errs.Config(op, "params", fmt.Errorf("%w: %v", errs.ErrInvalid, err))
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		if errs.IsConfiguration(err) {
			return err
		}
		return errs.Config(op, "params", fmt.Errorf("%w: %v", errs.ErrInvalid, err))
	}
	return nil
}

// Factory builds a scene from its parameters. All validation happens here.
type Factory func(ctx Context, params Params) (Scene, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a scene kind available to New. It panics if the kind is
// registered twice or the factory is nil.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		panic("scene: Register factory is nil for " + kind)
	}
	if _, dup := factories[kind]; dup {
		panic("scene: Register called twice for " + kind)
	}
	factories[kind] = f
}

// New builds a scene of the given kind.
func New(kind string, ctx Context, params Params) (Scene, error) {
	mu.RLock()
	f, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, errs.Configf("scene.New", "scene", errs.ErrUnknown, "%q", kind)
	}
	if err := ctx.Video.validate("scene.New"); err != nil {
		return nil, err
	}
	s, err := f(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", kind, err)
	}
	return s, nil
}

// Kinds lists registered scene kinds in alphabetical order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
