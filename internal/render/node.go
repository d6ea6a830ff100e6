// Package render describes what a frame looks like: a tree of boxes, text,
// paths and images with resolved geometry, color, opacity and transforms.
//
// Trees are built fresh for every frame and never mutated afterwards. They
// are handed to an external rasterizer as JSON or YAML; every node carries a
// "type" field naming its kind.
package render

import (
	"github.com/ivlev/scene2frames/internal/paint"
)

// Kind discriminates node variants.
type Kind string

const (
	KindBox   Kind = "box"
	KindText  Kind = "text"
	KindPath  Kind = "path"
	KindImage Kind = "image"
	KindGroup Kind = "group"
)

// Node is one of Box, Text, Path, Image or Group.
type Node interface {
	Kind() Kind
	common() Common
}

// Ref is an opaque handle to an asset resolved before rendering started.
// Nodes carry it through unchanged.
type Ref string

// Transform places a node. X and Y locate the node's center relative to its
// parent's origin; Scale 0 collapses the node.
type Transform struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Scale  float64 `json:"scale" yaml:"scale"`
	Rotate float64 `json:"rotate,omitempty" yaml:"rotate,omitempty"` // degrees, clockwise
}

// Common holds the fields shared by every node.
type Common struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Transform Transform `json:"transform" yaml:"transform"`
	Opacity   float64   `json:"opacity" yaml:"opacity"`
}

// At returns a fully opaque, unscaled placement at (x, y).
func At(x, y float64) Common {
	return Common{Transform: Transform{X: x, Y: y, Scale: 1}, Opacity: 1}
}

func (c Common) WithID(id string) Common {
	c.ID = id
	return c
}

func (c Common) WithOpacity(o float64) Common {
	c.Opacity = o
	return c
}

func (c Common) WithScale(s float64) Common {
	c.Transform.Scale = s
	return c
}

func (c Common) WithRotation(deg float64) Common {
	c.Transform.Rotate = deg
	return c
}

// Shifted moves the placement by (dx, dy).
func (c Common) Shifted(dx, dy float64) Common {
	c.Transform.X += dx
	c.Transform.Y += dy
	return c
}

// Shadow is a blurred drop shadow or glow.
type Shadow struct {
	Color   paint.Color `json:"color" yaml:"color"`
	Blur    float64     `json:"blur" yaml:"blur"`
	OffsetX float64     `json:"offsetX,omitempty" yaml:"offsetX,omitempty"`
	OffsetY float64     `json:"offsetY,omitempty" yaml:"offsetY,omitempty"`
}

// Stop is a gradient color stop at Offset in [0, 1].
type Stop struct {
	Offset float64     `json:"offset" yaml:"offset"`
	Color  paint.Color `json:"color" yaml:"color"`
}

// Gradient is a linear gradient drawn at Angle degrees (CSS convention).
type Gradient struct {
	Angle float64 `json:"angle" yaml:"angle"`
	Stops []Stop  `json:"stops" yaml:"stops"`
}

// Stroke outlines a shape. A non-zero Dash draws a dash pattern of that
// length with equal gaps, shifted by DashOffset.
type Stroke struct {
	Color      paint.Color `json:"color" yaml:"color"`
	Width      float64     `json:"width" yaml:"width"`
	Dash       float64     `json:"dash,omitempty" yaml:"dash,omitempty"`
	DashOffset float64     `json:"dashOffset,omitempty" yaml:"dashOffset,omitempty"`
}

// Box is a rectangle, a rounded rectangle or, with Radius at half the
// smaller side, a circle.
type Box struct {
	Common   `yaml:",inline"`
	Width    float64     `json:"width" yaml:"width"`
	Height   float64     `json:"height" yaml:"height"`
	Fill     paint.Color `json:"fill" yaml:"fill"`
	Radius   float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
	Gradient *Gradient   `json:"gradient,omitempty" yaml:"gradient,omitempty"`
	Stroke   *Stroke     `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Shadow   *Shadow     `json:"shadow,omitempty" yaml:"shadow,omitempty"`
}

// Align is horizontal text alignment around the node's X.
type Align string

const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
)

// Text is a single line of text. Width is the measured advance of Content
// in the given font at Size, so the rasterizer does not need to lay out.
// Unlike other nodes, Text is anchored on its baseline: Y is the baseline
// and X is the left edge, center or right edge depending on Align.
type Text struct {
	Common        `yaml:",inline"`
	Content       string      `json:"content" yaml:"content"`
	Font          Ref         `json:"font,omitempty" yaml:"font,omitempty"`
	Size          float64     `json:"size" yaml:"size"`
	Weight        int         `json:"weight,omitempty" yaml:"weight,omitempty"`
	Color         paint.Color `json:"color" yaml:"color"`
	Align         Align       `json:"align,omitempty" yaml:"align,omitempty"`
	LetterSpacing float64     `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	Width         float64     `json:"width" yaml:"width"`
	Stroke        *Stroke     `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Shadow        *Shadow     `json:"shadow,omitempty" yaml:"shadow,omitempty"`
}

// Path is SVG path data in a Width x Height box centered on the node. Path
// coordinates are pixels from the top-left corner of that box.
type Path struct {
	Common `yaml:",inline"`
	D      string      `json:"d" yaml:"d"`
	Width  float64     `json:"width" yaml:"width"`
	Height float64     `json:"height" yaml:"height"`
	Fill   paint.Color `json:"fill" yaml:"fill"`
	Stroke *Stroke     `json:"stroke,omitempty" yaml:"stroke,omitempty"`
}

// Image draws a resolved image asset scaled to Width x Height.
type Image struct {
	Common `yaml:",inline"`
	Asset  Ref     `json:"asset" yaml:"asset"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Group composes children back to front: later children draw on top.
// Children are placed relative to the group's transform.
type Group struct {
	Common   `yaml:",inline"`
	Clip     bool   `json:"clip,omitempty" yaml:"clip,omitempty"`
	Children []Node `json:"children" yaml:"children"`
}

func (Box) Kind() Kind   { return KindBox }
func (Text) Kind() Kind  { return KindText }
func (Path) Kind() Kind  { return KindPath }
func (Image) Kind() Kind { return KindImage }
func (Group) Kind() Kind { return KindGroup }

func (n Box) common() Common   { return n.Common }
func (n Text) common() Common  { return n.Common }
func (n Path) common() Common  { return n.Common }
func (n Image) common() Common { return n.Common }
func (n Group) common() Common { return n.Common }

// Stack returns an identity group holding children.
func Stack(id string, children ...Node) Group {
	return Group{Common: At(0, 0).WithID(id), Children: children}
}

// Frame is the render tree of one composition frame.
type Frame struct {
	Composition string  `json:"composition" yaml:"composition"`
	Index       int     `json:"frame" yaml:"frame"`
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	FPS         float64 `json:"fps" yaml:"fps"`
	Root        Group   `json:"root" yaml:"root"`
}
