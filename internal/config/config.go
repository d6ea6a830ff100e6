// Package config holds the settings of one render run.
package config

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Output formats.
const (
	FormatJSONL = "jsonl"
	FormatDir   = "dir"
	FormatYAML  = "yaml"
)

// NoFrame marks Frame as unset.
const NoFrame = -1

type Config struct {
	CompositionPath string
	CompositionID   string
	AssetsDir       string // relative asset paths resolve here; defaults to the composition's directory

	// Frame selects a single frame. When it is NoFrame, the range [From, To)
	// is rendered; To <= 0 means the end of the composition.
	Frame int
	From  int
	To    int

	FPS          float64 // overrides the composition's fps when > 0
	OutputPath   string  // "-" writes to stdout; empty picks a name under output/
	Format       string
	Workers      int // 0 picks the number of logical CPUs
	ShowStats    bool
	BenchmarkLog string
	List         bool
	Check        bool
	LogLevel     string
	BuildVersion string
}

// Default returns the settings used when no flags are given.
func Default() *Config {
	return &Config{
		Frame:        NoFrame,
		Format:       FormatJSONL,
		BenchmarkLog: "benchmark.log",
		LogLevel:     "info",
		BuildVersion: "dev",
	}
}

// Range returns the frames to render, clipped to a composition of
// duration frames.
func (c *Config) Range(duration int) (from, to int) {
	if c.Frame != NoFrame {
		return c.Frame, c.Frame + 1
	}
	to = c.To
	if to <= 0 || to > duration {
		to = duration
	}
	return c.From, to
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errs.Configf("config", "log-level", errs.ErrUnknown, "%q", c.LogLevel)
	}
	return level, nil
}

// Validate checks flag combinations that do not depend on the composition.
func (c *Config) Validate() error {
	const op = "config"
	switch c.Format {
	case FormatJSONL, FormatDir, FormatYAML:
	default:
		return errs.Configf(op, "format", errs.ErrUnknown, "%q", c.Format)
	}
	if c.Frame < NoFrame {
		return errs.Configf(op, "frame", errs.ErrNegative, "%d", c.Frame)
	}
	if c.From < 0 {
		return errs.Configf(op, "from", errs.ErrNegative, "%d", c.From)
	}
	if c.To > 0 && c.To <= c.From {
		return errs.Configf(op, "to", errs.ErrInvalid, "%d is not after from %d", c.To, c.From)
	}
	if c.Frame != NoFrame && (c.From != 0 || c.To != 0) {
		return errs.Configf(op, "frame", errs.ErrInvalid, "cannot be combined with from/to")
	}
	if c.Format == FormatYAML && c.Frame == NoFrame {
		return errs.Configf(op, "format", errs.ErrInvalid, "yaml output needs a single -frame")
	}
	if c.Format == FormatDir && c.OutputPath == "-" {
		return errs.Configf(op, "output", errs.ErrInvalid, "dir output needs a directory")
	}
	if c.Workers < 0 {
		return errs.Configf(op, "workers", errs.ErrNegative, "%d", c.Workers)
	}
	if math.IsNaN(c.FPS) || math.IsInf(c.FPS, 0) {
		return errs.Configf(op, "fps", errs.ErrNotFinite, "%v", c.FPS)
	}
	if c.FPS < 0 {
		return errs.Configf(op, "fps", errs.ErrNegative, "%v", c.FPS)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
