// Package timeline decides which entries are active at a frame.
//
// Scheduling is stateless: Active is a pure function of the entries and the
// frame, so frame 500 can be evaluated without touching frames 0 to 499.
package timeline

import (
	"strconv"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Entry is a scheduled window carrying arbitrary content. A zero Duration
// leaves the window open until the end of the timeline.
type Entry[T any] struct {
	Name     string
	From     int
	Duration int
	Content  T
}

// Unbounded reports whether the entry runs until the end of the timeline.
func (e Entry[T]) Unbounded() bool {
	return e.Duration == 0
}

// End is the first frame after the entry. Unbounded entries report -1.
func (e Entry[T]) End() int {
	if e.Unbounded() {
		return -1
	}
	return e.From + e.Duration
}

// Contains reports whether frame lies inside the entry's window.
func (e Entry[T]) Contains(frame int) bool {
	if frame < e.From {
		return false
	}
	return e.Unbounded() || frame < e.From+e.Duration
}

// Activation pairs an active entry with the frame it sees.
type Activation[T any] struct {
	Entry Entry[T]
	// Index is the entry's position in declaration order.
	Index int
	// LocalFrame is the global frame minus the entry's From.
	LocalFrame int
}

// Active returns the entries whose window contains frame, in declaration
// order. Later activations draw on top of earlier ones.
func Active[T any](entries []Entry[T], frame int) []Activation[T] {
	var out []Activation[T]
	for i, e := range entries {
		if !e.Contains(frame) {
			continue
		}
		out = append(out, Activation[T]{Entry: e, Index: i, LocalFrame: frame - e.From})
	}
	return out
}

// Validate rejects negative starts and durations.
func Validate[T any](entries []Entry[T]) error {
	for i, e := range entries {
		if e.From < 0 {
			return errs.Configf("timeline.Validate", field(i, e, "from"), errs.ErrNegative, "%d", e.From)
		}
		if e.Duration < 0 {
			return errs.Configf("timeline.Validate", field(i, e, "durationInFrames"), errs.ErrNegative, "%d", e.Duration)
		}
	}
	return nil
}

func field[T any](i int, e Entry[T], name string) string {
	if e.Name != "" {
		return e.Name + "." + name
	}
	return "entries[" + strconv.Itoa(i) + "]." + name
}

// Timeline is a validated, immutable list of entries.
type Timeline[T any] struct {
	entries []Entry[T]
}

// New validates entries and copies them.
func New[T any](entries []Entry[T]) (*Timeline[T], error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return &Timeline[T]{entries: append([]Entry[T](nil), entries...)}, nil
}

// Active is the package-level Active over the timeline's entries.
func (t *Timeline[T]) Active(frame int) []Activation[T] {
	return Active(t.entries, frame)
}

// Entries returns a copy of the entries.
func (t *Timeline[T]) Entries() []Entry[T] {
	return append([]Entry[T](nil), t.entries...)
}

// Len is the number of entries.
func (t *Timeline[T]) Len() int {
	return len(t.entries)
}

// End is the largest bounded end frame, or 0 when no entry is bounded.
func (t *Timeline[T]) End() int {
	end := 0
	for _, e := range t.entries {
		if e.End() > end {
			end = e.End()
		}
	}
	return end
}
