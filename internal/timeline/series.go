package timeline

import (
	"github.com/ivlev/scene2frames/internal/errs"
)

// Series places entries back to back. Each item starts where the previous
// one ended, shifted by its offset; a negative offset overlaps the two.
type Series[T any] struct {
	from    int
	cursor  int
	open    bool
	entries []Entry[T]
	err     error
}

// NewSeries starts a series at frame from.
func NewSeries[T any](from int) *Series[T] {
	return &Series[T]{from: from, cursor: from}
}

// Add appends an item. A zero duration makes it unbounded, which is only
// allowed for the last item. The first error sticks and is reported by
// Entries.
func (s *Series[T]) Add(name string, duration, offset int, content T) *Series[T] {
	if s.err != nil {
		return s
	}
	switch {
	case s.open:
		s.err = errs.Configf("timeline.Series", name, errs.ErrInvalid, "follows unbounded item %q", s.entries[len(s.entries)-1].Name)
		return s
	case duration < 0:
		s.err = errs.Configf("timeline.Series", name+".durationInFrames", errs.ErrNegative, "%d", duration)
		return s
	}

	start := s.cursor + offset
	if start < 0 {
		s.err = errs.Configf("timeline.Series", name+".offset", errs.ErrNegative, "item would start at %d", start)
		return s
	}
	s.entries = append(s.entries, Entry[T]{Name: name, From: start, Duration: duration, Content: content})
	s.cursor = start + duration
	s.open = duration == 0
	return s
}

// Entries returns the placed entries or the first placement error.
func (s *Series[T]) Entries() ([]Entry[T], error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]Entry[T](nil), s.entries...), nil
}

// End is the frame after the last bounded item.
func (s *Series[T]) End() int {
	return s.cursor
}
