package timeline

import (
	"github.com/ivlev/scene2frames/internal/errs"
)

// Loop repeats a window of Duration frames. Times == 0 repeats forever.
type Loop struct {
	Duration int `yaml:"durationInFrames" json:"durationInFrames"`
	Times    int `yaml:"times,omitempty" json:"times,omitempty"`
}

// Validate checks the loop window.
func (l Loop) Validate() error {
	if l.Duration <= 0 {
		return errs.Configf("timeline.Loop", "durationInFrames", errs.ErrNonPositive, "%d", l.Duration)
	}
	if l.Times < 0 {
		return errs.Configf("timeline.Loop", "times", errs.ErrNegative, "%d", l.Times)
	}
	return nil
}

// Local maps a frame relative to the loop start onto the frame inside the
// current iteration. ok is false before the loop starts and after the last
// iteration ends.
func (l Loop) Local(localFrame int) (frame, iteration int, ok bool) {
	if l.Duration <= 0 || localFrame < 0 {
		return 0, 0, false
	}
	iteration = localFrame / l.Duration
	if l.Times > 0 && iteration >= l.Times {
		return 0, iteration, false
	}
	return localFrame % l.Duration, iteration, true
}

// Total is the loop's full length, or 0 when it repeats forever.
func (l Loop) Total() int {
	if l.Times == 0 {
		return 0
	}
	return l.Duration * l.Times
}
