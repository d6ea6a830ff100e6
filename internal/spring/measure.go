package spring

import (
	"math"

	"github.com/ivlev/scene2frames/internal/errs"
)

const (
	// DefaultRestThreshold is the displacement from the target below which
	// a spring counts as settled.
	DefaultRestThreshold = 0.005

	// settleWindow is how many consecutive frames must stay within the
	// threshold.
	settleWindow = 20

	maxMeasureFrames = 1 << 20
)

// Measure returns the natural duration of cfg in frames: the frame after
// which the unit step response stays within threshold of the target for
// settleWindow consecutive frames. A threshold of zero means
// DefaultRestThreshold; thresholds of 1 or more settle at frame 0.
func Measure(fps float64, cfg Config, threshold float64) (int, error) {
	if err := checkFPS("spring.Measure", fps); err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	switch {
	case threshold == 0:
		threshold = DefaultRestThreshold
	case threshold < 0 || math.IsNaN(threshold):
		return 0, errs.Configf("spring.Measure", "threshold", errs.ErrNonPositive, "%v", threshold)
	case threshold >= 1:
		return 0, nil
	}

	omega, zeta, v0 := cfg.AngularFrequency(), cfg.DampingRatio(), cfg.InitialVelocity
	away := func(frame int) bool {
		return math.Abs(step(float64(frame)/fps, omega, zeta, v0)-1) >= threshold
	}

	frame := 0
	for away(frame) {
		frame++
		if frame > maxMeasureFrames {
			return 0, errs.Configf("spring.Measure", "config", errs.ErrInvalid, "does not settle within %d frames", maxMeasureFrames)
		}
	}

	settled := frame
	for calm := 0; calm < settleWindow; calm++ {
		frame++
		if frame > maxMeasureFrames {
			return 0, errs.Configf("spring.Measure", "config", errs.ErrInvalid, "does not settle within %d frames", maxMeasureFrames)
		}
		if away(frame) {
			calm = -1
			settled = frame + 1
		}
	}
	return settled, nil
}
