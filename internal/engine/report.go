package engine

import (
	"fmt"
	"os"
	"time"
)

// Report holds the timings of one run.
type Report struct {
	RunID       string
	Build       string
	Composition string
	Frames      int
	Workers     int
	Total       time.Duration
	Evaluate    time.Duration // evaluation, including per-frame writes
	Write       time.Duration // flushing buffered output
	FPS         float64
}

func (r Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Run: %s\n"+
			"Build: %s\n"+
			"Composition: %s\n"+
			"Frames: %d (workers: %d)\n"+
			"Total Time: %.2fs\n"+
			"Evaluation: %.2fs\n"+
			"Writing: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		r.RunID, r.Build, r.Composition, r.Frames, r.Workers,
		r.Total.Seconds(), r.Evaluate.Seconds(), r.Write.Seconds(), r.FPS,
	)
}

// Append adds a one-line summary to the benchmark log at path.
func (r Report) Append(path string) error {
	line := fmt.Sprintf("[%s] Build: %s | Run: %s | Composition: %s | Frames: %d | Workers: %d | Total: %.2fs | Evaluate: %.2fs | Write: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Build,
		r.RunID,
		r.Composition,
		r.Frames,
		r.Workers,
		r.Total.Seconds(),
		r.Evaluate.Seconds(),
		r.Write.Seconds(),
		r.FPS,
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
