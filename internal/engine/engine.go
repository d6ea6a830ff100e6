// Package engine renders a frame range of a composition in parallel and
// hands the trees to an output writer.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scene2frames/internal/composition"
	"github.com/ivlev/scene2frames/internal/config"
	"github.com/ivlev/scene2frames/internal/errs"
	"github.com/ivlev/scene2frames/internal/system"
)

type Project struct {
	Config      *config.Config
	Composition *composition.Composition
	Writer      Writer
}

func NewProject(cfg *config.Config, comp *composition.Composition, w Writer) *Project {
	return &Project{
		Config:      cfg,
		Composition: comp,
		Writer:      w,
	}
}

// Run describes one render run to a Writer.
type Run struct {
	ID          string
	Build       string
	Started     time.Time
	Composition *composition.Composition
	From, To    int
}

// Frames is the number of frames in the run.
func (r Run) Frames() int {
	return r.To - r.From
}

// Run evaluates every frame of the configured range. Frames are
// independent, so they are spread over a bounded worker group in any
// order; writers restore the order where it matters.
func (p *Project) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	comp := p.Composition

	duration := comp.DurationInFrames()
	from, to := p.Config.Range(duration)
	if from < 0 || from >= duration || to > duration {
		return Report{}, fmt.Errorf("%w: [%d, %d) not in [0, %d)", errs.ErrFrameOutOfRange, from, to, duration)
	}

	run := Run{
		ID:          uuid.NewString(),
		Build:       p.Config.BuildVersion,
		Started:     startTime,
		Composition: comp,
		From:        from,
		To:          to,
	}
	workers := system.Workers(p.Config.Workers, run.Frames())
	logger := log.With().Str("run", run.ID).Str("composition", comp.ID).Logger()

	logger.Info().
		Int("from", from).
		Int("to", to).
		Int("workers", workers).
		Str("resolution", fmt.Sprintf("%dx%d@%g", comp.Video.Width, comp.Video.Height, comp.Video.FPS)).
		Msg("[*] Запуск рендера кадров")

	if err := p.Writer.Begin(run); err != nil {
		return Report{}, fmt.Errorf("ошибка подготовки вывода: %w", err)
	}

	evalStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := from; i < to; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			frame, err := comp.Frame(i)
			if err != nil {
				return err
			}
			if err := p.Writer.WriteFrame(frame); err != nil {
				return fmt.Errorf("кадр %d: %w", i, err)
			}
			logger.Trace().Int("frame", i).Msg("[>] Кадр готов")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	evalTime := time.Since(evalStart)

	writeStart := time.Now()
	if err := p.Writer.Close(); err != nil {
		return Report{}, fmt.Errorf("ошибка записи вывода: %w", err)
	}
	writeTime := time.Since(writeStart)

	totalTime := time.Since(startTime)
	report := Report{
		RunID:       run.ID,
		Build:       run.Build,
		Composition: comp.ID,
		Frames:      run.Frames(),
		Workers:     workers,
		Total:       totalTime,
		Evaluate:    evalTime,
		Write:       writeTime,
		FPS:         float64(run.Frames()) / totalTime.Seconds(),
	}
	logger.Info().Int("frames", report.Frames).Dur("total", totalTime).Msg("[+++] Рендер завершён")

	if p.Config.ShowStats {
		fmt.Fprint(os.Stderr, report.String())
		if p.Config.BenchmarkLog != "" {
			if err := report.Append(p.Config.BenchmarkLog); err != nil {
				logger.Warn().Err(err).Msg("[!] Не удалось записать " + p.Config.BenchmarkLog)
			}
		}
	}
	return report, nil
}
