package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ivlev/scene2frames/internal/assets"
	"github.com/ivlev/scene2frames/internal/composition"
	"github.com/ivlev/scene2frames/internal/config"
	"github.com/ivlev/scene2frames/internal/engine"
	"github.com/ivlev/scene2frames/internal/scene"
	"github.com/ivlev/scene2frames/internal/system"
)

var buildVersion = "dev"

const compositionsDir = "input/compositions"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	for _, d := range []string{compositionsDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	def := config.Default()
	compositionPtr := flag.String("composition", "", "Путь к YAML-композиции (по умолчанию: самый свежий файл в "+compositionsDir+"/)")
	idPtr := flag.String("id", "", "ID композиции в файле (по умолчанию: первая)")
	assetsPtr := flag.String("assets", "", "Папка ассетов (по умолчанию: папка композиции)")
	framePtr := flag.Int("frame", config.NoFrame, "Один кадр (-1: диапазон -from/-to)")
	fromPtr := flag.Int("from", 0, "Первый кадр диапазона")
	toPtr := flag.Int("to", 0, "Кадр после последнего (0: до конца композиции)")
	outputPtr := flag.String("output", "", "Файл или папка вывода, '-' для stdout (если пусто, генерируется в output/)")
	formatPtr := flag.String("format", def.Format, "Формат вывода: jsonl, dir, yaml")
	workersPtr := flag.Int("workers", 0, "Потоки (0: по числу логических CPU)")
	fpsPtr := flag.Float64("fps", 0, "Переопределить FPS композиции")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и записать benchmark.log")
	listPtr := flag.Bool("list", false, "Показать композиции, сцены и последовательности")
	checkPtr := flag.Bool("check", false, "Проверить композицию без рендера")
	logLevelPtr := flag.String("log-level", def.LogLevel, "Уровень логов: trace, debug, info, warn, error")
	flag.Parse()

	cfg := &config.Config{
		CompositionPath: *compositionPtr,
		CompositionID:   *idPtr,
		AssetsDir:       *assetsPtr,
		Frame:           *framePtr,
		From:            *fromPtr,
		To:              *toPtr,
		FPS:             *fpsPtr,
		OutputPath:      *outputPtr,
		Format:          *formatPtr,
		Workers:         *workersPtr,
		ShowStats:       *statsPtr,
		BenchmarkLog:    def.BenchmarkLog,
		List:            *listPtr,
		Check:           *checkPtr,
		LogLevel:        *logLevelPtr,
		BuildVersion:    buildVersion,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("[-] Неверные параметры")
	}
	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)

	if cfg.CompositionPath == "" {
		latest, err := composition.FindLatest(compositionsDir)
		if err != nil {
			log.Fatal().Err(err).Msg("[-] Положите композицию в " + compositionsDir + "/")
		}
		cfg.CompositionPath = latest
		log.Info().Str("path", latest).Msg("[*] Выбран файл")
	}

	doc, err := composition.Read(cfg.CompositionPath)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Ошибка чтения композиции")
	}
	if cfg.List {
		list(os.Stdout, doc, cfg)
		return
	}

	spec, err := doc.Find(cfg.CompositionID)
	if err != nil {
		log.Fatal().Err(err).Strs("available", doc.IDs()).Msg("[-] Композиция не найдена")
	}
	comp, err := build(*spec, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Ошибка сборки композиции")
	}

	if cfg.Check {
		warnings := comp.Warnings()
		for _, w := range warnings {
			log.Warn().Msg("[!] " + w)
		}
		log.Info().
			Str("composition", comp.ID).
			Int("frames", comp.DurationInFrames()).
			Int("sequences", len(comp.Sequences())).
			Int("warnings", len(warnings)).
			Msg("[+++] Композиция корректна")
		return
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = outputName(comp.ID, cfg.Format, time.Now())
	}
	out, closeOut, err := openOutput(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Ошибка открытия вывода")
	}

	w, err := engine.NewWriter(cfg.Format, out, cfg.OutputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Ошибка вывода")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewProject(cfg, comp, w)
	report, err := project.Run(ctx)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal().Err(err).Msg("[-] Ошибка проекта")
	}

	log.Info().Str("run", report.RunID).Str("output", cfg.OutputPath).Msg("[+++] Успех!")
}

func build(spec composition.Spec, cfg *config.Config) (*composition.Composition, error) {
	if cfg.FPS > 0 {
		spec.FPS = cfg.FPS
	}
	dir := cfg.AssetsDir
	if dir == "" {
		dir = filepath.Dir(cfg.CompositionPath)
	}
	return composition.Build(spec, assets.Dir(dir))
}

func outputName(id, format string, now time.Time) string {
	name := strings.ReplaceAll(id, " ", "_") + "_" + now.Format("2006-01-02_15-04-05")
	switch format {
	case config.FormatJSONL:
		name += ".jsonl"
	case config.FormatYAML:
		name += ".yaml"
	}
	return filepath.Join("output", name)
}

// openOutput opens the stream for the jsonl and yaml formats. The dir
// format writes its own files.
func openOutput(cfg *config.Config) (io.Writer, func() error, error) {
	nop := func() error { return nil }
	if cfg.Format == config.FormatDir {
		return nil, nop, nil
	}
	if cfg.OutputPath == "-" {
		return os.Stdout, nop, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func list(w io.Writer, doc *composition.Document, cfg *config.Config) {
	fmt.Fprintf(w, "Scenes: %s\n", strings.Join(scene.Kinds(), ", "))
	for i := range doc.Compositions {
		spec := doc.Compositions[i]
		comp, err := build(spec, cfg)
		if err != nil {
			fmt.Fprintf(w, "\n%s: %v\n", spec.ID, err)
			continue
		}
		fmt.Fprintf(w, "\n%s  %dx%d @ %g fps, %d frames\n",
			comp.ID, comp.Video.Width, comp.Video.Height, comp.Video.FPS, comp.DurationInFrames())
		for _, s := range comp.Sequences() {
			end := "end"
			if s.Duration > 0 {
				end = fmt.Sprint(s.From + s.Duration)
			}
			fmt.Fprintf(w, "  %-16s %-16s [%d, %s)\n", s.Name, s.Scene, s.From, end)
		}
	}
}
