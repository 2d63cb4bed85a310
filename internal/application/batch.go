package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

var (
	// ErrMissingDirectory не задан один из сравниваемых каталогов
	ErrMissingDirectory = errors.New("both directories are required")

	// ErrPairCountMismatch число файлов в каталогах различается (строгий режим)
	ErrPairCountMismatch = errors.New("directories contain a different number of images")
)

// BatchConfig параметры прогона, задаются при создании сервиса
type BatchConfig struct {
	DirA        string // первый каталог
	DirB        string // второй каталог
	Extension   string // расширение файлов без точки, например "png"
	RunID       string // идентификатор прогона в трекере
	Verbose     bool   // печатать строку по каждой паре и итог
	StrictPairs bool   // считать разное число файлов ошибкой
}

// Validate проверяет обязательные поля
func (c BatchConfig) Validate() error {
	if c.DirA == "" || c.DirB == "" {
		return ErrMissingDirectory
	}
	if strings.TrimPrefix(c.Extension, ".") == "" {
		return errors.New("file extension must not be empty")
	}
	if c.RunID == "" {
		return errors.New("run id is required")
	}
	return nil
}

// BatchService сравнивает два каталога изображений попарно
type BatchService struct {
	cfg      BatchConfig
	finder   port.FileFinder
	loader   port.ImageLoader
	measure  *MeasureService
	sink     port.MetricsSink
	archive  port.ResultRepository
	notifier port.Notifier
	out      io.Writer
	log      zerolog.Logger
}

// NewBatchService создаёт сервис прогона. archive и notifier могут быть nil.
func NewBatchService(
	cfg BatchConfig,
	finder port.FileFinder,
	loader port.ImageLoader,
	measure *MeasureService,
	sink port.MetricsSink,
	archive port.ResultRepository,
	notifier port.Notifier,
	out io.Writer,
	log zerolog.Logger,
) *BatchService {
	if out == nil {
		out = io.Discard
	}
	return &BatchService{
		cfg:      cfg,
		finder:   finder,
		loader:   loader,
		measure:  measure,
		sink:     sink,
		archive:  archive,
		notifier: notifier,
		out:      out,
		log:      log,
	}
}

// MeasureDirs выполняет прогон: поиск пар, расчёт метрик, запись в трекер и итог.
// Первая же ошибка прерывает прогон, итог в этом случае не пишется.
func (s *BatchService) MeasureDirs(ctx context.Context) (entity.RunSummary, error) {
	if err := s.cfg.Validate(); err != nil {
		return entity.RunSummary{}, err
	}

	run := entity.NewRun(s.cfg.RunID)
	summary, err := s.execute(ctx, run)
	if err != nil {
		s.setState(run, entity.StateFailed)
		return entity.RunSummary{}, err
	}
	s.setState(run, entity.StateDone)
	return summary, nil
}

func (s *BatchService) execute(ctx context.Context, run *entity.Run) (entity.RunSummary, error) {
	start := time.Now()

	pairs, err := s.resolvePairs()
	if err != nil {
		return entity.RunSummary{}, err
	}

	s.vprintf("Comparing: \n%s\n%s\n", s.cfg.DirA, s.cfg.DirB)
	fmt.Fprintf(s.out, "Measure device: %s\n", s.measure.Device())

	s.setState(run, entity.StateMeasuring)
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return entity.RunSummary{}, err
		}

		pairStart := time.Now()
		result, err := s.measurePair(ctx, pair)
		if err != nil {
			return entity.RunSummary{}, fmt.Errorf("pair %d (%s, %s): %w", pair.Index, pair.PathA, pair.PathB, err)
		}
		if err := s.sink.LogMetrics(ctx, result.Scalars(), pair.Index); err != nil {
			return entity.RunSummary{}, fmt.Errorf("log metrics for step %d: %w", pair.Index, err)
		}
		if s.archive != nil {
			if err := s.archive.SavePair(ctx, run.ID, pair, result); err != nil {
				return entity.RunSummary{}, fmt.Errorf("archive step %d: %w", pair.Index, err)
			}
		}
		run.Record(result)

		s.vprintf("%s, %s, %s, %0.1f\n",
			filepath.Base(pair.PathA), filepath.Base(pair.PathB), result, time.Since(pairStart).Seconds())
	}

	s.setState(run, entity.StateAggregating)
	if len(run.Results) == 0 {
		s.log.Warn().Str("dirA", s.cfg.DirA).Str("dirB", s.cfg.DirB).Msg("no image pairs found, averages are NaN")
	}
	summary := entity.Summarize(run.Results, time.Since(start))
	if err := s.sink.LogSummary(ctx, summary.Scalars()); err != nil {
		return entity.RunSummary{}, fmt.Errorf("log summary: %w", err)
	}
	if s.archive != nil {
		if err := s.archive.SaveSummary(ctx, run.ID, summary); err != nil {
			return entity.RunSummary{}, fmt.Errorf("archive summary: %w", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifySummary(ctx, run.ID, summary); err != nil {
			s.log.Warn().Err(err).Msg("failed to send run summary")
		}
	}

	s.vprintf("Final Result: %s, %0.1fs\n", summary, summary.Elapsed.Seconds())
	return summary, nil
}

// resolvePairs находит файлы в обоих каталогах и составляет пары по порядку
func (s *BatchService) resolvePairs() ([]entity.ImagePair, error) {
	pathsA, err := s.finder.Find(s.cfg.DirA, s.cfg.Extension)
	if err != nil {
		return nil, fmt.Errorf("find images in %s: %w", s.cfg.DirA, err)
	}
	pathsB, err := s.finder.Find(s.cfg.DirB, s.cfg.Extension)
	if err != nil {
		return nil, fmt.Errorf("find images in %s: %w", s.cfg.DirB, err)
	}

	if len(pathsA) != len(pathsB) {
		if s.cfg.StrictPairs {
			return nil, fmt.Errorf("%w: %d in %s, %d in %s",
				ErrPairCountMismatch, len(pathsA), s.cfg.DirA, len(pathsB), s.cfg.DirB)
		}
		s.log.Warn().
			Int("countA", len(pathsA)).
			Int("countB", len(pathsB)).
			Msg("image counts differ, extra files are ignored")
	}

	pairs := entity.PairPaths(pathsA, pathsB)
	s.log.Debug().Int("pairs", len(pairs)).Str("extension", s.cfg.Extension).Msg("image pairs resolved")
	return pairs, nil
}

// measurePair загружает оба изображения и считает метрики
func (s *BatchService) measurePair(ctx context.Context, pair entity.ImagePair) (entity.MetricResult, error) {
	imgA, err := s.loader.Load(pair.PathA)
	if err != nil {
		return entity.MetricResult{}, err
	}
	imgB, err := s.loader.Load(pair.PathB)
	if err != nil {
		return entity.MetricResult{}, err
	}
	return s.measure.Measure(ctx, imgA, imgB)
}

func (s *BatchService) setState(run *entity.Run, state entity.RunState) {
	run.SetState(state)
	s.log.Debug().Str("run", run.ID).Str("state", string(state)).Msg("run state changed")
}

func (s *BatchService) vprintf(format string, args ...interface{}) {
	if !s.cfg.Verbose {
		return
	}
	fmt.Fprintf(s.out, format, args...)
}
