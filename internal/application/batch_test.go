package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/infrastructure/storage"
)

type fakeFinder map[string][]string

func (f fakeFinder) Find(root, extension string) ([]string, error) {
	paths, ok := f[root]
	if !ok {
		return nil, fmt.Errorf("no such directory: %s", root)
	}
	return paths, nil
}

type fakeLoader map[string]entity.Image

func (l fakeLoader) Load(path string) (entity.Image, error) {
	img, ok := l[path]
	if !ok {
		return entity.Image{}, fmt.Errorf("cannot read %s", path)
	}
	return img, nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) NotifySummary(ctx context.Context, runID string, summary entity.RunSummary) error {
	n.calls++
	return n.err
}

type batchFixture struct {
	finder   fakeFinder
	loader   fakeLoader
	model    *fakeModel
	sink     *storage.MemoryMetricsSink
	notifier *fakeNotifier
	out      *bytes.Buffer
}

func newBatchFixture() *batchFixture {
	gradient := gradientImage(8, 8)
	dark := filledImage(8, 8, 20, 20, 20)
	return &batchFixture{
		finder: fakeFinder{
			"a": {"a/img1.png", "a/img2.png"},
			"b": {"b/img1.png", "b/img2.png"},
		},
		loader: fakeLoader{
			"a/img1.png": gradient,
			"b/img1.png": gradient,
			"a/img2.png": gradient,
			"b/img2.png": dark,
		},
		model:    &fakeModel{},
		sink:     storage.NewMemoryMetricsSink(),
		notifier: &fakeNotifier{},
		out:      &bytes.Buffer{},
	}
}

func (f *batchFixture) service(cfg BatchConfig) *BatchService {
	return NewBatchService(cfg, f.finder, f.loader, NewMeasureService(f.model), f.sink, f.sink, f.notifier, f.out, zerolog.Nop())
}

func defaultBatchConfig() BatchConfig {
	return BatchConfig{DirA: "a", DirB: "b", Extension: "png", RunID: "run-1", Verbose: true}
}

func TestBatchService_MeasureDirs(t *testing.T) {
	f := newBatchFixture()
	summary, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.NoError(t, err)

	steps := f.sink.Steps()
	require.Len(t, steps, 2)
	require.Equal(t, 0, steps[0].Step)
	require.Equal(t, 1, steps[1].Step)
	for _, s := range steps {
		require.Len(t, s.Metrics, 3)
		require.Contains(t, s.Metrics, entity.KeyPSNR)
		require.Contains(t, s.Metrics, entity.KeySSIM)
		require.Contains(t, s.Metrics, entity.KeyLPIPS)
	}
	require.True(t, math.IsInf(steps[0].Metrics[entity.KeyPSNR], 1))
	require.Equal(t, 1.0, steps[0].Metrics[entity.KeySSIM])

	summaries := f.sink.Summaries()
	require.Len(t, summaries, 1)
	require.Len(t, summaries[0], 3)
	require.Equal(t, summary.SSIM, summaries[0][entity.KeyAverageSSIM])

	require.Equal(t, 2, summary.Pairs)
	wantSSIM := (steps[0].Metrics[entity.KeySSIM] + steps[1].Metrics[entity.KeySSIM]) / 2
	require.InDelta(t, wantSSIM, summary.SSIM, 1e-12)
	require.True(t, math.IsInf(summary.PSNR, 1))

	require.Len(t, f.sink.Pairs("run-1"), 2)
	archived, ok := f.sink.Summary("run-1")
	require.True(t, ok)
	require.Equal(t, summary.Pairs, archived.Pairs)
	require.Equal(t, 1, f.notifier.calls)
	require.Equal(t, 2, f.model.calls)
}

func TestBatchService_VerboseOutput(t *testing.T) {
	f := newBatchFixture()
	_, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.NoError(t, err)

	out := f.out.String()
	require.Contains(t, out, "Comparing: \na\nb\n")
	require.Contains(t, out, "Measure device: cpu\n")
	require.Contains(t, out, "img1.png, img1.png, inf, 1.000, 0.000, ")
	require.Contains(t, out, "Final Result: ")
}

func TestBatchService_QuietOutput(t *testing.T) {
	f := newBatchFixture()
	cfg := defaultBatchConfig()
	cfg.Verbose = false

	_, err := f.service(cfg).MeasureDirs(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Measure device: cpu\n", f.out.String())
}

func TestBatchService_TruncatesUnequalDirectories(t *testing.T) {
	f := newBatchFixture()
	f.finder["b"] = []string{"b/img1.png"}

	summary, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Pairs)
	require.Len(t, f.sink.Steps(), 1)
}

func TestBatchService_StrictPairs(t *testing.T) {
	f := newBatchFixture()
	f.finder["b"] = []string{"b/img1.png"}
	cfg := defaultBatchConfig()
	cfg.StrictPairs = true

	_, err := f.service(cfg).MeasureDirs(context.Background())
	require.ErrorIs(t, err, ErrPairCountMismatch)
	require.Empty(t, f.sink.Steps())
	require.Empty(t, f.sink.Summaries())
}

func TestBatchService_ShapeMismatchAbortsRun(t *testing.T) {
	f := newBatchFixture()
	f.loader["b/img2.png"] = gradientImage(9, 8)

	_, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.ErrorIs(t, err, entity.ErrShapeMismatch)
	require.Contains(t, err.Error(), "pair 1")

	require.Len(t, f.sink.Steps(), 1)
	require.Empty(t, f.sink.Summaries())
	_, ok := f.sink.Summary("run-1")
	require.False(t, ok)
	require.Zero(t, f.notifier.calls)
}

func TestBatchService_LoadErrorAbortsRun(t *testing.T) {
	f := newBatchFixture()
	delete(f.loader, "a/img1.png")

	_, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.Error(t, err)
	require.Empty(t, f.sink.Steps())
	require.Empty(t, f.sink.Summaries())
}

func TestBatchService_NotifierErrorIsNotFatal(t *testing.T) {
	f := newBatchFixture()
	f.notifier.err = errors.New("telegram is down")

	summary, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, summary.Pairs)
	require.Equal(t, 1, f.notifier.calls)
}

func TestBatchService_NoPairs(t *testing.T) {
	f := newBatchFixture()
	f.finder["a"] = nil
	f.finder["b"] = nil

	summary, err := f.service(defaultBatchConfig()).MeasureDirs(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.Pairs)
	require.True(t, math.IsNaN(summary.PSNR))
	require.Len(t, f.sink.Summaries(), 1)
}

func TestBatchService_Cancelled(t *testing.T) {
	f := newBatchFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service(defaultBatchConfig()).MeasureDirs(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, f.sink.Summaries())
}

func TestBatchService_FinderError(t *testing.T) {
	f := newBatchFixture()
	cfg := defaultBatchConfig()
	cfg.DirB = "missing"

	_, err := f.service(cfg).MeasureDirs(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}

func TestBatchConfig_Validate(t *testing.T) {
	require.NoError(t, defaultBatchConfig().Validate())

	noDir := defaultBatchConfig()
	noDir.DirB = ""
	require.ErrorIs(t, noDir.Validate(), ErrMissingDirectory)

	noExt := defaultBatchConfig()
	noExt.Extension = "."
	require.Error(t, noExt.Validate())

	noRun := defaultBatchConfig()
	noRun.RunID = ""
	require.Error(t, noRun.Validate())
}
