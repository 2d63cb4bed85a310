package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vision-measure/config"
	telegram "vision-measure/internal/api"
	app "vision-measure/internal/application"
	"vision-measure/internal/container"
	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
	"vision-measure/internal/infrastructure/filesystem"
	"vision-measure/internal/infrastructure/mlflow"
	"vision-measure/internal/infrastructure/storage"
	"vision-measure/internal/infrastructure/vision"
	"vision-measure/internal/logging"
)

// options значения флагов командной строки
type options struct {
	dirA        string
	dirB        string
	extension   string
	useGPU      bool
	runID       string
	net         string
	modelPath   string
	dbPath      string
	quiet       bool
	strictPairs bool
	logLevel    string
	dryRun      bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "vision-measure",
		Short:         "Compare two image directories pairwise with PSNR, SSIM and LPIPS",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.Flags(), opts, stdout, stderr)
		},
	}

	bindFlags(cmd.Flags(), opts)
	_ = cmd.MarkFlagRequired("run_id")
	return cmd
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.dirA, "dirA", "", "first image directory")
	fs.StringVar(&opts.dirB, "dirB", "", "second image directory")
	fs.StringVar(&opts.extension, "type", "png", "image file extension")
	fs.BoolVar(&opts.useGPU, "use_gpu", false, "run the perceptual model on CUDA")
	fs.StringVar(&opts.runID, "run_id", "", "existing MLflow run id")
	fs.StringVar(&opts.net, "net", "", "LPIPS backbone: alex, vgg or squeeze (env LPIPS_NET)")
	fs.StringVar(&opts.modelPath, "model", "", "path to LPIPS ONNX weights (env LPIPS_MODEL_PATH)")
	fs.StringVar(&opts.dbPath, "db", "", "SQLite results archive (env RESULTS_DB)")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "print only the device line")
	fs.BoolVar(&opts.strictPairs, "strict-pairs", false, "fail when directories hold different numbers of images")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (env LOG_LEVEL)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "keep metrics in memory instead of logging them to MLflow")
}

func run(ctx context.Context, flags *pflag.FlagSet, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return err
	}
	applyFlags(cfg, flags, opts)

	log, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid log level: %v\n", err)
		return err
	}

	if err := measure(ctx, cfg, opts, stdout, log); err != nil {
		log.Error().Err(err).Str("run", opts.runID).Msg("comparison failed")
		return err
	}
	return nil
}

// applyFlags переопределяет значения окружения заданными флагами
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, opts *options) {
	if flags.Changed("net") {
		cfg.Net = opts.net
	}
	if flags.Changed("model") {
		cfg.ModelPath = opts.modelPath
	}
	if flags.Changed("db") {
		cfg.ResultsDB = opts.dbPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
}

func measure(ctx context.Context, cfg *config.Config, opts *options, stdout io.Writer, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	batchCfg := app.BatchConfig{
		DirA:        opts.dirA,
		DirB:        opts.dirB,
		Extension:   opts.extension,
		RunID:       opts.runID,
		Verbose:     !opts.quiet,
		StrictPairs: opts.strictPairs,
	}
	if err := batchCfg.Validate(); err != nil {
		if errors.Is(err, app.ErrMissingDirectory) {
			log.Warn().Str("dirA", opts.dirA).Str("dirB", opts.dirB).Msg("nothing to compare, both --dirA and --dirB are required")
			return nil
		}
		return err
	}

	device := entity.DeviceFor(opts.useGPU)
	model, err := vision.NewLPIPSModel(cfg.ResolvedModelPath(), device)
	if err != nil {
		return fmt.Errorf("load perceptual model: %w", err)
	}
	defer model.Close()
	log.Debug().Str("net", cfg.Net).Str("model", cfg.ResolvedModelPath()).Str("device", string(device)).Msg("perceptual model loaded")

	sink, finish, err := openSink(ctx, cfg, opts, log)
	if err != nil {
		return err
	}

	deps := container.Dependencies{
		Finder: filesystem.NewFinder(),
		Loader: vision.NewImageLoader(),
		Model:  model,
		Sink:   sink,
	}

	if cfg.ResultsDB != "" {
		archive, err := storage.NewSQLiteResultRepository(cfg.ResultsDB)
		if err != nil {
			return fmt.Errorf("open results archive: %w", err)
		}
		defer archive.Close()
		deps.Archive = archive
	}

	if cfg.NotificationsEnabled() {
		notifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			deps.Notifier = notifier
		}
	}

	c := container.New(batchCfg, deps, stdout, log)
	summary, err := c.BatchService.MeasureDirs(ctx)
	if err != nil {
		return err
	}

	if err := finish(ctx); err != nil {
		return fmt.Errorf("finish run %s: %w", opts.runID, err)
	}
	log.Info().Str("run", opts.runID).Int("pairs", summary.Pairs).Msg("comparison finished")
	return nil
}

// openSink подключается к прогону MLflow или, в режиме --dry-run, возвращает in-memory приёмник.
// finish вызывается после успешного прогона.
func openSink(ctx context.Context, cfg *config.Config, opts *options, log zerolog.Logger) (port.MetricsSink, func(context.Context) error, error) {
	if opts.dryRun {
		sink := storage.NewMemoryMetricsSink()
		finish := func(context.Context) error {
			log.Info().Int("steps", len(sink.Steps())).Int("summaries", len(sink.Summaries())).Msg("dry run, metrics were not sent to MLflow")
			return nil
		}
		return sink, finish, nil
	}

	client := mlflow.NewClient(mlflow.Options{
		TrackingURI: cfg.TrackingURI,
		Token:       cfg.TrackingToken,
		Username:    cfg.TrackingUsername,
		Password:    cfg.TrackingPassword,
	})
	tracker, err := client.Attach(ctx, opts.runID)
	if err != nil {
		return nil, nil, err
	}
	return tracker, tracker.Finish, nil
}
