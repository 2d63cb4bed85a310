package container

import (
	"io"

	"github.com/rs/zerolog"

	app "vision-measure/internal/application"
	"vision-measure/internal/domain/port"
)

// Dependencies внешние адаптеры прогона. Archive и Notifier необязательны.
type Dependencies struct {
	Finder   port.FileFinder
	Loader   port.ImageLoader
	Model    port.PerceptualModel
	Sink     port.MetricsSink
	Archive  port.ResultRepository
	Notifier port.Notifier
}

type Container struct {
	MeasureService *app.MeasureService
	BatchService   *app.BatchService
}

func New(cfg app.BatchConfig, deps Dependencies, out io.Writer, log zerolog.Logger) *Container {
	measureService := app.NewMeasureService(deps.Model)
	batchService := app.NewBatchService(
		cfg,
		deps.Finder,
		deps.Loader,
		measureService,
		deps.Sink,
		deps.Archive,
		deps.Notifier,
		out,
		log,
	)

	return &Container{
		MeasureService: measureService,
		BatchService:   batchService,
	}
}
