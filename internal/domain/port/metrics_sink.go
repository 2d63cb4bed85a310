package port

import "context"

// MetricsSink интерфейс трекера экспериментов, привязанного к прогону
type MetricsSink interface {
	// LogMetrics записывает метрики пары с явным номером шага
	LogMetrics(ctx context.Context, metrics map[string]float64, step int) error

	// LogSummary записывает итоговые метрики без номера шага
	LogSummary(ctx context.Context, metrics map[string]float64) error
}
