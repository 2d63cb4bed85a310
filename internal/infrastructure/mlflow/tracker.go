package mlflow

import (
	"context"
	"fmt"
	"sort"

	"vision-measure/internal/domain/port"
)

// RunTracker трекер, привязанный к существующему прогону MLflow
type RunTracker struct {
	client *Client
	runID  string
}

// Attach подключается к существующему прогону и переводит его в RUNNING.
// Новый прогон не создаётся: если его нет, возвращается ErrRunNotFound.
func (c *Client) Attach(ctx context.Context, runID string) (*RunTracker, error) {
	info, err := c.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("attach to run %s: %w", runID, err)
	}
	if info.LifecycleStage == "deleted" {
		return nil, fmt.Errorf("attach to run %s: %w (deleted)", runID, ErrRunNotFound)
	}
	if err := c.UpdateRun(ctx, runID, StatusRunning, 0); err != nil {
		return nil, fmt.Errorf("start run %s: %w", runID, err)
	}
	return &RunTracker{client: c, runID: runID}, nil
}

// RunID возвращает идентификатор прогона
func (t *RunTracker) RunID() string {
	return t.runID
}

// LogMetrics записывает метрики пары на шаге step
func (t *RunTracker) LogMetrics(ctx context.Context, metrics map[string]float64, step int) error {
	return t.client.LogBatch(ctx, t.runID, t.batch(metrics, int64(step)))
}

// LogSummary записывает итоговые метрики; MLflow подставляет шаг 0
func (t *RunTracker) LogSummary(ctx context.Context, metrics map[string]float64) error {
	return t.client.LogBatch(ctx, t.runID, t.batch(metrics, 0))
}

// Finish помечает прогон завершённым
func (t *RunTracker) Finish(ctx context.Context) error {
	return t.client.UpdateRun(ctx, t.runID, StatusFinished, t.client.now().UnixMilli())
}

func (t *RunTracker) batch(metrics map[string]float64, step int64) []Metric {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ts := t.client.now().UnixMilli()
	batch := make([]Metric, 0, len(keys))
	for _, k := range keys {
		batch = append(batch, Metric{Key: k, Value: Value(metrics[k]), Timestamp: ts, Step: step})
	}
	return batch
}

// Проверка реализации интерфейса
var _ port.MetricsSink = (*RunTracker)(nil)
