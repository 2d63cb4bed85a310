package storage

import (
	"context"
	"sort"
	"sync"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

// LoggedStep метрики, записанные с номером шага
type LoggedStep struct {
	Step    int
	Metrics map[string]float64
}

// MemoryMetricsSink in-memory трекер и архив: хранит всё, что в него записали
type MemoryMetricsSink struct {
	mu        sync.RWMutex
	steps     []LoggedStep
	summaries []map[string]float64
	pairs     map[string][]entity.MetricResult
	runs      map[string]entity.RunSummary
}

// NewMemoryMetricsSink создаёт пустое in-memory хранилище
func NewMemoryMetricsSink() *MemoryMetricsSink {
	return &MemoryMetricsSink{
		pairs: make(map[string][]entity.MetricResult),
		runs:  make(map[string]entity.RunSummary),
	}
}

// LogMetrics запоминает метрики шага
func (s *MemoryMetricsSink) LogMetrics(ctx context.Context, metrics map[string]float64, step int) error {
	s.mu.Lock()
	s.steps = append(s.steps, LoggedStep{Step: step, Metrics: copyMetrics(metrics)})
	s.mu.Unlock()

	return nil
}

// LogSummary запоминает итоговые метрики
func (s *MemoryMetricsSink) LogSummary(ctx context.Context, metrics map[string]float64) error {
	s.mu.Lock()
	s.summaries = append(s.summaries, copyMetrics(metrics))
	s.mu.Unlock()

	return nil
}

// SavePair сохраняет метрики пары в архив прогона
func (s *MemoryMetricsSink) SavePair(ctx context.Context, runID string, pair entity.ImagePair, result entity.MetricResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs[runID] = append(s.pairs[runID], result)
	return nil
}

// SaveSummary сохраняет итог прогона
func (s *MemoryMetricsSink) SaveSummary(ctx context.Context, runID string, summary entity.RunSummary) error {
	s.mu.Lock()
	s.runs[runID] = summary
	s.mu.Unlock()

	return nil
}

// Steps возвращает записанные шаги в порядке номеров
func (s *MemoryMetricsSink) Steps() []LoggedStep {
	s.mu.RLock()
	defer s.mu.RUnlock()

	steps := make([]LoggedStep, len(s.steps))
	copy(steps, s.steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Step < steps[j].Step })
	return steps
}

// Summaries возвращает все итоговые записи
func (s *MemoryMetricsSink) Summaries() []map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]map[string]float64, len(s.summaries))
	copy(out, s.summaries)
	return out
}

// Pairs возвращает архив метрик прогона
func (s *MemoryMetricsSink) Pairs(runID string) []entity.MetricResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entity.MetricResult(nil), s.pairs[runID]...)
}

// Summary возвращает сохранённый итог прогона
func (s *MemoryMetricsSink) Summary(runID string) (entity.RunSummary, bool) {
	s.mu.RLock()
	summary, ok := s.runs[runID]
	s.mu.RUnlock()

	return summary, ok
}

func copyMetrics(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		out[k] = v
	}
	return out
}

// Проверка реализации интерфейсов
var (
	_ port.MetricsSink      = (*MemoryMetricsSink)(nil)
	_ port.ResultRepository = (*MemoryMetricsSink)(nil)
)
