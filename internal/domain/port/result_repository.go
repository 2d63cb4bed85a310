package port

import (
	"context"

	"vision-measure/internal/domain/entity"
)

// ResultRepository интерфейс локального архива результатов
type ResultRepository interface {
	// SavePair сохраняет метрики одной пары
	SavePair(ctx context.Context, runID string, pair entity.ImagePair, result entity.MetricResult) error

	// SaveSummary сохраняет итог прогона
	SaveSummary(ctx context.Context, runID string, summary entity.RunSummary) error
}
