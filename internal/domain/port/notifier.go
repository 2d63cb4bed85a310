package port

import (
	"context"

	"vision-measure/internal/domain/entity"
)

// Notifier интерфейс отправки итогов прогона
type Notifier interface {
	// NotifySummary отправляет сводку по завершённому прогону
	NotifySummary(ctx context.Context, runID string, summary entity.RunSummary) error
}
