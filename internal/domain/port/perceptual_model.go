package port

import (
	"context"

	"vision-measure/internal/domain/entity"
)

// PerceptualModel интерфейс обученной перцептивной метрики
type PerceptualModel interface {
	// Distance возвращает неотрицательное расстояние между тензорами (чем меньше, тем похожее)
	Distance(ctx context.Context, a, b entity.Tensor) (float64, error)

	// Device возвращает устройство, на котором выполняется модель
	Device() entity.Device
}
