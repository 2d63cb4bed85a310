package port

import "vision-measure/internal/domain/entity"

// ImageLoader интерфейс загрузчика изображений
type ImageLoader interface {
	// Load читает файл и возвращает изображение в порядке каналов RGB
	Load(path string) (entity.Image, error)
}
