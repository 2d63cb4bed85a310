//go:build !gocv
// +build !gocv

package vision

import "vision-measure/internal/domain/port"

// NewImageLoader возвращает загрузчик на чистом Go (сборка без тега gocv).
func NewImageLoader() port.ImageLoader {
	return NewStdLoader()
}
