//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"vision-measure/internal/domain/entity"
)

// LPIPSModel заглушка перцептивной модели (без OpenCV).
type LPIPSModel struct {
	device entity.Device
}

// NewLPIPSModel возвращает ошибку, если сборка без тега gocv.
func NewLPIPSModel(modelPath string, device entity.Device) (*LPIPSModel, error) {
	_ = modelPath
	_ = device
	return nil, errors.New("gocv build tag is not enabled")
}

// Device возвращает устройство заглушки.
func (m *LPIPSModel) Device() entity.Device {
	return m.device
}

// Distance возвращает ошибку, если сборка без тега gocv.
func (m *LPIPSModel) Distance(ctx context.Context, a, b entity.Tensor) (float64, error) {
	_ = ctx
	_ = a
	_ = b
	return 0, errors.New("gocv build tag is not enabled")
}

// Close ничего не делает в сборке без тега gocv.
func (m *LPIPSModel) Close() error {
	return nil
}
