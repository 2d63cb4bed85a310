package entity

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch размеры сравниваемых изображений различаются
var ErrShapeMismatch = errors.New("image sizes not the same")

// ValidationError ошибка проверки пары изображений перед расчётом метрик
type ValidationError struct {
	ShapeA Shape
	ShapeB Shape
}

// NewValidationError создаёт ошибку несовпадения размеров
func NewValidationError(a, b Image) *ValidationError {
	return &ValidationError{ShapeA: a.Shape(), ShapeB: b.Shape()}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s vs %s", ErrShapeMismatch, e.ShapeA, e.ShapeB)
}

func (e *ValidationError) Unwrap() error {
	return ErrShapeMismatch
}
