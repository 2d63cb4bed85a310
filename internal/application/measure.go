package app

import (
	"context"
	"errors"
	"fmt"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

// MeasureService считает метрики качества для пары изображений
type MeasureService struct {
	model port.PerceptualModel
}

// NewMeasureService создаёт сервис с перцептивной моделью, загруженной один раз
func NewMeasureService(model port.PerceptualModel) *MeasureService {
	return &MeasureService{model: model}
}

// Device возвращает устройство перцептивной модели
func (s *MeasureService) Device() entity.Device {
	if s.model == nil {
		return entity.DeviceCPU
	}
	return s.model.Device()
}

// Measure проверяет совпадение размеров и считает PSNR, SSIM и LPIPS.
// При несовпадении размеров ни одна метрика не считается.
func (s *MeasureService) Measure(ctx context.Context, imgA, imgB entity.Image) (entity.MetricResult, error) {
	if !entity.SameShape(imgA, imgB) {
		return entity.MetricResult{}, entity.NewValidationError(imgA, imgB)
	}

	var result entity.MetricResult
	result.PSNR = s.PSNR(imgA, imgB)

	ssim, err := s.SSIM(imgA, imgB)
	if err != nil {
		return entity.MetricResult{}, err
	}
	result.SSIM = ssim

	lpips, err := s.LPIPS(ctx, imgA, imgB)
	if err != nil {
		return entity.MetricResult{}, err
	}
	result.LPIPS = lpips

	return result, nil
}

// PSNR пиковое отношение сигнал/шум в дБ
func (s *MeasureService) PSNR(imgA, imgB entity.Image) float64 {
	return peakSignalNoiseRatio(imgA, imgB)
}

// SSIM индекс структурного сходства, усреднённый по каналам
func (s *MeasureService) SSIM(imgA, imgB entity.Image) (float64, error) {
	return structuralSimilarity(imgA, imgB)
}

// LPIPS обученное перцептивное расстояние
func (s *MeasureService) LPIPS(ctx context.Context, imgA, imgB entity.Image) (float64, error) {
	if s.model == nil {
		return 0, errors.New("perceptual model is not configured")
	}

	tA, err := entity.NewTensor(imgA)
	if err != nil {
		return 0, fmt.Errorf("prepare first image: %w", err)
	}
	tB, err := entity.NewTensor(imgB)
	if err != nil {
		return 0, fmt.Errorf("prepare second image: %w", err)
	}

	dist, err := s.model.Distance(ctx, tA, tB)
	if err != nil {
		return 0, fmt.Errorf("perceptual distance: %w", err)
	}
	return dist, nil
}
