package entity

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Ключи метрик в трекере экспериментов
const (
	KeyPSNR         = "PSNR"
	KeySSIM         = "SSIM"
	KeyLPIPS        = "LPIPS"
	KeyAveragePSNR  = "Average PSNR"
	KeyAverageSSIM  = "Average SSIM"
	KeyAverageLPIPS = "Average LPIPS"
)

// MetricResult метрики одной пары изображений
type MetricResult struct {
	PSNR  float64 // дБ, чем больше, тем лучше; +Inf для идентичных изображений
	SSIM  float64 // [-1, 1], чем больше, тем лучше
	LPIPS float64 // перцептивное расстояние, чем меньше, тем лучше
}

// Scalars возвращает метрики пары в виде, пригодном для трекера
func (r MetricResult) Scalars() map[string]float64 {
	return map[string]float64{
		KeyPSNR:  r.PSNR,
		KeySSIM:  r.SSIM,
		KeyLPIPS: r.LPIPS,
	}
}

func (r MetricResult) String() string {
	return FormatScores(r.PSNR, r.SSIM, r.LPIPS)
}

// RunSummary итог прогона: средние значения и затраченное время
type RunSummary struct {
	Pairs   int
	PSNR    float64
	SSIM    float64
	LPIPS   float64
	Elapsed time.Duration
}

// Summarize считает невзвешенное среднее каждой метрики.
// Для пустого набора средние равны NaN.
func Summarize(results []MetricResult, elapsed time.Duration) RunSummary {
	summary := RunSummary{Pairs: len(results), Elapsed: elapsed}
	if len(results) == 0 {
		summary.PSNR, summary.SSIM, summary.LPIPS = math.NaN(), math.NaN(), math.NaN()
		return summary
	}

	psnr := make([]float64, len(results))
	ssim := make([]float64, len(results))
	lpips := make([]float64, len(results))
	for i, r := range results {
		psnr[i], ssim[i], lpips[i] = r.PSNR, r.SSIM, r.LPIPS
	}

	summary.PSNR = stat.Mean(psnr, nil)
	summary.SSIM = stat.Mean(ssim, nil)
	summary.LPIPS = stat.Mean(lpips, nil)
	return summary
}

// Scalars возвращает средние значения без привязки к шагу
func (s RunSummary) Scalars() map[string]float64 {
	return map[string]float64{
		KeyAveragePSNR:  s.PSNR,
		KeyAverageSSIM:  s.SSIM,
		KeyAverageLPIPS: s.LPIPS,
	}
}

func (s RunSummary) String() string {
	return FormatScores(s.PSNR, s.SSIM, s.LPIPS)
}

// FormatScores форматирует тройку метрик для консоли
func FormatScores(psnr, ssim, lpips float64) string {
	return formatScore(psnr, 2) + ", " + formatScore(ssim, 3) + ", " + formatScore(lpips, 3)
}

// formatScore печатает бесконечность и NaN как inf, -inf и nan
func formatScore(v float64, prec int) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return fmt.Sprintf("%0.*f", prec, v)
}
