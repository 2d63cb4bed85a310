package app

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"vision-measure/internal/domain/entity"
)

const (
	// dataRange диапазон значений uint8
	dataRange = 255.0

	// Параметры SSIM по умолчанию (scikit-image): окно 7×7, K1=0.01, K2=0.03
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
)

// ErrImageTooSmall изображение меньше окна SSIM
var ErrImageTooSmall = errors.New("image is smaller than the ssim window")

// channelPlanes раскладывает изображение на плоскости каналов в float64
func channelPlanes(img entity.Image) [][]float64 {
	plane := img.Height * img.Width
	planes := make([][]float64, img.Channels)
	for c := range planes {
		planes[c] = make([]float64, plane)
	}
	for i := 0; i < plane; i++ {
		for c := 0; c < img.Channels; c++ {
			planes[c][i] = float64(img.Pix[i*img.Channels+c])
		}
	}
	return planes
}

// peakSignalNoiseRatio считает PSNR по сырым массивам одинаковой формы.
// Для идентичных изображений возвращает +Inf.
func peakSignalNoiseRatio(a, b entity.Image) float64 {
	x := make([]float64, len(a.Pix))
	y := make([]float64, len(b.Pix))
	for i := range a.Pix {
		x[i] = float64(a.Pix[i])
		y[i] = float64(b.Pix[i])
	}

	diff := make([]float64, len(x))
	floats.SubTo(diff, x, y)
	mse := floats.Dot(diff, diff) / float64(len(diff))
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(dataRange*dataRange/mse)
}

// structuralSimilarity считает SSIM каждого канала и усредняет результат.
// Среднее берётся по всем окнам, целиком лежащим внутри изображения.
func structuralSimilarity(a, b entity.Image) (float64, error) {
	if a.Height < ssimWindow || a.Width < ssimWindow {
		return 0, fmt.Errorf("%w: %s, window %d", ErrImageTooSmall, a.Shape(), ssimWindow)
	}

	planesA := channelPlanes(a)
	planesB := channelPlanes(b)
	perChannel := make([]float64, a.Channels)
	for c := range perChannel {
		perChannel[c] = channelSSIM(planesA[c], planesB[c], a.Width, a.Height)
	}
	return stat.Mean(perChannel, nil), nil
}

func channelSSIM(x, y []float64, width, height int) float64 {
	c1 := math.Pow(ssimK1*dataRange, 2)
	c2 := math.Pow(ssimK2*dataRange, 2)

	winX := make([]float64, ssimWindow*ssimWindow)
	winY := make([]float64, ssimWindow*ssimWindow)

	var sum float64
	var count int
	for y0 := 0; y0+ssimWindow <= height; y0++ {
		for x0 := 0; x0+ssimWindow <= width; x0++ {
			for dy := 0; dy < ssimWindow; dy++ {
				row := (y0+dy)*width + x0
				copy(winX[dy*ssimWindow:(dy+1)*ssimWindow], x[row:row+ssimWindow])
				copy(winY[dy*ssimWindow:(dy+1)*ssimWindow], y[row:row+ssimWindow])
			}

			ux := stat.Mean(winX, nil)
			uy := stat.Mean(winY, nil)
			vx := stat.Variance(winX, nil)
			vy := stat.Variance(winY, nil)
			vxy := stat.Covariance(winX, winY, nil)

			num := (2*ux*uy + c1) * (2*vxy + c2)
			den := (ux*ux + uy*uy + c1) * (vx + vy + c2)
			sum += num / den
			count++
		}
	}
	return sum / float64(count)
}
