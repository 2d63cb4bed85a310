//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

// GoCVLoader загружает изображения через OpenCV
type GoCVLoader struct{}

// NewImageLoader возвращает загрузчик на OpenCV (сборка с тегом gocv).
func NewImageLoader() port.ImageLoader {
	return &GoCVLoader{}
}

// Load читает файл в BGR и сразу переводит его в RGB.
func (l *GoCVLoader) Load(path string) (entity.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return entity.Image{}, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}

	bgr := gocv.IMRead(path, gocv.IMReadColor)
	defer bgr.Close()
	if bgr.Empty() {
		return entity.Image{}, fmt.Errorf("%w %s: not a decodable image", ErrLoad, path)
	}

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(bgr, &rgb, gocv.ColorBGRToRGB)

	return entity.Image{
		Height:   rgb.Rows(),
		Width:    rgb.Cols(),
		Channels: rgb.Channels(),
		Pix:      rgb.ToBytes(),
	}, nil
}

var _ port.ImageLoader = (*GoCVLoader)(nil)
