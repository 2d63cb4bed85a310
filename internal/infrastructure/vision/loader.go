package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

// ErrLoad файл не найден или не декодируется как изображение
var ErrLoad = errors.New("failed to load image")

// StdLoader загружает изображения декодерами image и golang.org/x/image
type StdLoader struct{}

// NewStdLoader создаёт загрузчик без зависимости от OpenCV
func NewStdLoader() *StdLoader {
	return &StdLoader{}
}

// Load читает файл и приводит его к RGB, альфа-канал отбрасывается
func (l *StdLoader) Load(path string) (entity.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.Image{}, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return entity.Image{}, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}
	return toRGB(src), nil
}

// toRGB копирует пиксели в плотный RGB-массив без премультипликации
func toRGB(src image.Image) entity.Image {
	b := src.Bounds()
	img := entity.NewImage(b.Dx(), b.Dy())

	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < b.Dx(); x++ {
				img.Set(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return img
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Set(x, y, c.R, c.G, c.B)
		}
	}
	return img
}

// Проверка реализации интерфейса
var _ port.ImageLoader = (*StdLoader)(nil)
