package entity

import (
	"errors"
	"fmt"
)

// RGBChannels число каналов RGB-изображения
const RGBChannels = 3

// ErrNotRGB8 изображение не является массивом H×W×3 из uint8
var ErrNotRGB8 = errors.New("image is not a HxWx3 uint8 array")

// Shape размерность изображения (высота, ширина, каналы)
type Shape struct {
	Height   int
	Width    int
	Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Height, s.Width, s.Channels)
}

// Image изображение в памяти: построчно, каналы чередуются в порядке RGB
type Image struct {
	Height   int     // высота в пикселях
	Width    int     // ширина в пикселях
	Channels int     // число каналов, для RGB всегда 3
	Pix      []uint8 // данные длиной Height*Width*Channels
}

// NewImage создаёт пустое RGB-изображение заданного размера
func NewImage(width, height int) Image {
	return Image{
		Height:   height,
		Width:    width,
		Channels: RGBChannels,
		Pix:      make([]uint8, width*height*RGBChannels),
	}
}

// Shape возвращает размерность изображения
func (img Image) Shape() Shape {
	return Shape{Height: img.Height, Width: img.Width, Channels: img.Channels}
}

// Set записывает пиксель (x, y)
func (img Image) Set(x, y int, r, g, b uint8) {
	i := (y*img.Width + x) * img.Channels
	img.Pix[i] = r
	img.Pix[i+1] = g
	img.Pix[i+2] = b
}

// At возвращает значение канала c пикселя (x, y)
func (img Image) At(x, y, c int) uint8 {
	return img.Pix[(y*img.Width+x)*img.Channels+c]
}

// CheckRGB8 проверяет, что изображение является корректным массивом H×W×3
func (img Image) CheckRGB8() error {
	if img.Height <= 0 || img.Width <= 0 || img.Channels != RGBChannels {
		return fmt.Errorf("%w: shape %s", ErrNotRGB8, img.Shape())
	}
	if len(img.Pix) != img.Height*img.Width*img.Channels {
		return fmt.Errorf("%w: %d bytes for shape %s", ErrNotRGB8, len(img.Pix), img.Shape())
	}
	return nil
}

// SameShape сообщает, совпадают ли все размерности двух изображений
func SameShape(a, b Image) bool {
	return a.Shape() == b.Shape()
}
