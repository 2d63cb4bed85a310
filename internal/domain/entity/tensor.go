package entity

import "fmt"

// Device вычислительное устройство для перцептивной модели
type Device string

const (
	DeviceCPU  Device = "cpu"  // вычисления на процессоре
	DeviceCUDA Device = "cuda" // вычисления на GPU через CUDA
)

// DeviceFor выбирает устройство по флагу использования ускорителя
func DeviceFor(useGPU bool) Device {
	if useGPU {
		return DeviceCUDA
	}
	return DeviceCPU
}

// Backbone сеть, на которой обучена перцептивная метрика
type Backbone string

const (
	BackboneAlex    Backbone = "alex"
	BackboneVGG     Backbone = "vgg"
	BackboneSqueeze Backbone = "squeeze"
)

// ParseBackbone проверяет имя сети
func ParseBackbone(name string) (Backbone, error) {
	switch b := Backbone(name); b {
	case BackboneAlex, BackboneVGG, BackboneSqueeze:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backbone %q (use alex, vgg or squeeze)", name)
	}
}

// Tensor буфер float32 в раскладке NCHW
type Tensor struct {
	N, C, H, W int
	Data       []float32
}

// Dims возвращает размерности тензора в порядке N, C, H, W
func (t Tensor) Dims() []int {
	return []int{t.N, t.C, t.H, t.W}
}

// At возвращает элемент (n, c, y, x)
func (t Tensor) At(n, c, y, x int) float32 {
	return t.Data[((n*t.C+c)*t.H+y)*t.W+x]
}

// NewTensor готовит изображение для перцептивной модели:
// (H, W, C) -> (1, H, W, C) -> (1, C, H, W), значения uint8/127.5 - 1.
func NewTensor(img Image) (Tensor, error) {
	if err := img.CheckRGB8(); err != nil {
		return Tensor{}, err
	}

	t := Tensor{N: 1, C: img.Channels, H: img.Height, W: img.Width}
	t.Data = make([]float32, len(img.Pix))
	plane := img.Height * img.Width
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			src := (y*img.Width + x) * img.Channels
			dst := y*img.Width + x
			for c := 0; c < img.Channels; c++ {
				t.Data[c*plane+dst] = float32(img.Pix[src+c])/127.5 - 1
			}
		}
	}
	return t, nil
}
