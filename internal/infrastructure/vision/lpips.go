//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

// LPIPSModel обученная перцептивная метрика, выполняемая модулем DNN OpenCV
type LPIPSModel struct {
	net    gocv.Net
	device entity.Device
	inputA string
	inputB string
}

// NewLPIPSModel загружает ONNX-модель один раз и привязывает её к устройству.
func NewLPIPSModel(modelPath string, device entity.Device) (*LPIPSModel, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("perceptual model: %w", err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load perceptual model %s", modelPath)
	}

	if err := bindDevice(&net, device); err != nil {
		net.Close()
		return nil, err
	}

	return &LPIPSModel{
		net:    net,
		device: device,
		inputA: DefaultInputA,
		inputB: DefaultInputB,
	}, nil
}

// Device возвращает устройство, на котором выполняется сеть
func (m *LPIPSModel) Device() entity.Device {
	return m.device
}

// Distance прогоняет оба тензора через сеть и возвращает скаляр расстояния.
func (m *LPIPSModel) Distance(ctx context.Context, a, b entity.Tensor) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	blobA, err := toBlob(a)
	if err != nil {
		return 0, err
	}
	defer blobA.Close()

	blobB, err := toBlob(b)
	if err != nil {
		return 0, err
	}
	defer blobB.Close()

	if err := m.net.SetInput(blobA, m.inputA); err != nil {
		return 0, fmt.Errorf("set input %s: %w", m.inputA, err)
	}
	if err := m.net.SetInput(blobB, m.inputB); err != nil {
		return 0, fmt.Errorf("set input %s: %w", m.inputB, err)
	}

	out := m.net.Forward("")
	defer out.Close()
	return firstScalar(out)
}

// Close освобождает сеть
func (m *LPIPSModel) Close() error {
	return m.net.Close()
}

// bindDevice выбирает backend и target сети. CUDA без поддержки в OpenCV считается ошибкой,
// иначе OpenCV молча перешёл бы на процессор.
func bindDevice(net *gocv.Net, device entity.Device) error {
	backend, target := gocv.NetBackendOpenCV, gocv.NetTargetCPU
	switch device {
	case entity.DeviceCPU:
	case entity.DeviceCUDA:
		if cudaDevices() == 0 {
			return ErrCUDAUnavailable
		}
		backend, target = gocv.NetBackendCUDA, gocv.NetTargetCUDA
	default:
		return fmt.Errorf("unknown device %q", device)
	}

	if err := net.SetPreferableBackend(backend); err != nil {
		return fmt.Errorf("set backend for %s: %w", device, err)
	}
	if err := net.SetPreferableTarget(target); err != nil {
		return fmt.Errorf("set target for %s: %w", device, err)
	}
	return nil
}

// firstScalar читает расстояние из выхода сети
func firstScalar(out gocv.Mat) (float64, error) {
	if out.Empty() {
		return 0, errors.New("perceptual model returned an empty output")
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return 0, fmt.Errorf("read model output: %w", err)
	}
	if len(data) == 0 {
		return 0, errors.New("perceptual model returned no values")
	}
	return float64(data[0]), nil
}

// toBlob превращает тензор NCHW в 4-мерный cv::Mat типа CV_32F
func toBlob(t entity.Tensor) (gocv.Mat, error) {
	blob, err := gocv.NewMatWithSizesFromBytes(t.Dims(), gocv.MatTypeCV32F, float32Bytes(t.Data))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("build input blob: %w", err)
	}
	return blob, nil
}

// Проверка реализации интерфейса
var _ port.PerceptualModel = (*LPIPSModel)(nil)
