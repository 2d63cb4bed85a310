package vision

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrCUDAUnavailable запрошен CUDA, а OpenCV собран без него
var ErrCUDAUnavailable = errors.New("cuda device requested but no CUDA-enabled device is available (build with -tags gocv,cuda)")

// Имена входов LPIPS-модели, экспортированной в ONNX
const (
	DefaultInputA = "in0"
	DefaultInputB = "in1"
)

// float32Bytes упаковывает данные тензора в байты с порядком хоста, как в cv::Mat
func float32Bytes(data []float32) []byte {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
