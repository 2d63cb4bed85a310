//go:build gocv && cuda
// +build gocv,cuda

package vision

import "gocv.io/x/gocv/cuda"

// cudaDevices число CUDA-устройств, видимых OpenCV
func cudaDevices() int {
	return cuda.GetCudaEnabledDeviceCount()
}
