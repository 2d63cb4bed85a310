//go:build gocv && !cuda
// +build gocv,!cuda

package vision

// cudaDevices без тега cuda OpenCV считается собранным без CUDA
func cudaDevices() int {
	return 0
}
