//go:build gocv
// +build gocv

package vision

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"vision-measure/internal/domain/entity"
)

func TestToBlob_NCHWShape(t *testing.T) {
	img := entity.NewImage(5, 4)
	img.Set(0, 0, 255, 0, 0)
	img.Set(4, 3, 0, 0, 255)
	tensor, err := entity.NewTensor(img)
	require.NoError(t, err)

	blob, err := toBlob(tensor)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, []int{1, 3, 4, 5}, blob.Size())
	data, err := blob.DataPtrFloat32()
	require.NoError(t, err)
	require.Equal(t, tensor.Data, data)
	require.Equal(t, float32(1), data[0])
	require.Equal(t, float32(1), data[2*4*5+3*5+4])
}

func TestFirstScalar(t *testing.T) {
	out, err := gocv.NewMatWithSizesFromBytes([]int{1, 1, 1, 1}, gocv.MatTypeCV32F, float32Bytes([]float32{0.42}))
	require.NoError(t, err)
	defer out.Close()

	dist, err := firstScalar(out)
	require.NoError(t, err)
	require.InDelta(t, 0.42, dist, 1e-6)
}

func TestFirstScalar_Empty(t *testing.T) {
	out := gocv.NewMat()
	defer out.Close()

	_, err := firstScalar(out)
	require.Error(t, err)
}

func TestNewLPIPSModel_MissingWeights(t *testing.T) {
	model, err := NewLPIPSModel(filepath.Join(t.TempDir(), "lpips_alex.onnx"), entity.DeviceCPU)
	require.Error(t, err)
	require.Nil(t, model)
}

func TestBindDevice_UnknownDevice(t *testing.T) {
	net := gocv.Net{}
	require.Error(t, bindDevice(&net, entity.Device("tpu")))
}
