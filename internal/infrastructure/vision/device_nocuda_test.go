//go:build gocv && !cuda
// +build gocv,!cuda

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"vision-measure/internal/domain/entity"
)

func TestBindDevice_CUDAWithoutSupport(t *testing.T) {
	net := gocv.Net{}
	require.ErrorIs(t, bindDevice(&net, entity.DeviceCUDA), ErrCUDAUnavailable)
}
