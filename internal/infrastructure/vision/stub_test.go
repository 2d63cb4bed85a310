//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vision-measure/internal/domain/entity"
)

func TestNewImageLoader_Default(t *testing.T) {
	require.IsType(t, &StdLoader{}, NewImageLoader())
}

func TestNewLPIPSModel_RequiresGoCV(t *testing.T) {
	model, err := NewLPIPSModel("weights/lpips_alex.onnx", entity.DeviceCPU)
	require.Error(t, err)
	require.Nil(t, model)
}
