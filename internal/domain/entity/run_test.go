package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRun_DefaultState(t *testing.T) {
	r := NewRun("abc")
	require.Equal(t, StateInit, r.State)
	require.Equal(t, "abc", r.ID)
	require.False(t, r.Finished())
}

func TestRun_RecordAndFinish(t *testing.T) {
	r := NewRun("abc")
	r.SetState(StateMeasuring)
	r.Record(MetricResult{PSNR: 20})
	require.Len(t, r.Results, 1)

	r.SetState(StateDone)
	require.True(t, r.Finished())

	r.SetState(StateFailed)
	require.True(t, r.Finished())
}
