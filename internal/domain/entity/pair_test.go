package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairPaths(t *testing.T) {
	pairs := PairPaths([]string{"a/1.png", "a/2.png"}, []string{"b/x.png", "b/y.png"})

	require.Equal(t, []ImagePair{
		{Index: 0, PathA: "a/1.png", PathB: "b/x.png"},
		{Index: 1, PathA: "a/2.png", PathB: "b/y.png"},
	}, pairs)
}

func TestPairPaths_TruncatesToShorter(t *testing.T) {
	pairs := PairPaths([]string{"a1", "a2", "a3"}, []string{"b1"})
	require.Len(t, pairs, 1)
	require.Equal(t, "a1", pairs[0].PathA)

	require.Empty(t, PairPaths(nil, []string{"b1"}))
}
