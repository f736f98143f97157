package onboarding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickChallengeIndices_Distribution(t *testing.T) {
	const trials = 10000
	counts := make([]int, 12)

	for i := 0; i < trials; i++ {
		idx, err := PickChallengeIndices(nil, 12, 3)
		require.NoError(t, err)
		require.Len(t, idx, 3)

		seen := map[int]bool{}
		for j, v := range idx {
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, 12)
			require.False(t, seen[v], "duplicate index %d", v)
			seen[v] = true
			if j > 0 {
				require.Greater(t, v, idx[j-1])
			}
			counts[v]++
		}
	}

	// expected 2500 per position, sigma is about 48
	for pos, c := range counts {
		require.InDelta(t, 2500, c, 300, "position %d", pos)
	}
}

func TestPickChallengeIndices_Bounds(t *testing.T) {
	_, err := PickChallengeIndices(nil, 12, 13)
	require.Error(t, err)
	_, err = PickChallengeIndices(nil, 12, 0)
	require.Error(t, err)

	all, err := PickChallengeIndices(nil, 5, 5)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, all)
}

func TestPickChallengeIndices_ReaderError(t *testing.T) {
	_, err := PickChallengeIndices(bytes.NewReader(nil), 12, 3)
	require.Error(t, err)
}
