package onboarding

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"
)

// PickChallengeIndices draws n distinct positions from [0, words) uniformly
// without replacement and returns them in ascending order. A nil r reads
// from crypto/rand.
func PickChallengeIndices(r io.Reader, words, n int) ([]int, error) {
	if n <= 0 || words <= 0 || n > words {
		return nil, fmt.Errorf("cannot pick %d of %d words", n, words)
	}
	if r == nil {
		r = rand.Reader
	}

	pool := make([]int, words)
	for i := range pool {
		pool[i] = i
	}
	// partial Fisher-Yates
	for i := 0; i < n; i++ {
		j, err := rand.Int(r, big.NewInt(int64(words-i)))
		if err != nil {
			return nil, fmt.Errorf("failed to draw challenge index: %w", err)
		}
		k := i + int(j.Int64())
		pool[i], pool[k] = pool[k], pool[i]
	}

	picked := append([]int(nil), pool[:n]...)
	sort.Ints(picked)
	return picked, nil
}
