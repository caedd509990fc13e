package segment

import (
	"context"
	"fmt"
	"math/rand"
)

// Random places k-1 boundaries uniformly at random, without replacement.
type Random struct {
	entries []Entry
	rng     *rand.Rand
}

func NewRandom(entries []Entry, seed int64) *Random {
	return &Random{entries: entries, rng: rand.New(rand.NewSource(seed))}
}

func (m *Random) SegmentMeeting(_ context.Context, k int) ([]int, error) {
	n := len(m.entries)
	if k-1 > n {
		return nil, fmt.Errorf("cannot place %d boundaries over %d utterances", k-1, n)
	}

	labels := make([]int, n)
	for _, idx := range m.rng.Perm(n)[:k-1] {
		labels[idx] = 1
	}
	return labels, nil
}

// Equi places k-1 evenly spaced boundaries, offset by half a period so the
// first and last segments are not degenerate.
type Equi struct {
	entries []Entry
}

func NewEqui(entries []Entry) *Equi {
	return &Equi{entries: entries}
}

func (m *Equi) SegmentMeeting(_ context.Context, k int) ([]int, error) {
	n := len(m.entries)
	labels := make([]int, n)
	if k < 2 {
		return labels, nil
	}
	if k-1 > n {
		return nil, fmt.Errorf("cannot place %d boundaries over %d utterances", k-1, n)
	}

	period := n / (k - 1)
	offset := period / 2
	for j := 0; j < k-1; j++ {
		labels[offset+j*period] = 1
	}
	return labels, nil
}
