package segment

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Embedder produces one embedding vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Embed scores topic cohesion from utterance embeddings and cuts at the
// k-1 weakest positions: each candidate boundary is scored by the cosine
// similarity between the mean embedding of the utterances on either side
// of it, the score series is mean-smoothed, and the lowest-cohesion
// positions become boundaries.
type Embed struct {
	entries []Entry
	client  Embedder

	// ComparisonWindow is the number of utterances pooled on each side of
	// a candidate boundary.
	ComparisonWindow int
	SmoothingPasses  int
	SmoothingWindow  int
}

func NewEmbed(entries []Entry, client Embedder) *Embed {
	return &Embed{
		entries:          entries,
		client:           client,
		ComparisonWindow: 2,
		SmoothingPasses:  2,
		SmoothingWindow:  1,
	}
}

func (m *Embed) SegmentMeeting(ctx context.Context, k int) ([]int, error) {
	n := len(m.entries)
	if k-1 > n-1 {
		return nil, fmt.Errorf("cannot place %d boundaries over %d utterances", k-1, n)
	}

	labels := make([]int, n)
	if k < 2 {
		return labels, nil
	}

	texts := make([]string, n)
	for i, e := range m.entries {
		texts[i] = e.Text
	}
	vecs, err := m.client.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != n {
		return nil, fmt.Errorf("embedder returned %d vectors for %d utterances", len(vecs), n)
	}

	scores := m.cohesion(vecs)
	for pass := 0; pass < m.SmoothingPasses; pass++ {
		scores = meanSmooth(scores, m.SmoothingWindow)
	}

	// Candidate boundaries are positions 1..n-1; position 0 is never one.
	candidates := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		candidates = append(candidates, i)
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return scores[candidates[a]] < scores[candidates[b]]
	})
	for _, idx := range candidates[:k-1] {
		labels[idx] = 1
	}
	return labels, nil
}

// cohesion scores every position by the similarity of the utterance pools
// on either side of it. Position 0 gets the maximum score so it can never
// be chosen as a boundary.
func (m *Embed) cohesion(vecs [][]float64) []float64 {
	n := len(vecs)
	w := m.ComparisonWindow
	if w < 1 {
		w = 1
	}

	scores := make([]float64, n)
	scores[0] = 1
	for i := 1; i < n; i++ {
		lo := i - w
		if lo < 0 {
			lo = 0
		}
		hi := i + w
		if hi > n {
			hi = n
		}
		scores[i] = cosine(meanVec(vecs[lo:i]), meanVec(vecs[i:hi]))
	}
	return scores
}

func meanSmooth(scores []float64, w int) []float64 {
	out := make([]float64, len(scores))
	for i := range scores {
		lo := i - w
		if lo < 0 {
			lo = 0
		}
		hi := i + w + 1
		if hi > len(scores) {
			hi = len(scores)
		}
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += scores[j]
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func meanVec(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	mean := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i := range mean {
			if i < len(v) {
				mean[i] += v[i]
			}
		}
	}
	for i := range mean {
		mean[i] /= float64(len(vecs))
	}
	return mean
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
